// ABOUTME: Entry point for the quill CLI
// ABOUTME: Terminal client for reading and writing Quill articles

package main

import (
	"fmt"
	"os"

	"github.com/quillnet/quill-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
