// ABOUTME: UI command launching the interactive terminal application
// ABOUTME: Wires the client, session store and file logger together

package cmd

import (
	"github.com/quillnet/quill-cli/internal/logging"
	"github.com/quillnet/quill-cli/internal/tui"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive terminal UI",
	Long:  `Open the interactive terminal UI for browsing, writing and managing articles.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUI()
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI() error {
	if err := logging.Init(GetConfigDir()); err != nil {
		// The UI works without a log file
		logging.Close()
	}
	defer logging.Close()

	store := newSession()
	return tui.Run(newClient(store), store)
}
