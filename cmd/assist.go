// ABOUTME: Headless AI assist commands operating on a local file
// ABOUTME: Mirrors the editor's assist panel for scripted use

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/quillnet/quill-cli/internal/assist"
	"github.com/quillnet/quill-cli/internal/markup"
	"github.com/spf13/cobra"
)

var (
	assistFile  string
	assistMode  string
	assistTitle string
)

var assistCmd = &cobra.Command{
	Use:   "assist",
	Short: "Run AI writing assistance on a file",
}

var assistImproveCmd = &cobra.Command{
	Use:   "improve",
	Short: "Rewrite the text for clarity, grammar or concision",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAssist(ctx, os.Stdout, assist.KindImprove)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var assistSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Generate a short summary",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAssist(ctx, os.Stdout, assist.KindSummary)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var assistTitlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "Suggest alternative titles",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAssist(ctx, os.Stdout, assist.KindTitles)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var assistTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Suggest tags",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAssist(ctx, os.Stdout, assist.KindTags)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(assistCmd)
	assistCmd.AddCommand(assistImproveCmd)
	assistCmd.AddCommand(assistSummaryCmd)
	assistCmd.AddCommand(assistTitlesCmd)
	assistCmd.AddCommand(assistTagsCmd)

	assistCmd.PersistentFlags().StringVar(&assistFile, "file", "", "File holding the text to work on (required)")
	assistCmd.PersistentFlags().StringVar(&assistTitle, "title", "", "Current article title, used as context")
	assistCmd.MarkPersistentFlagRequired("file")

	assistImproveCmd.Flags().StringVar(&assistMode, "mode", string(assist.ModeClarity),
		"Improvement mode: clarity, grammar or concise")
}

// runAssist reads the input file, calls one AI endpoint and returns an exit code
func runAssist(ctx context.Context, w io.Writer, kind assist.Kind) int {
	if kind == assist.KindImprove && !assist.ValidMode(assist.Mode(assistMode)) {
		fmt.Fprintf(w, "Error: unknown mode %q (one of: clarity, grammar, concise)\n", assistMode)
		return 2
	}

	raw, err := os.ReadFile(assistFile)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	plain := strings.TrimSpace(markup.PlainText(string(raw)))
	if plain == "" {
		fmt.Fprintf(w, "Error: %v\n", assist.ErrEmptyInput)
		return 2
	}

	store := newSession()
	c := newClient(store)

	var text string
	var list []string
	switch kind {
	case assist.KindImprove:
		text, err = c.Improve(ctx, plain, assistMode)
	case assist.KindSummary:
		text, err = c.Summary(ctx, plain, assistTitle)
	case assist.KindTitles:
		list, err = c.SuggestTitles(ctx, plain, assistTitle)
	case assist.KindTags:
		list, err = c.SuggestTags(ctx, plain, assistTitle)
	}
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatAssistJSON(kind, text, list))
		return 0
	}
	if list != nil {
		for i, s := range list {
			fmt.Fprintf(w, "%d. %s\n", i+1, s)
		}
	} else {
		fmt.Fprintln(w, text)
	}
	return 0
}

// formatAssistJSON formats an assist result as JSON
func formatAssistJSON(kind assist.Kind, text string, list []string) string {
	out := map[string]any{"kind": kind.String()}
	if list != nil {
		out["suggestions"] = list
	} else {
		out["text"] = text
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	return string(data)
}
