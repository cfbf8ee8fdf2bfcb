// ABOUTME: Publish command for creating or updating an article from a file
// ABOUTME: Plain text is converted to document markup, .html files pass through

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/quillnet/quill-cli/internal/client"
	"github.com/quillnet/quill-cli/internal/markup"
	"github.com/quillnet/quill-cli/internal/query"
	"github.com/spf13/cobra"
)

var (
	publishTitle    string
	publishCategory string
	publishTags     []string
	publishSummary  string
	publishFile     string
	publishUpdate   int64
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish an article from a file",
	Long: `Publish an article from a local file.

Files ending in .html or .htm are uploaded as-is; anything else is treated
as plain text where blank lines separate paragraphs.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runPublish(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringVar(&publishTitle, "title", "", "Article title (required for new articles)")
	publishCmd.Flags().StringVar(&publishCategory, "category", "Other", "Article category")
	publishCmd.Flags().StringSliceVar(&publishTags, "tags", nil, "Comma-separated tags (max 5)")
	publishCmd.Flags().StringVar(&publishSummary, "summary", "", "Short summary shown in listings")
	publishCmd.Flags().StringVar(&publishFile, "file", "", "File holding the article body (required)")
	publishCmd.Flags().Int64Var(&publishUpdate, "update", 0, "Update the article with this id instead of creating")
	publishCmd.MarkFlagRequired("file")
}

// runPublish creates or updates an article and returns an exit code
func runPublish(ctx context.Context, w io.Writer) int {
	store := newSession()
	if !store.Current().Authenticated {
		fmt.Fprintln(w, "Not signed in. Run 'quill login' first.")
		return 1
	}

	if publishUpdate == 0 && strings.TrimSpace(publishTitle) == "" {
		fmt.Fprintln(w, "Error: --title is required when creating an article")
		return 2
	}
	if !query.ValidCategory(publishCategory) {
		fmt.Fprintf(w, "Error: unknown category %q (one of: %s)\n",
			publishCategory, strings.Join(query.Categories, ", "))
		return 2
	}
	if len(publishTags) > 5 {
		fmt.Fprintln(w, "Error: at most 5 tags")
		return 2
	}

	raw, err := os.ReadFile(publishFile)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	content := publishContent(publishFile, string(raw))
	if strings.TrimSpace(markup.PlainText(content)) == "" {
		fmt.Fprintln(w, "Error: article body is empty")
		return 2
	}

	c := newClient(store)
	draft := client.ArticleDraft{
		Title:    strings.TrimSpace(publishTitle),
		Content:  content,
		Category: publishCategory,
		Tags:     publishTags,
		Summary:  strings.TrimSpace(publishSummary),
	}

	var article *client.Article
	if publishUpdate > 0 {
		if draft.Title == "" {
			existing, err := c.GetArticle(ctx, publishUpdate)
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}
			draft.Title = existing.Title
		}
		article, err = c.UpdateArticle(ctx, publishUpdate, draft)
	} else {
		article, err = c.CreateArticle(ctx, draft)
	}
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(article, "", "  ")
		fmt.Fprintln(w, string(data))
	} else if publishUpdate > 0 {
		fmt.Fprintf(w, "Updated article %d: %s\n", article.ID, article.Title)
	} else {
		fmt.Fprintf(w, "Published article %d: %s\n", article.ID, article.Title)
	}
	return 0
}

// publishContent chooses how to interpret the body file by extension
func publishContent(path, raw string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return raw
	default:
		return markup.FromPlainText(raw)
	}
}
