// ABOUTME: Article commands for listing, reading, deleting and exporting
// ABOUTME: Headless access to the same endpoints the UI uses

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/quillnet/quill-cli/internal/client"
	"github.com/quillnet/quill-cli/internal/markup"
	"github.com/quillnet/quill-cli/internal/query"
	"github.com/quillnet/quill-cli/internal/render"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	listSearch   string
	listCategory string
	listPage     int

	deleteYes bool

	exportDir string
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List, read, delete and export articles",
}

var articlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List published articles",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runArticlesList(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var articlesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Read one article",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runArticlesGet(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var articlesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your articles",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runArticlesDelete(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var articlesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your articles to files",
	Long:  `Export every article you have written to a directory, one HTML file each.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runArticlesExport(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(articlesCmd)
	articlesCmd.AddCommand(articlesListCmd)
	articlesCmd.AddCommand(articlesGetCmd)
	articlesCmd.AddCommand(articlesDeleteCmd)
	articlesCmd.AddCommand(articlesExportCmd)

	articlesListCmd.Flags().StringVar(&listSearch, "search", "", "Full-text search term")
	articlesListCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category")
	articlesListCmd.Flags().IntVar(&listPage, "page", 1, "Page number")

	articlesDeleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "Skip the confirmation prompt")

	articlesExportCmd.Flags().StringVar(&exportDir, "dir", ".", "Target directory for exported files")
}

// runArticlesList fetches one listing page and returns an exit code
func runArticlesList(ctx context.Context, w io.Writer) int {
	if listCategory != "" && !query.ValidCategory(listCategory) {
		fmt.Fprintf(w, "Error: unknown category %q (one of: %s)\n",
			listCategory, strings.Join(query.Categories, ", "))
		return 2
	}

	store := newSession()
	c := newClient(store)

	list, err := c.ListArticles(ctx, client.ListOptions{
		Search:   listSearch,
		Category: listCategory,
		Page:     listPage,
		Limit:    query.PageSize,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatListJSON(list))
	} else {
		fmt.Fprintln(w, formatListHuman(list))
	}
	return 0
}

// runArticlesGet fetches one article and returns an exit code
func runArticlesGet(ctx context.Context, w io.Writer, rawID string) int {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		fmt.Fprintf(w, "Error: invalid article id %q\n", rawID)
		return 2
	}

	store := newSession()
	c := newClient(store)

	article, err := c.GetArticle(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(article, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatArticleHuman(article))
	}
	return 0
}

// runArticlesDelete deletes one article and returns an exit code
func runArticlesDelete(ctx context.Context, w io.Writer, rawID string) int {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		fmt.Fprintf(w, "Error: invalid article id %q\n", rawID)
		return 2
	}

	if !deleteYes {
		fmt.Fprintln(w, "Refusing to delete without --yes")
		return 2
	}

	store := newSession()
	c := newClient(store)

	if err := c.DeleteArticle(ctx, id); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Deleted article %d\n", id)
	return 0
}

// runArticlesExport writes every authored article to a file and returns an
// exit code. Full article bodies are fetched concurrently.
func runArticlesExport(ctx context.Context, w io.Writer) int {
	store := newSession()
	if !store.Current().Authenticated {
		fmt.Fprintln(w, "Not signed in. Run 'quill login' first.")
		return 1
	}
	c := newClient(store)

	mine, err := c.MyArticles(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if len(mine) == 0 {
		fmt.Fprintln(w, "Nothing to export")
		return 0
	}

	if err := os.MkdirAll(exportDir, 0755); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, a := range mine {
		g.Go(func() error {
			// The listing omits nothing today, but fetching each article
			// keeps the export correct if that changes.
			full, err := c.GetArticle(gctx, a.ID)
			if err != nil {
				return fmt.Errorf("article %d: %w", a.ID, err)
			}
			path := filepath.Join(exportDir, exportFilename(full))
			return os.WriteFile(path, []byte(exportDocument(full)), 0644)
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Exported %d articles to %s\n", len(mine), exportDir)
	return 0
}

// exportFilename builds a stable, filesystem-safe name for an article
func exportFilename(a *client.Article) string {
	slug := strings.ToLower(a.Title)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "article"
	}
	return fmt.Sprintf("%d-%s.html", a.ID, slug)
}

// exportDocument renders an article as a standalone HTML fragment
func exportDocument(a *client.Article) string {
	var sb strings.Builder
	sb.WriteString("<h1>" + a.Title + "</h1>\n")
	if a.Summary != "" {
		sb.WriteString("<p><em>" + a.Summary + "</em></p>\n")
	}
	sb.WriteString(a.Content)
	sb.WriteString("\n")
	return sb.String()
}

// formatListHuman formats a listing page for human readability
func formatListHuman(list *client.ArticleList) string {
	if len(list.Articles) == 0 {
		return "No articles found."
	}

	var sb strings.Builder
	for _, a := range list.Articles {
		snippet := a.Summary
		if snippet == "" {
			snippet = markup.PlainText(a.Content)
		}
		snippet = strings.ReplaceAll(snippet, "\n", " ")
		if len([]rune(snippet)) > 80 {
			snippet = string([]rune(snippet)[:80]) + "…"
		}
		sb.WriteString(fmt.Sprintf("%-6d %-10s %s\n       %s\n",
			a.ID, a.Category, a.Title, snippet))
	}
	sb.WriteString(fmt.Sprintf("\nPage %d of %d (%d articles)",
		list.Pagination.Page, list.Pagination.TotalPages, list.Pagination.Total))
	return sb.String()
}

// formatListJSON formats a listing page as JSON
func formatListJSON(list *client.ArticleList) string {
	data, _ := json.MarshalIndent(list, "", "  ")
	return string(data)
}

// formatArticleHuman renders an article for the terminal
func formatArticleHuman(a *client.Article) string {
	var sb strings.Builder
	sb.WriteString(a.Title + "\n")
	sb.WriteString(fmt.Sprintf("by %s · %s · %d views\n", a.AuthorName, a.Category, a.Views))
	if len(a.Tags) > 0 {
		sb.WriteString("tags: " + strings.Join(a.Tags, ", ") + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(render.Document(a.Content, 80))
	return sb.String()
}
