// ABOUTME: Article browsing screen with search, category tabs and pagination
// ABOUTME: Emits query messages; the root model owns all network calls

package home

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/quillnet/quill-cli/internal/client"
	"github.com/quillnet/quill-cli/internal/markup"
	"github.com/quillnet/quill-cli/internal/query"
	"github.com/quillnet/quill-cli/internal/tui/icons"
	"github.com/quillnet/quill-cli/internal/tui/styles"
	"github.com/quillnet/quill-cli/internal/tui/widgets"
)

// OpenMsg asks the root model to open an article
type OpenMsg struct {
	ID int64
}

// QueryMsg asks the root model to reload the listing with a new query
type QueryMsg struct {
	Query query.ListQuery
}

// ComposeMsg asks the root model to open the editor for a new article
type ComposeMsg struct{}

// DashboardMsg asks the root model to open the user's dashboard
type DashboardMsg struct{}

// AccountMsg asks the root model to open the sign-in screen, or to sign
// out when already authenticated
type AccountMsg struct{}

const summarySnippetLen = 120

// Tabs shown above the listing: All plus each category.
var tabs = append([]string{query.All}, query.Categories...)

// Home is the article browsing screen
type Home struct {
	width  int
	height int

	search    textinput.Model
	searching bool
	tabIdx    int
	cursor    int

	articles   []client.Article
	pagination client.Pagination
	q          query.ListQuery
	pager      paginator.Model

	// Encoded-query history for back/forward navigation
	history    []string
	histPos    int
	navigating bool

	loading bool
	spin    spinner.Model
	err     error
}

// New creates the browsing screen
func New(width, height int) *Home {
	search := textinput.New()
	search.Placeholder = "Search articles..."
	search.CharLimit = 100
	search.Width = 40

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.ActiveDot = lipgloss.NewStyle().Foreground(styles.Primary).Render("●")
	pager.InactiveDot = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")

	return &Home{
		width:  width,
		height: height,
		search: search,
		spin:   spin,
		pager:  pager,
	}
}

// SetSize updates the layout bounds
func (h *Home) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Query returns the query the current listing was loaded with
func (h *Home) Query() query.ListQuery {
	return h.q
}

// StartLoading switches to the loading state and starts the spinner
func (h *Home) StartLoading() tea.Cmd {
	h.loading = true
	h.err = nil
	return h.spin.Tick
}

// SetList installs a freshly loaded page
func (h *Home) SetList(list *client.ArticleList, q query.ListQuery) {
	h.loading = false
	h.err = nil
	h.articles = list.Articles
	h.pagination = list.Pagination
	h.q = q
	h.cursor = 0

	if list.Pagination.TotalPages > 0 {
		h.pager.SetTotalPages(list.Pagination.TotalPages)
		h.pager.Page = list.Pagination.Page - 1
	}
	h.recordHistory(q)

	// Keep the tab highlight in sync with the query
	h.tabIdx = 0
	for i, t := range tabs {
		if t == q.Category {
			h.tabIdx = i
		}
	}
	if q.Category == "" {
		h.tabIdx = 0
	}
}

// SetError shows a load failure in place of the listing
func (h *Home) SetError(err error) {
	h.loading = false
	h.navigating = false
	h.err = err
}

// recordHistory appends the query to the back/forward stack. Arriving via
// the stack itself does not push; a new query truncates the forward tail.
func (h *Home) recordHistory(q query.ListQuery) {
	if h.navigating {
		h.navigating = false
		return
	}
	enc := q.Encode()
	if len(h.history) > 0 {
		if h.history[h.histPos] == enc {
			return
		}
		h.history = h.history[:h.histPos+1]
	}
	h.history = append(h.history, enc)
	h.histPos = len(h.history) - 1
}

// Update processes messages and returns follow-up commands
func (h *Home) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.SetSize(msg.Width, msg.Height)
		return nil

	case spinner.TickMsg:
		if !h.loading {
			return nil
		}
		var cmd tea.Cmd
		h.spin, cmd = h.spin.Update(msg)
		return cmd

	case tea.KeyMsg:
		if h.searching {
			return h.updateSearch(msg)
		}
		return h.updateBrowse(msg)
	}
	return nil
}

func (h *Home) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		h.searching = false
		h.search.Blur()
		return queryCmd(h.q.WithSearch(h.search.Value()))
	case "esc":
		h.searching = false
		h.search.Blur()
		h.search.SetValue(h.q.Search)
		return nil
	}

	var cmd tea.Cmd
	h.search, cmd = h.search.Update(msg)
	return cmd
}

func (h *Home) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "/":
		h.searching = true
		return h.search.Focus()
	case "up", "k":
		if h.cursor > 0 {
			h.cursor--
		}
	case "down", "j":
		if h.cursor < len(h.articles)-1 {
			h.cursor++
		}
	case "enter":
		if h.cursor < len(h.articles) {
			id := h.articles[h.cursor].ID
			return func() tea.Msg { return OpenMsg{ID: id} }
		}
	case "tab", "c":
		h.tabIdx = (h.tabIdx + 1) % len(tabs)
		return queryCmd(h.q.WithCategory(tabs[h.tabIdx]))
	case "shift+tab", "C":
		h.tabIdx = (h.tabIdx + len(tabs) - 1) % len(tabs)
		return queryCmd(h.q.WithCategory(tabs[h.tabIdx]))
	case "right", "n":
		if h.q.PageOrDefault() < h.pagination.TotalPages {
			return queryCmd(h.q.WithPage(h.q.PageOrDefault() + 1))
		}
	case "left", "p":
		if h.q.PageOrDefault() > 1 {
			return queryCmd(h.q.WithPage(h.q.PageOrDefault() - 1))
		}
	case "r":
		return queryCmd(h.q)
	case "[":
		if h.histPos > 0 {
			h.histPos--
			h.navigating = true
			return queryCmd(query.ParseEncoded(h.history[h.histPos]))
		}
	case "]":
		if h.histPos < len(h.history)-1 {
			h.histPos++
			h.navigating = true
			return queryCmd(query.ParseEncoded(h.history[h.histPos]))
		}
	case "w":
		return func() tea.Msg { return ComposeMsg{} }
	case "d":
		return func() tea.Msg { return DashboardMsg{} }
	case "a":
		return func() tea.Msg { return AccountMsg{} }
	}
	return nil
}

func queryCmd(q query.ListQuery) tea.Cmd {
	return func() tea.Msg { return QueryMsg{Query: q} }
}

// View implements the screen rendering
func (h *Home) View() string {
	var sb strings.Builder

	sb.WriteString(h.renderSearch())
	sb.WriteString("\n")
	sb.WriteString(h.renderTabs())
	sb.WriteString("\n\n")

	switch {
	case h.err != nil:
		sb.WriteString(styles.StatusError.Render("Error: " + h.err.Error()))
	case h.loading:
		sb.WriteString(h.spin.View() + " Loading articles...")
	case len(h.articles) == 0:
		sb.WriteString(styles.Subtitle.Render("No articles found."))
	default:
		sb.WriteString(h.renderResultCount())
		sb.WriteString("\n\n")
		sb.WriteString(h.renderList())
		sb.WriteString("\n")
		sb.WriteString(h.renderPagination())
	}

	return sb.String()
}

func (h *Home) renderSearch() string {
	prompt := icons.Search.String() + " "
	if h.searching {
		return prompt + h.search.View()
	}
	if h.q.Search != "" {
		return prompt + h.q.Search + styles.Help.Render("  (/ to edit)")
	}
	return prompt + styles.Subtitle.Render("Press / to search")
}

func (h *Home) renderTabs() string {
	var parts []string
	for i, t := range tabs {
		if i == h.tabIdx {
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(styles.CategoryColor(t)).
				Padding(0, 1).
				Bold(true)
			if t == query.All {
				style = style.Background(styles.Primary)
			}
			parts = append(parts, style.Render(t))
		} else {
			parts = append(parts, lipgloss.NewStyle().
				Foreground(styles.Muted).
				Padding(0, 1).
				Render(t))
		}
	}
	return strings.Join(parts, " ")
}

func (h *Home) renderList() string {
	var cards []string
	for i, a := range h.articles {
		cards = append(cards, h.renderCard(a, i == h.cursor))
	}
	return strings.Join(cards, "\n")
}

func (h *Home) renderCard(a client.Article, selected bool) string {
	width := h.width - 8
	if width < 40 {
		width = 40
	}

	title := styles.ValueStyle.Render(a.Title)
	meta := styles.Subtitle.Render(fmt.Sprintf("%s · %s %d · %s",
		a.AuthorName, icons.Eye.String(), a.Views, a.CreatedAt.Format("Jan 2, 2006")))

	snippet := a.Summary
	if snippet == "" {
		snippet = markup.PlainText(a.Content)
	}
	snippet = strings.ReplaceAll(snippet, "\n", " ")
	if len([]rune(snippet)) > summarySnippetLen {
		snippet = string([]rune(snippet)[:summarySnippetLen]) + "…"
	}

	badges := widgets.CategoryBadge(a.Category)
	for _, t := range a.Tags {
		badges += " " + widgets.TagBadge(t)
	}

	body := title + "\n" + meta + "\n" + snippet + "\n" + badges

	panel := styles.Panel
	if selected {
		panel = styles.ActivePanel
	}
	return panel.Width(width).Render(body)
}

func (h *Home) renderResultCount() string {
	label := fmt.Sprintf("%d results", h.pagination.Total)
	if h.pagination.Total == 1 {
		label = "1 result"
	}
	if h.q.Search != "" {
		label += fmt.Sprintf(" for %q", h.q.Search)
	}
	if h.q.Category != "" {
		label += " in " + h.q.Category
	}
	return styles.Subtitle.Render(label)
}

func (h *Home) renderPagination() string {
	if h.pagination.TotalPages <= 1 {
		return ""
	}
	return h.pager.View() + "  " + styles.Subtitle.Render(fmt.Sprintf(
		"Page %d of %d  ←/→ to flip", h.pagination.Page, h.pagination.TotalPages))
}

// Searching reports whether the search input currently has focus
func (h *Home) Searching() bool {
	return h.searching
}
