// ABOUTME: Per-user dashboard showing authored articles and view stats
// ABOUTME: Table-driven list with open, edit, delete and compose actions

package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/quillnet/quill-cli/internal/client"
	"github.com/quillnet/quill-cli/internal/tui/icons"
	"github.com/quillnet/quill-cli/internal/tui/styles"
	"github.com/quillnet/quill-cli/internal/tui/widgets"
)

// BackMsg asks the root model to return to the listing
type BackMsg struct{}

// OpenMsg asks the root model to open an article for reading
type OpenMsg struct {
	ID int64
}

// EditMsg asks the root model to open the editor for an article
type EditMsg struct {
	ID int64
}

// DeleteMsg asks the root model to delete an article
type DeleteMsg struct {
	ID int64
}

// ComposeMsg asks the root model to open the editor for a new article
type ComposeMsg struct{}

// RefreshMsg asks the root model to reload the user's articles
type RefreshMsg struct{}

// Dashboard is the authored-articles management screen
type Dashboard struct {
	user     client.User
	articles []client.Article
	tbl      table.Model
	width    int
	height   int

	confirmDelete bool
}

// New creates the dashboard for the signed-in user
func New(user client.User, width, height int) *Dashboard {
	d := &Dashboard{
		user:   user,
		width:  width,
		height: height,
	}
	d.tbl = d.buildTable(nil)
	return d
}

func (d *Dashboard) buildTable(articles []client.Article) table.Model {
	titleWidth := d.width - 46
	if titleWidth < 20 {
		titleWidth = 20
	}

	columns := []table.Column{
		{Title: "Title", Width: titleWidth},
		{Title: "Category", Width: 10},
		{Title: "Views", Width: 7},
		{Title: "Updated", Width: 12},
	}

	rows := make([]table.Row, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, table.Row{
			a.Title,
			a.Category,
			strconv.Itoa(a.Views),
			a.UpdatedAt.Format("Jan 2, 2006"),
		})
	}

	tableHeight := d.height - 8
	if tableHeight < 3 {
		tableHeight = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(tableHeight),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.Primary).
		Bold(true)
	t.SetStyles(s)

	return t
}

// SetSize updates the layout bounds
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
	cursor := d.tbl.Cursor()
	d.tbl = d.buildTable(d.articles)
	d.tbl.SetCursor(cursor)
}

// SetArticles installs a freshly loaded article set
func (d *Dashboard) SetArticles(articles []client.Article) {
	d.articles = articles
	d.tbl = d.buildTable(articles)
	d.confirmDelete = false
}

func (d *Dashboard) selected() (client.Article, bool) {
	i := d.tbl.Cursor()
	if i < 0 || i >= len(d.articles) {
		return client.Article{}, false
	}
	return d.articles[i], true
}

// Update processes messages and returns follow-up commands
func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.SetSize(msg.Width, msg.Height)
		return nil

	case tea.KeyMsg:
		if d.confirmDelete {
			if msg.String() == "y" {
				if a, ok := d.selected(); ok {
					d.confirmDelete = false
					return func() tea.Msg { return DeleteMsg{ID: a.ID} }
				}
			}
			d.confirmDelete = false
			return nil
		}

		switch msg.String() {
		case "b", "esc":
			return func() tea.Msg { return BackMsg{} }
		case "q":
			return tea.Quit
		case "enter":
			if a, ok := d.selected(); ok {
				return func() tea.Msg { return OpenMsg{ID: a.ID} }
			}
		case "e":
			if a, ok := d.selected(); ok {
				return func() tea.Msg { return EditMsg{ID: a.ID} }
			}
		case "d":
			if _, ok := d.selected(); ok {
				d.confirmDelete = true
			}
			return nil
		case "w":
			return func() tea.Msg { return ComposeMsg{} }
		case "r":
			return func() tea.Msg { return RefreshMsg{} }
		}
	}

	var cmd tea.Cmd
	d.tbl, cmd = d.tbl.Update(msg)
	return cmd
}

// View implements the screen rendering
func (d *Dashboard) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Article.String() + " " + d.user.Username + "'s articles"))
	sb.WriteString("\n\n")
	sb.WriteString(d.renderStats())
	sb.WriteString("\n\n")

	if len(d.articles) == 0 {
		sb.WriteString(styles.Subtitle.Render("You haven't written anything yet. Press w to start."))
	} else {
		sb.WriteString(d.tbl.View())
	}

	if d.confirmDelete {
		if a, ok := d.selected(); ok {
			sb.WriteString("\n")
			sb.WriteString(styles.StatusError.Render(fmt.Sprintf(
				"%s Delete %q? Press y to confirm, any other key to cancel",
				icons.Trash.String(), a.Title)))
		}
	}

	return sb.String()
}

func (d *Dashboard) renderStats() string {
	totalViews := 0
	categories := make(map[string]struct{})
	// MyArticles returns newest first; reverse so the sparkline reads
	// oldest to newest.
	series := make([]float64, len(d.articles))
	for i, a := range d.articles {
		totalViews += a.Views
		categories[a.Category] = struct{}{}
		series[len(d.articles)-1-i] = float64(a.Views)
	}

	articlesBlock := widgets.StatBlock(icons.Article, "Articles",
		strconv.Itoa(len(d.articles)), "published")
	viewsBlock := widgets.StatBlockWithSparkline(icons.Eye, "Views",
		strconv.Itoa(totalViews), series, "across articles")
	categoriesBlock := widgets.StatBlock(icons.Tag, "Categories",
		strconv.Itoa(len(categories)), "written in")

	return lipgloss.JoinHorizontal(lipgloss.Top,
		articlesBlock, " ", viewsBlock, " ", categoriesBlock)
}
