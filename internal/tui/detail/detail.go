// ABOUTME: Single-article reading screen with scrollable rendered content
// ABOUTME: Owner-only edit/delete actions with inline delete confirmation

package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/quillnet/quill-cli/internal/client"
	"github.com/quillnet/quill-cli/internal/render"
	"github.com/quillnet/quill-cli/internal/tui/icons"
	"github.com/quillnet/quill-cli/internal/tui/styles"
	"github.com/quillnet/quill-cli/internal/tui/widgets"
)

// BackMsg asks the root model to return to the listing
type BackMsg struct{}

// EditMsg asks the root model to open the editor for this article
type EditMsg struct {
	ID int64
}

// DeleteMsg asks the root model to delete this article
type DeleteMsg struct {
	ID int64
}

// Detail is the article reading screen
type Detail struct {
	article   client.Article
	canModify bool
	vp        viewport.Model
	width     int
	height    int

	confirmDelete bool
}

// New creates the reading screen for an article. canModify enables the
// edit and delete actions; the backend enforces ownership regardless.
func New(article client.Article, canModify bool, width, height int) *Detail {
	d := &Detail{
		article:   article,
		canModify: canModify,
	}
	d.SetSize(width, height)
	return d
}

// SetSize updates the layout bounds and re-renders the content
func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height

	contentWidth := width - 6
	if contentWidth < 20 {
		contentWidth = 20
	}
	headerLines := strings.Count(d.renderHeader(), "\n") + 2
	vpHeight := height - headerLines
	if vpHeight < 3 {
		vpHeight = 3
	}

	d.vp = viewport.New(contentWidth, vpHeight)
	d.vp.SetContent(render.Document(d.article.Content, contentWidth))
}

// Update processes messages and returns follow-up commands
func (d *Detail) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.SetSize(msg.Width, msg.Height)
		return nil

	case tea.KeyMsg:
		if d.confirmDelete {
			if msg.String() == "y" {
				id := d.article.ID
				return func() tea.Msg { return DeleteMsg{ID: id} }
			}
			d.confirmDelete = false
			return nil
		}

		switch msg.String() {
		case "b", "esc":
			return func() tea.Msg { return BackMsg{} }
		case "q":
			return tea.Quit
		case "e":
			if d.canModify {
				id := d.article.ID
				return func() tea.Msg { return EditMsg{ID: id} }
			}
		case "d":
			if d.canModify {
				d.confirmDelete = true
			}
			return nil
		}
	}

	var cmd tea.Cmd
	d.vp, cmd = d.vp.Update(msg)
	return cmd
}

// View implements the screen rendering
func (d *Detail) View() string {
	var sb strings.Builder

	sb.WriteString(d.renderHeader())
	sb.WriteString("\n\n")
	sb.WriteString(d.vp.View())

	if d.confirmDelete {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusError.Render(
			icons.Trash.String() + " Delete this article? Press y to confirm, any other key to cancel"))
	}

	return sb.String()
}

func (d *Detail) renderHeader() string {
	a := d.article

	title := styles.Title.Render(a.Title)
	meta := styles.Subtitle.Render(fmt.Sprintf("%s %s · %s %d · %s",
		icons.User.String(), a.AuthorName, icons.Eye.String(), a.Views,
		a.CreatedAt.Format("January 2, 2006")))

	badges := widgets.CategoryBadge(a.Category)
	for _, t := range a.Tags {
		badges += " " + widgets.TagBadge(t)
	}

	lines := []string{title, meta, badges}
	if a.Summary != "" {
		lines = append(lines, styles.Subtitle.Render(a.Summary))
	}
	return strings.Join(lines, "\n")
}

// Article returns the article being shown
func (d *Detail) Article() client.Article {
	return d.article
}
