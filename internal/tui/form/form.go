// ABOUTME: Article composing screen with a rich-text body and AI assist panel
// ABOUTME: Owns the assist orchestrator; the root model runs the network calls

package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/quillnet/quill-cli/internal/assist"
	"github.com/quillnet/quill-cli/internal/client"
	"github.com/quillnet/quill-cli/internal/editor"
	"github.com/quillnet/quill-cli/internal/markup"
	"github.com/quillnet/quill-cli/internal/query"
	"github.com/quillnet/quill-cli/internal/tui/icons"
	"github.com/quillnet/quill-cli/internal/tui/styles"
	"github.com/quillnet/quill-cli/internal/tui/widgets"
)

// SubmitMsg asks the root model to save the draft. ID is zero for a new
// article.
type SubmitMsg struct {
	ID    int64
	Draft client.ArticleDraft
}

// CancelMsg asks the root model to leave the editor without saving
type CancelMsg struct{}

// AssistRequestMsg asks the root model to run an AI assist call. Seq must
// be handed back unchanged in the AssistResolvedMsg.
type AssistRequestMsg struct {
	Kind    assist.Kind
	Seq     uint64
	Content string
	Title   string
	Mode    assist.Mode
}

// AssistResolvedMsg carries the outcome of an assist network call
type AssistResolvedMsg struct {
	Kind   assist.Kind
	Seq    uint64
	Result assist.Result
	Err    error
}

type focusArea int

const (
	focusTitle focusArea = iota
	focusCategory
	focusTags
	focusBody
	focusAssist
)

const maxTags = 5

var assistKinds = []assist.Kind{
	assist.KindImprove,
	assist.KindSummary,
	assist.KindTitles,
	assist.KindTags,
}

var assistLabels = map[assist.Kind]string{
	assist.KindImprove: "Improve writing",
	assist.KindSummary: "Generate summary",
	assist.KindTitles:  "Suggest titles",
	assist.KindTags:    "Suggest tags",
}

// Form is the article composing screen
type Form struct {
	id      int64
	title   textinput.Model
	catIdx  int
	tags    []string
	tagIn   textinput.Model
	body    *editor.Editor
	summary string

	orch      *assist.Orchestrator
	mode      assist.Mode
	assistIdx int

	linking bool
	linkIn  textinput.Model

	focus  focusArea
	width  int
	height int
	errMsg string
	spin   spinner.Model
}

// New creates the composing screen for a new article
func New(width, height int) *Form {
	f := build(width, height)
	f.body.SetContent(markup.EmptyDocument)
	return f
}

// NewEdit creates the composing screen prefilled from an existing article
func NewEdit(a client.Article, width, height int) *Form {
	f := build(width, height)
	f.id = a.ID
	f.title.SetValue(a.Title)
	f.tags = append([]string(nil), a.Tags...)
	f.summary = a.Summary
	for i, c := range query.Categories {
		if c == a.Category {
			f.catIdx = i
		}
	}
	f.body.SetContent(a.Content)
	return f
}

func build(width, height int) *Form {
	title := textinput.New()
	title.Placeholder = "Article title"
	title.CharLimit = 150
	title.Width = 60

	tagIn := textinput.New()
	tagIn.Placeholder = "Add a tag, Enter to confirm"
	tagIn.CharLimit = 30
	tagIn.Width = 30

	linkIn := textinput.New()
	linkIn.Placeholder = "https:// (empty removes the link)"
	linkIn.CharLimit = 200
	linkIn.Width = 50

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	f := &Form{
		title:  title,
		tagIn:  tagIn,
		linkIn: linkIn,
		body:   editor.New(),
		orch:   assist.New(),
		mode:   assist.ModeClarity,
		spin:   spin,
		width:  width,
		height: height,
	}
	f.body.Mount(f.bodyWidth()-4, f.bodyHeight())
	return f
}

// Init implements the screen setup
func (f *Form) Init() tea.Cmd {
	return f.title.Focus()
}

// SetSize updates the layout bounds
func (f *Form) SetSize(width, height int) {
	f.width = width
	f.height = height
	f.body.SetSize(f.bodyWidth()-4, f.bodyHeight())
}

func (f *Form) bodyWidth() int {
	w := f.width * 2 / 3
	if w < 40 {
		w = 40
	}
	return w
}

func (f *Form) assistWidth() int {
	w := f.width - f.bodyWidth() - 4
	if w < 24 {
		w = 24
	}
	return w
}

func (f *Form) bodyHeight() int {
	h := f.height - 12
	if h < 5 {
		h = 5
	}
	return h
}

// Update processes messages and returns follow-up commands
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.SetSize(msg.Width, msg.Height)
		return nil

	case spinner.TickMsg:
		if !f.orch.Busy() {
			return nil
		}
		var cmd tea.Cmd
		f.spin, cmd = f.spin.Update(msg)
		return cmd

	case AssistResolvedMsg:
		// Stale responses are discarded by the orchestrator
		f.orch.Resolve(msg.Kind, msg.Seq, msg.Result, msg.Err)
		return nil

	case tea.KeyMsg:
		return f.updateKey(msg)
	}

	if f.focus == focusBody {
		return f.body.Update(msg)
	}
	return nil
}

func (f *Form) updateKey(msg tea.KeyMsg) tea.Cmd {
	if f.linking {
		return f.updateLinkPrompt(msg)
	}

	switch msg.String() {
	case "esc":
		return func() tea.Msg { return CancelMsg{} }
	case "ctrl+s":
		return f.submit()
	case "tab":
		f.cycleFocus(1)
		return f.focusCmd()
	case "shift+tab":
		f.cycleFocus(-1)
		return f.focusCmd()
	}

	switch f.focus {
	case focusTitle:
		var cmd tea.Cmd
		f.title, cmd = f.title.Update(msg)
		return cmd
	case focusCategory:
		switch msg.String() {
		case "left", "h", "up", "k":
			f.catIdx = (f.catIdx + len(query.Categories) - 1) % len(query.Categories)
		case "right", "l", "down", "j":
			f.catIdx = (f.catIdx + 1) % len(query.Categories)
		}
		return nil
	case focusTags:
		return f.updateTags(msg)
	case focusBody:
		return f.updateBody(msg)
	case focusAssist:
		return f.updateAssist(msg)
	}
	return nil
}

func (f *Form) cycleFocus(dir int) {
	f.blurAll()
	f.focus = focusArea((int(f.focus) + dir + 5) % 5)
}

func (f *Form) blurAll() {
	f.title.Blur()
	f.tagIn.Blur()
	f.body.Blur()
}

func (f *Form) focusCmd() tea.Cmd {
	switch f.focus {
	case focusTitle:
		return f.title.Focus()
	case focusTags:
		return f.tagIn.Focus()
	case focusBody:
		return f.body.Focus()
	}
	return nil
}

func (f *Form) updateTags(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		tag := strings.TrimSpace(f.tagIn.Value())
		if tag != "" && len(f.tags) < maxTags {
			f.tags = assist.AddTag(f.tags, tag)
			f.tagIn.SetValue("")
		}
		return nil
	case "backspace":
		if f.tagIn.Value() == "" && len(f.tags) > 0 {
			f.tags = f.tags[:len(f.tags)-1]
			return nil
		}
	}

	var cmd tea.Cmd
	f.tagIn, cmd = f.tagIn.Update(msg)
	return cmd
}

func (f *Form) updateBody(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+b":
		f.body.Apply(editor.CmdBold)
	case "ctrl+i":
		f.body.Apply(editor.CmdItalic)
	case "ctrl+u":
		f.body.Apply(editor.CmdUnderline)
	case "alt+s":
		f.body.Apply(editor.CmdStrike)
	case "alt+m":
		f.body.Apply(editor.CmdHighlight)
	case "alt+c":
		f.body.Apply(editor.CmdCode)
	case "alt+1":
		f.body.Apply(editor.CmdHeading1)
	case "alt+2":
		f.body.Apply(editor.CmdHeading2)
	case "alt+3":
		f.body.Apply(editor.CmdHeading3)
	case "alt+q":
		f.body.Apply(editor.CmdBlockquote)
	case "alt+l":
		f.body.Apply(editor.CmdBulletList)
	case "alt+o":
		f.body.Apply(editor.CmdOrderedList)
	case "alt+e":
		f.body.Apply(editor.CmdCodeBlock)
	case "alt+r":
		f.body.Apply(editor.CmdHorizontalRule)
	case "ctrl+k":
		f.linking = true
		f.linkIn.SetValue("")
		return f.linkIn.Focus()
	case "ctrl+z":
		f.body.Apply(editor.CmdUndo)
	case "ctrl+y":
		f.body.Apply(editor.CmdRedo)
	default:
		return f.body.Update(msg)
	}
	return nil
}

func (f *Form) updateLinkPrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		f.linking = false
		f.linkIn.Blur()
		f.body.Apply(editor.CmdLink, strings.TrimSpace(f.linkIn.Value()))
		return nil
	case "esc":
		f.linking = false
		f.linkIn.Blur()
		return nil
	}

	var cmd tea.Cmd
	f.linkIn, cmd = f.linkIn.Update(msg)
	return cmd
}

func (f *Form) updateAssist(msg tea.KeyMsg) tea.Cmd {
	kind := assistKinds[f.assistIdx]
	state := f.orch.State(kind)

	switch msg.String() {
	case "up", "k":
		if f.assistIdx > 0 {
			f.assistIdx--
		}
		return nil
	case "down", "j":
		if f.assistIdx < len(assistKinds)-1 {
			f.assistIdx++
		}
		return nil
	case "m":
		f.mode = nextMode(f.mode)
		return nil
	case "enter":
		return f.requestAssist(kind)
	case "x":
		f.orch.Dismiss(kind)
		return nil
	case "a":
		return f.applyAssist(kind, state)
	}

	// Number keys pick from suggestion lists
	if state.Phase == assist.Succeeded && len(msg.String()) == 1 {
		n := int(msg.String()[0] - '0')
		switch kind {
		case assist.KindTitles:
			if n >= 1 && n <= len(state.Result.Titles) {
				f.title.SetValue(state.Result.Titles[n-1])
				f.orch.Dismiss(kind)
			}
		case assist.KindTags:
			if n >= 1 && n <= len(state.Result.Tags) && len(f.tags) < maxTags {
				f.tags = assist.AddTag(f.tags, state.Result.Tags[n-1])
			}
		}
	}
	return nil
}

func (f *Form) requestAssist(kind assist.Kind) tea.Cmd {
	plain, seq, err := f.orch.Begin(kind, f.body.Content())
	if err != nil {
		f.errMsg = err.Error()
		return nil
	}
	f.errMsg = ""
	req := AssistRequestMsg{
		Kind:    kind,
		Seq:     seq,
		Content: plain,
		Title:   strings.TrimSpace(f.title.Value()),
		Mode:    f.mode,
	}
	return tea.Batch(
		func() tea.Msg { return req },
		f.spin.Tick,
	)
}

func (f *Form) applyAssist(kind assist.Kind, state assist.State) tea.Cmd {
	if state.Phase != assist.Succeeded {
		return nil
	}
	switch kind {
	case assist.KindImprove:
		f.body.SetContent(assist.ApplyImprove(state.Result.Text))
	case assist.KindSummary:
		f.summary = state.Result.Text
	case assist.KindTags:
		f.tags = assist.ReplaceTags(state.Result.Tags)
	}
	f.orch.Dismiss(kind)
	return nil
}

func nextMode(m assist.Mode) assist.Mode {
	switch m {
	case assist.ModeClarity:
		return assist.ModeGrammar
	case assist.ModeGrammar:
		return assist.ModeConcise
	default:
		return assist.ModeClarity
	}
}

func (f *Form) submit() tea.Cmd {
	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		f.errMsg = "please add a title"
		return nil
	}
	content := f.body.Content()
	if err := assist.ValidateDraftContent(content); err != nil {
		f.errMsg = err.Error()
		return nil
	}

	f.errMsg = ""
	msg := SubmitMsg{
		ID: f.id,
		Draft: client.ArticleDraft{
			Title:    title,
			Content:  content,
			Category: query.Categories[f.catIdx],
			Tags:     append([]string(nil), f.tags...),
			Summary:  f.summary,
		},
	}
	return func() tea.Msg { return msg }
}

// View implements the screen rendering
func (f *Form) View() string {
	var sb strings.Builder

	heading := "New article"
	if f.id != 0 {
		heading = "Edit article"
	}
	sb.WriteString(styles.Title.Render(icons.Pencil.String() + " " + heading))
	sb.WriteString("\n")

	sb.WriteString(f.fieldLabel("Title", focusTitle) + " " + f.title.View())
	sb.WriteString("\n")
	sb.WriteString(f.fieldLabel("Category", focusCategory) + " " + f.renderCategory())
	sb.WriteString("\n")
	sb.WriteString(f.fieldLabel("Tags", focusTags) + " " + f.renderTags())
	sb.WriteString("\n")
	if f.summary != "" {
		sb.WriteString(styles.Subtitle.Render("Summary: " + f.summary))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	bodyPanel := styles.Panel
	if f.focus == focusBody {
		bodyPanel = styles.ActivePanel
	}
	left := bodyPanel.Width(f.bodyWidth()).Render(f.body.View())

	assistPanel := styles.Panel
	if f.focus == focusAssist {
		assistPanel = styles.ActivePanel
	}
	right := assistPanel.Width(f.assistWidth()).Render(f.renderAssist())

	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))

	if f.linking {
		sb.WriteString("\n")
		sb.WriteString("Link target: " + f.linkIn.View())
	}
	if f.errMsg != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusError.Render(f.errMsg))
	}

	return sb.String()
}

func (f *Form) fieldLabel(name string, area focusArea) string {
	if f.focus == area {
		return styles.KeyStyle.Render(name + ":")
	}
	return styles.Subtitle.Render(name + ":")
}

func (f *Form) renderCategory() string {
	cat := query.Categories[f.catIdx]
	hint := ""
	if f.focus == focusCategory {
		hint = styles.Help.Render("  ←/→ to change")
	}
	return widgets.CategoryBadge(cat) + hint
}

func (f *Form) renderTags() string {
	if len(f.tags) == 0 && f.focus != focusTags {
		return styles.Subtitle.Render("none")
	}
	var parts []string
	for _, t := range f.tags {
		parts = append(parts, widgets.TagBadge(t))
	}
	out := strings.Join(parts, " ")
	if f.focus == focusTags {
		if out != "" {
			out += " "
		}
		out += f.tagIn.View()
	}
	return out
}

func (f *Form) renderAssist() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Spark.String() + " AI assists"))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render("mode: " + string(f.mode) + " (m to change)"))
	sb.WriteString("\n\n")

	for i, kind := range assistKinds {
		cursor := "  "
		if f.focus == focusAssist && i == f.assistIdx {
			cursor = styles.KeyStyle.Render("> ")
		}
		sb.WriteString(cursor + assistLabels[kind] + f.renderAssistStatus(kind))
		sb.WriteString("\n")
	}

	kind := assistKinds[f.assistIdx]
	state := f.orch.State(kind)
	if state.Phase == assist.Succeeded {
		sb.WriteString("\n")
		sb.WriteString(f.renderAssistResult(kind, state.Result))
	}

	return sb.String()
}

func (f *Form) renderAssistStatus(kind assist.Kind) string {
	switch state := f.orch.State(kind); state.Phase {
	case assist.Pending:
		return " " + f.spin.View()
	case assist.Succeeded:
		return " " + widgets.StatusIcon(widgets.StatusOK)
	case assist.Failed:
		return " " + widgets.StatusIcon(widgets.StatusError) + " " + styles.StatusError.Render(state.Err.Error())
	}
	return ""
}

func (f *Form) renderAssistResult(kind assist.Kind, res assist.Result) string {
	width := f.assistWidth() - 6
	if width < 16 {
		width = 16
	}
	wrap := lipgloss.NewStyle().Width(width)

	switch kind {
	case assist.KindImprove:
		return wrap.Render(res.Text) + "\n" + styles.Help.Render("a apply · x dismiss")
	case assist.KindSummary:
		return wrap.Render(res.Text) + "\n" + styles.Help.Render("a use as summary · x dismiss")
	case assist.KindTitles:
		var lines []string
		for i, t := range res.Titles {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, t))
		}
		return wrap.Render(strings.Join(lines, "\n")) + "\n" + styles.Help.Render("1-9 use title · x dismiss")
	case assist.KindTags:
		var lines []string
		for i, t := range res.Tags {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, t))
		}
		return wrap.Render(strings.Join(lines, "\n")) + "\n" + styles.Help.Render("1-9 add · a replace all · x dismiss")
	}
	return ""
}

// Editing reports whether the form edits an existing article
func (f *Form) Editing() bool {
	return f.id != 0
}
