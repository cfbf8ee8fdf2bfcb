// ABOUTME: Document editor adapter over the bubbles textarea surface
// ABOUTME: Exposes markup content, change notification, and format commands

package editor

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/quillnet/quill-cli/internal/markup"
)

const maxHistory = 100

// Editor adapts the textarea editing surface to a rich-text document. The
// surface edits source lines; block structure and inline marks live in the
// markup each line carries. Commands issued before Mount are no-ops.
type Editor struct {
	area     textarea.Model
	mounted  bool
	onChange func(string)
	lastDoc  string
	undo     []string
	redo     []string
}

// New creates an unmounted editor.
func New() *Editor {
	ta := textarea.New()
	ta.Placeholder = "Start writing your article..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	return &Editor{area: ta}
}

// Mount attaches the surface with its dimensions. Until this is called
// every command is silently ignored.
func (e *Editor) Mount(width, height int) {
	e.area.SetWidth(width)
	e.area.SetHeight(height)
	e.mounted = true
}

// Mounted reports whether the surface is ready.
func (e *Editor) Mounted() bool {
	return e.mounted
}

// SetSize resizes the mounted surface.
func (e *Editor) SetSize(width, height int) {
	e.area.SetWidth(width)
	e.area.SetHeight(height)
}

// OnChange registers the change listener, fired with the serialized markup
// on every edit.
func (e *Editor) OnChange(fn func(markup string)) {
	e.onChange = fn
}

// Focus gives the surface keyboard focus.
func (e *Editor) Focus() tea.Cmd {
	if !e.mounted {
		return nil
	}
	return e.area.Focus()
}

// Blur removes keyboard focus.
func (e *Editor) Blur() {
	e.area.Blur()
}

// Focused reports whether the surface has keyboard focus.
func (e *Editor) Focused() bool {
	return e.area.Focused()
}

// Update forwards terminal input to the surface and fires the change
// listener when the document changed.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	if !e.mounted {
		return nil
	}
	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	e.notifyIfChanged()
	return cmd
}

// View renders the surface.
func (e *Editor) View() string {
	return e.area.View()
}

// Content serializes the document to markup. Runs of bare lines become a
// paragraph with in-paragraph breaks; adjacent list items of the same type
// merge into one list.
func (e *Editor) Content() string {
	return linesToMarkup(strings.Split(e.area.Value(), "\n"))
}

// SetContent replaces the document from markup.
func (e *Editor) SetContent(m string) {
	e.area.SetValue(strings.Join(markupToLines(m), "\n"))
	e.lastDoc = e.Content()
}

// PlainText returns the document stripped of all markup.
func (e *Editor) PlainText() string {
	return markup.PlainText(e.Content())
}

// Apply executes a formatting command against the current block. Commands
// are toggles where the mark supports it; all are no-ops before Mount.
// CmdLink takes the URL as its argument: an empty string clears an
// existing link.
func (e *Editor) Apply(cmd Command, args ...string) {
	if !e.mounted {
		return
	}

	switch cmd {
	case CmdUndo:
		e.undoStep()
		return
	case CmdRedo:
		e.redoStep()
		return
	}

	e.snapshot()

	switch cmd {
	case CmdBold, CmdItalic, CmdUnderline, CmdStrike, CmdHighlight, CmdCode:
		e.rewriteCurrentLine(func(line string) string {
			return toggleInline(line, inlineTag[cmd])
		})
	case CmdHeading1, CmdHeading2, CmdHeading3, CmdBlockquote:
		e.rewriteCurrentLine(func(line string) string {
			return toggleBlockWrap(line, blockTag[cmd])
		})
	case CmdBulletList:
		e.rewriteCurrentLine(func(line string) string {
			return toggleListItem(line, "ul")
		})
	case CmdOrderedList:
		e.rewriteCurrentLine(func(line string) string {
			return toggleListItem(line, "ol")
		})
	case CmdCodeBlock:
		e.rewriteCurrentLine(toggleCodeBlock)
	case CmdLink:
		url := ""
		if len(args) > 0 {
			url = strings.TrimSpace(args[0])
		}
		e.rewriteCurrentLine(func(line string) string {
			return setLink(line, url)
		})
	case CmdHorizontalRule:
		e.area.InsertString("\n<hr/>\n")
	}

	e.notifyIfChanged()
}

// rewriteCurrentLine applies fn to the line the cursor is on.
func (e *Editor) rewriteCurrentLine(fn func(string) string) {
	lines := strings.Split(e.area.Value(), "\n")
	row := e.area.Line()
	if row < 0 || row >= len(lines) {
		return
	}
	updated := fn(lines[row])
	if updated == lines[row] {
		return
	}
	lines[row] = updated
	e.setValuePreservingRow(strings.Join(lines, "\n"), row)
}

// setValuePreservingRow replaces the document and walks the cursor back to
// row; SetValue always leaves the cursor at the end of the document.
func (e *Editor) setValuePreservingRow(value string, row int) {
	e.area.SetValue(value)
	for e.area.Line() > row {
		e.area.CursorUp()
	}
	e.area.CursorEnd()
}

func (e *Editor) snapshot() {
	e.undo = append(e.undo, e.area.Value())
	if len(e.undo) > maxHistory {
		e.undo = e.undo[1:]
	}
	e.redo = nil
}

func (e *Editor) undoStep() {
	if len(e.undo) == 0 {
		return
	}
	last := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.redo = append(e.redo, e.area.Value())
	e.area.SetValue(last)
	e.notifyIfChanged()
}

func (e *Editor) redoStep() {
	if len(e.redo) == 0 {
		return
	}
	last := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.undo = append(e.undo, e.area.Value())
	e.area.SetValue(last)
	e.notifyIfChanged()
}

func (e *Editor) notifyIfChanged() {
	doc := e.Content()
	if doc == e.lastDoc {
		return
	}
	e.lastDoc = doc
	if e.onChange != nil {
		e.onChange(doc)
	}
}

// knownBlockPrefix reports whether a source line already carries its own
// block wrapper and should be emitted verbatim.
func knownBlockPrefix(line string) bool {
	return blockRe.MatchString(line) ||
		listRe.MatchString(line) ||
		preRe.MatchString(line) ||
		line == "<hr/>"
}

// linesToMarkup serializes source lines: runs of bare lines form a
// paragraph joined by <br/>, wrapped blocks pass through, and adjacent
// list items of the same type merge.
func linesToMarkup(lines []string) string {
	var blocks []string
	var para []string

	flush := func() {
		if len(para) > 0 {
			blocks = append(blocks, "<p>"+strings.Join(para, "<br/>")+"</p>")
			para = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "" {
			flush()
			continue
		}
		if knownBlockPrefix(trimmed) {
			flush()
			blocks = append(blocks, trimmed)
			continue
		}
		para = append(para, trimmed)
	}
	flush()

	if len(blocks) == 0 {
		return markup.EmptyDocument
	}

	out := strings.Join(blocks, "")
	out = strings.ReplaceAll(out, "</ul><ul>", "")
	out = strings.ReplaceAll(out, "</ol><ol>", "")
	return out
}

// markupToLines parses markup into source lines: one line per block, a
// blank line between paragraphs, one line per list item.
func markupToLines(m string) []string {
	doc, err := html.Parse(strings.NewReader(m))
	if err != nil {
		return strings.Split(m, "\n")
	}

	body := findBody(doc)
	if body == nil {
		return []string{""}
	}

	var lines []string
	for n := body.FirstChild; n != nil; n = n.NextSibling {
		switch {
		case n.Type == html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				appendWithGap(&lines, []string{t})
			}
		case n.DataAtom == atom.P:
			appendWithGap(&lines, strings.Split(innerMarkup(n), "<br/>"))
		case n.DataAtom == atom.Ul || n.DataAtom == atom.Ol:
			listType := n.Data
			var items []string
			for li := n.FirstChild; li != nil; li = li.NextSibling {
				if li.DataAtom == atom.Li {
					items = append(items, "<"+listType+"><li>"+innerMarkup(li)+"</li></"+listType+">")
				}
			}
			appendWithGap(&lines, items)
		case n.DataAtom == atom.Hr:
			appendWithGap(&lines, []string{"<hr/>"})
		case n.DataAtom == atom.Pre:
			appendWithGap(&lines, []string{"<pre><code>" + strings.TrimSpace(markup.PlainText(outerMarkup(n))) + "</code></pre>"})
		case n.Type == html.ElementNode:
			appendWithGap(&lines, []string{outerMarkup(n)})
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// appendWithGap appends lines as a new block, separated from the previous
// block by a blank line.
func appendWithGap(lines *[]string, block []string) {
	if len(block) == 0 {
		return
	}
	if len(*lines) > 0 {
		*lines = append(*lines, "")
	}
	*lines = append(*lines, block...)
}

func innerMarkup(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		html.Render(&buf, c)
	}
	return normalizeBr(buf.String())
}

func outerMarkup(n *html.Node) string {
	var buf bytes.Buffer
	html.Render(&buf, n)
	return normalizeBr(buf.String())
}

// normalizeBr unifies the serializer's <br/> spellings with the one the
// editor emits.
func normalizeBr(s string) string {
	s = strings.ReplaceAll(s, "<br>", "<br/>")
	return strings.ReplaceAll(s, "<br />", "<br/>")
}

func findBody(doc *html.Node) *html.Node {
	var body *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return body
}
