// ABOUTME: Tests for the editor adapter and formatting commands
// ABOUTME: Exercises toggle semantics, link handling, and serialization

package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mounted(t *testing.T, content string) *Editor {
	t.Helper()
	e := New()
	e.Mount(80, 10)
	if content != "" {
		e.SetContent(content)
	}
	return e
}

func TestCommandsNoOpBeforeMount(t *testing.T) {
	e := New()
	e.Apply(CmdBold)
	e.Apply(CmdHeading1)
	e.Apply(CmdLink, "https://example.com")
	assert.Equal(t, "<p></p>", e.Content(), "unmounted editor must stay empty")
}

func TestEmptyDocumentSentinel(t *testing.T) {
	e := mounted(t, "")
	assert.Equal(t, "<p></p>", e.Content())
}

func TestBoldToggle(t *testing.T) {
	e := mounted(t, "<p>hello world</p>")
	e.Apply(CmdBold)
	assert.Equal(t, "<p><strong>hello world</strong></p>", e.Content())

	// Applying bold twice returns to the prior state.
	e.Apply(CmdBold)
	assert.Equal(t, "<p>hello world</p>", e.Content())
}

func TestInlineMarkInsideHeading(t *testing.T) {
	e := mounted(t, "<h2>section</h2>")
	e.Apply(CmdItalic)
	assert.Equal(t, "<h2><em>section</em></h2>", e.Content())
}

func TestHeadingToggleAndSwitch(t *testing.T) {
	e := mounted(t, "<p>title text</p>")
	e.Apply(CmdHeading1)
	assert.Equal(t, "<h1>title text</h1>", e.Content())

	// A different heading level replaces the wrapper.
	e.Apply(CmdHeading2)
	assert.Equal(t, "<h2>title text</h2>", e.Content())

	// Same level again restores the paragraph.
	e.Apply(CmdHeading2)
	assert.Equal(t, "<p>title text</p>", e.Content())
}

func TestBulletListToggle(t *testing.T) {
	e := mounted(t, "<p>item one</p>")
	e.Apply(CmdBulletList)
	assert.Equal(t, "<ul><li>item one</li></ul>", e.Content())
	e.Apply(CmdBulletList)
	assert.Equal(t, "<p>item one</p>", e.Content())
}

func TestAdjacentListItemsMerge(t *testing.T) {
	e := mounted(t, "<ul><li>one</li><li>two</li></ul>")
	assert.Equal(t, "<ul><li>one</li><li>two</li></ul>", e.Content())
}

func TestCodeBlockToggle(t *testing.T) {
	e := mounted(t, "<p>fmt.Println(42)</p>")
	e.Apply(CmdCodeBlock)
	assert.Equal(t, "<pre><code>fmt.Println(42)</code></pre>", e.Content())
	e.Apply(CmdCodeBlock)
	assert.Equal(t, "<p>fmt.Println(42)</p>", e.Content())
}

func TestLinkSetAndClear(t *testing.T) {
	e := mounted(t, "<p>read this</p>")
	e.Apply(CmdLink, "https://example.com")
	assert.Equal(t, `<p><a href="https://example.com">read this</a></p>`, e.Content())

	// Empty URL clears the existing link.
	e.Apply(CmdLink, "")
	assert.Equal(t, "<p>read this</p>", e.Content())
}

func TestLinkClearWithoutLinkIsNoOp(t *testing.T) {
	e := mounted(t, "<p>no link here</p>")
	e.Apply(CmdLink, "")
	assert.Equal(t, "<p>no link here</p>", e.Content())
}

func TestLinkReplaceKeepsNewestTarget(t *testing.T) {
	e := mounted(t, "<p>docs</p>")
	e.Apply(CmdLink, "https://old.example.com")
	e.Apply(CmdLink, "https://new.example.com")
	assert.Equal(t, `<p><a href="https://new.example.com">docs</a></p>`, e.Content())
}

func TestUndoRedo(t *testing.T) {
	e := mounted(t, "<p>text</p>")
	e.Apply(CmdBold)
	require.Equal(t, "<p><strong>text</strong></p>", e.Content())

	e.Apply(CmdUndo)
	assert.Equal(t, "<p>text</p>", e.Content())

	e.Apply(CmdRedo)
	assert.Equal(t, "<p><strong>text</strong></p>", e.Content())
}

func TestParagraphSerialization(t *testing.T) {
	e := mounted(t, "<p>first</p><p>second<br/>third</p>")
	// Round trip through source lines is stable.
	assert.Equal(t, "<p>first</p><p>second<br/>third</p>", e.Content())
}

func TestOnChangeFiresOnEdit(t *testing.T) {
	e := mounted(t, "<p>ab</p>")
	var got []string
	e.OnChange(func(m string) { got = append(got, m) })

	e.Focus()
	e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})

	require.NotEmpty(t, got)
	assert.Contains(t, got[len(got)-1], "c")
}

func TestOnChangeFiresOnCommand(t *testing.T) {
	e := mounted(t, "<p>word</p>")
	fired := 0
	e.OnChange(func(string) { fired++ })
	e.Apply(CmdBold)
	assert.Equal(t, 1, fired)
}

func TestHorizontalRule(t *testing.T) {
	e := mounted(t, "<p>above</p>")
	e.Apply(CmdHorizontalRule)
	assert.Contains(t, e.Content(), "<hr/>")
}

func TestPlainText(t *testing.T) {
	e := mounted(t, "<p>alpha <strong>beta</strong></p>")
	assert.Equal(t, "alpha beta", e.PlainText())
}
