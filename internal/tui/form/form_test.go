// ABOUTME: Tests for the article composing screen
// ABOUTME: Validates draft submission, assist round trips and stale results

package form

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quillnet/quill-cli/internal/assist"
	"github.com/quillnet/quill-cli/internal/client"
	"github.com/quillnet/quill-cli/internal/markup"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collectMsgs runs a command tree and returns every produced message
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findAssistRequest(t *testing.T, cmd tea.Cmd) AssistRequestMsg {
	t.Helper()
	for _, msg := range collectMsgs(cmd) {
		if req, ok := msg.(AssistRequestMsg); ok {
			return req
		}
	}
	t.Fatal("expected an AssistRequestMsg")
	return AssistRequestMsg{}
}

func TestSubmitRequiresTitle(t *testing.T) {
	f := New(100, 30)
	f.body.SetContent("<p>some content</p>")

	if cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS}); cmd != nil {
		t.Error("expected no command without a title")
	}
	if !strings.Contains(f.errMsg, "title") {
		t.Errorf("expected title error, got %q", f.errMsg)
	}
}

func TestSubmitRequiresContent(t *testing.T) {
	f := New(100, 30)
	f.title.SetValue("A Title")

	if cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS}); cmd != nil {
		t.Error("expected no command with an empty document")
	}
	if !strings.Contains(f.errMsg, "content") {
		t.Errorf("expected content error, got %q", f.errMsg)
	}
}

func TestSubmitBuildsDraft(t *testing.T) {
	f := New(100, 30)
	f.title.SetValue("  Concurrency Patterns  ")
	f.body.SetContent("<p>fan-in and fan-out</p>")
	f.tags = []string{"go", "patterns"}
	f.summary = "A short tour."
	f.catIdx = 2 // Backend

	cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	sub, ok := cmd().(SubmitMsg)
	if !ok {
		t.Fatalf("expected SubmitMsg, got %T", cmd())
	}
	if sub.ID != 0 {
		t.Errorf("expected new-article submit, got id %d", sub.ID)
	}
	if sub.Draft.Title != "Concurrency Patterns" {
		t.Errorf("expected trimmed title, got %q", sub.Draft.Title)
	}
	if sub.Draft.Category != "Backend" {
		t.Errorf("expected Backend category, got %q", sub.Draft.Category)
	}
	if sub.Draft.Content != "<p>fan-in and fan-out</p>" {
		t.Errorf("unexpected content %q", sub.Draft.Content)
	}
	if len(sub.Draft.Tags) != 2 || sub.Draft.Summary != "A short tour." {
		t.Errorf("unexpected tags/summary: %#v %q", sub.Draft.Tags, sub.Draft.Summary)
	}
}

func TestNewEditPrefillsFields(t *testing.T) {
	f := NewEdit(client.Article{
		ID:       9,
		Title:    "Existing",
		Content:  "<h2>Intro</h2><p>body</p>",
		Category: "DevOps",
		Tags:     []string{"ci"},
		Summary:  "sum",
	}, 100, 30)

	if !f.Editing() {
		t.Error("expected editing mode")
	}
	if f.title.Value() != "Existing" {
		t.Errorf("expected title prefilled, got %q", f.title.Value())
	}
	if got := f.body.Content(); got != "<h2>Intro</h2><p>body</p>" {
		t.Errorf("expected content round trip, got %q", got)
	}

	cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	sub := cmd().(SubmitMsg)
	if sub.ID != 9 || sub.Draft.Category != "DevOps" {
		t.Errorf("expected update submit for 9/DevOps, got %d/%q", sub.ID, sub.Draft.Category)
	}
}

func TestAssistRequestCarriesStrippedContent(t *testing.T) {
	f := New(100, 30)
	f.title.SetValue("My Title")
	f.body.SetContent("<p><strong>bold</strong> words</p>")
	f.focus = focusAssist
	f.assistIdx = 2 // suggest titles

	req := findAssistRequest(t, f.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	if req.Kind != assist.KindTitles {
		t.Errorf("expected titles kind, got %v", req.Kind)
	}
	if req.Content != "bold words" {
		t.Errorf("expected stripped content, got %q", req.Content)
	}
	if req.Title != "My Title" {
		t.Errorf("expected current title carried, got %q", req.Title)
	}
	if f.orch.State(assist.KindTitles).Phase != assist.Pending {
		t.Error("expected pending state after request")
	}
}

func TestAssistRejectsEmptyDocumentLocally(t *testing.T) {
	f := New(100, 30)
	f.focus = focusAssist

	if cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("expected no command for an empty document")
	}
	if f.errMsg == "" {
		t.Error("expected a local validation error")
	}
	if f.orch.State(assist.KindImprove).Phase != assist.Idle {
		t.Error("expected no state change for rejected request")
	}
}

func TestAssistResolveAndPickTitle(t *testing.T) {
	f := New(100, 30)
	f.body.SetContent("<p>words</p>")
	f.focus = focusAssist
	f.assistIdx = 2

	req := findAssistRequest(t, f.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	f.Update(AssistResolvedMsg{
		Kind:   req.Kind,
		Seq:    req.Seq,
		Result: assist.Result{Titles: []string{"One", "Two", "Three"}},
	})

	if f.orch.State(assist.KindTitles).Phase != assist.Succeeded {
		t.Fatal("expected succeeded state")
	}

	f.Update(keyRunes("2"))
	if f.title.Value() != "Two" {
		t.Errorf("expected picked title, got %q", f.title.Value())
	}
	if f.orch.State(assist.KindTitles).Phase != assist.Idle {
		t.Error("expected dismissal after picking")
	}
}

func TestStaleAssistResultIgnored(t *testing.T) {
	f := New(100, 30)
	f.body.SetContent("<p>first</p>")
	f.focus = focusAssist
	f.assistIdx = 0

	first := findAssistRequest(t, f.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	second := findAssistRequest(t, f.Update(tea.KeyMsg{Type: tea.KeyEnter}))

	// The newer request resolves first; the older one must not clobber it
	f.Update(AssistResolvedMsg{Kind: second.Kind, Seq: second.Seq, Result: assist.Result{Text: "fresh"}})
	f.Update(AssistResolvedMsg{Kind: first.Kind, Seq: first.Seq, Result: assist.Result{Text: "stale"}})

	state := f.orch.State(assist.KindImprove)
	if state.Result.Text != "fresh" {
		t.Errorf("expected fresh result kept, got %q", state.Result.Text)
	}
}

func TestApplyImproveReplacesBody(t *testing.T) {
	f := New(100, 30)
	f.body.SetContent("<p>old text</p>")
	f.focus = focusAssist
	f.assistIdx = 0

	req := findAssistRequest(t, f.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	f.Update(AssistResolvedMsg{Kind: req.Kind, Seq: req.Seq, Result: assist.Result{Text: "new text\n\nsecond para"}})
	f.Update(keyRunes("a"))

	if got := f.body.Content(); got != "<p>new text</p><p>second para</p>" {
		t.Errorf("unexpected body after apply: %q", got)
	}
	if f.orch.State(assist.KindImprove).Phase != assist.Idle {
		t.Error("expected dismissal after apply")
	}
}

func TestAssistFailureShownAndDismissable(t *testing.T) {
	f := New(100, 30)
	f.body.SetContent("<p>words</p>")
	f.focus = focusAssist
	f.assistIdx = 1 // summary

	req := findAssistRequest(t, f.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	f.Update(AssistResolvedMsg{Kind: req.Kind, Seq: req.Seq, Err: errors.New("AI service unavailable")})

	if f.orch.State(assist.KindSummary).Phase != assist.Failed {
		t.Fatal("expected failed state")
	}
	if !strings.Contains(f.View(), "AI service unavailable") {
		t.Error("expected failure message in view")
	}

	f.Update(keyRunes("x"))
	if f.orch.State(assist.KindSummary).Phase != assist.Idle {
		t.Error("expected dismissal")
	}
}

func TestTagEntryFlow(t *testing.T) {
	f := New(100, 30)
	f.focus = focusTags
	f.tagIn.SetValue("golang")

	f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(f.tags) != 1 || f.tags[0] != "golang" {
		t.Errorf("expected tag added, got %#v", f.tags)
	}
	if f.tagIn.Value() != "" {
		t.Error("expected tag input cleared")
	}

	// Backspace on an empty input removes the last tag
	f.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if len(f.tags) != 0 {
		t.Errorf("expected tag removed, got %#v", f.tags)
	}
}

func TestTagLimit(t *testing.T) {
	f := New(100, 30)
	f.focus = focusTags
	f.tags = []string{"a", "b", "c", "d", "e"}
	f.tagIn.SetValue("f")

	f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(f.tags) != maxTags {
		t.Errorf("expected tag limit enforced, got %d tags", len(f.tags))
	}
}

func TestNewFormStartsEmpty(t *testing.T) {
	f := New(100, 30)

	if got := f.body.Content(); got != markup.EmptyDocument {
		t.Errorf("expected empty document sentinel, got %q", got)
	}
	if f.Editing() {
		t.Error("expected new-article mode")
	}
}

func TestEscCancels(t *testing.T) {
	f := New(100, 30)

	cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected command for esc")
	}
	if _, ok := cmd().(CancelMsg); !ok {
		t.Error("expected CancelMsg")
	}
}
