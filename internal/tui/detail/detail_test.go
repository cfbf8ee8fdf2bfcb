// ABOUTME: Tests for the article reading screen
// ABOUTME: Validates owner gating and the delete confirmation flow

package detail

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quillnet/quill-cli/internal/client"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleArticle() client.Article {
	return client.Article{
		ID:         7,
		Title:      "Understanding Channels",
		Content:    "<p>Channels connect goroutines.</p>",
		Category:   "Backend",
		Tags:       []string{"go", "concurrency"},
		AuthorName: "casey",
		Views:      42,
		CreatedAt:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBackMessage(t *testing.T) {
	d := New(sampleArticle(), false, 100, 30)

	cmd := d.Update(keyRunes("b"))
	if cmd == nil {
		t.Fatal("expected command for b")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Error("expected BackMsg")
	}
}

func TestEditRequiresOwnership(t *testing.T) {
	d := New(sampleArticle(), false, 100, 30)
	if cmd := d.Update(keyRunes("e")); cmd != nil {
		t.Error("expected no edit command for non-owner")
	}

	owner := New(sampleArticle(), true, 100, 30)
	cmd := owner.Update(keyRunes("e"))
	if cmd == nil {
		t.Fatal("expected edit command for owner")
	}
	edit, ok := cmd().(EditMsg)
	if !ok || edit.ID != 7 {
		t.Errorf("expected EditMsg for article 7, got %#v", cmd())
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	d := New(sampleArticle(), true, 100, 30)

	if cmd := d.Update(keyRunes("d")); cmd != nil {
		t.Error("expected no command before confirmation")
	}
	if !strings.Contains(d.View(), "confirm") {
		t.Error("expected confirmation prompt in view")
	}

	cmd := d.Update(keyRunes("y"))
	if cmd == nil {
		t.Fatal("expected delete command after y")
	}
	del, ok := cmd().(DeleteMsg)
	if !ok || del.ID != 7 {
		t.Errorf("expected DeleteMsg for article 7, got %#v", cmd())
	}
}

func TestDeleteCancelledByOtherKey(t *testing.T) {
	d := New(sampleArticle(), true, 100, 30)

	d.Update(keyRunes("d"))
	d.Update(keyRunes("n"))

	if d.confirmDelete {
		t.Error("expected confirmation cleared by non-y key")
	}
}

func TestDeleteIgnoredForNonOwner(t *testing.T) {
	d := New(sampleArticle(), false, 100, 30)

	d.Update(keyRunes("d"))
	if d.confirmDelete {
		t.Error("expected no confirmation state for non-owner")
	}
}

func TestHeaderShowsMetadata(t *testing.T) {
	d := New(sampleArticle(), false, 100, 30)

	view := d.View()
	for _, want := range []string{"Understanding Channels", "casey", "Backend", "go", "concurrency"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestContentIsRendered(t *testing.T) {
	d := New(sampleArticle(), false, 100, 30)

	if !strings.Contains(d.View(), "Channels connect goroutines.") {
		t.Error("expected article body in view")
	}
}
