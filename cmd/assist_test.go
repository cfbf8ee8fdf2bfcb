// ABOUTME: Tests for the headless assist commands
// ABOUTME: Verifies mode validation and endpoint wiring for each assist kind

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quillnet/quill-cli/internal/assist"
)

func resetAssistFlags() {
	assistFile = ""
	assistMode = "clarity"
	assistTitle = ""
}

func TestAssistCommand_BadMode(t *testing.T) {
	assistMode = "poetic"
	defer resetAssistFlags()

	var buf bytes.Buffer
	exitCode := runAssist(context.Background(), &buf, assist.KindImprove)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("unknown mode")) {
		t.Error("expected mode error in output")
	}
}

func TestAssistCommand_EmptyFile(t *testing.T) {
	assistFile = writeTempFile(t, "draft.txt", "  \n ")
	defer resetAssistFlags()

	var buf bytes.Buffer
	exitCode := runAssist(context.Background(), &buf, assist.KindSummary)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
}

func TestAssistCommand_Improve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ai/improve" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["mode"] != "grammar" {
			t.Errorf("expected grammar mode, got %q", req["mode"])
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"result": "Much better prose."})
	}))
	defer server.Close()

	apiURL = server.URL
	configDir = t.TempDir()
	assistMode = "grammar"
	assistFile = writeTempFile(t, "draft.txt", "much betterer prose")
	defer func() { apiURL = ""; configDir = ""; resetAssistFlags() }()

	var buf bytes.Buffer
	exitCode := runAssist(context.Background(), &buf, assist.KindImprove)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Much better prose.")) {
		t.Error("expected improved text in output")
	}
}

func TestAssistCommand_TitlesNumbered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ai/suggest-title" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string][]string{"titles": {"One", "Two"}})
	}))
	defer server.Close()

	apiURL = server.URL
	configDir = t.TempDir()
	assistFile = writeTempFile(t, "draft.txt", "some body text")
	assistTitle = "Working Title"
	defer func() { apiURL = ""; configDir = ""; resetAssistFlags() }()

	var buf bytes.Buffer
	exitCode := runAssist(context.Background(), &buf, assist.KindTitles)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	for _, check := range []string{"1. One", "2. Two"} {
		if !bytes.Contains(buf.Bytes(), []byte(check)) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestFormatAssistJSON(t *testing.T) {
	output := formatAssistJSON(assist.KindTags, "", []string{"go", "tui"})

	var parsed map[string]any
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["kind"] != "tags" {
		t.Errorf("expected kind tags, got %v", parsed["kind"])
	}
	suggestions, ok := parsed["suggestions"].([]any)
	if !ok || len(suggestions) != 2 {
		t.Errorf("expected 2 suggestions, got %v", parsed["suggestions"])
	}
}
