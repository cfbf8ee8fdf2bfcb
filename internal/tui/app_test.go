// ABOUTME: Tests for the root TUI model
// ABOUTME: Validates screen transitions, auth gating and session expiry

package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/quillnet/quill-cli/internal/client"
	"github.com/quillnet/quill-cli/internal/query"
	"github.com/quillnet/quill-cli/internal/session"
	"github.com/quillnet/quill-cli/internal/tui/home"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	store := session.New(t.TempDir())
	api := client.New("http://127.0.0.1:1", client.WithTokenSource(store.Token))
	a := New(api, store)
	a.width = 100
	a.height = 30
	return a
}

func loggedInApp(t *testing.T) *App {
	t.Helper()
	a := newTestApp(t)
	if err := a.session.Login("tok", client.User{ID: 1, Username: "casey"}); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestArticlesLoadedPopulatesHome(t *testing.T) {
	a := newTestApp(t)

	list := &client.ArticleList{
		Articles:   []client.Article{{ID: 1, Title: "Hello Quill", Category: "Tech"}},
		Pagination: client.Pagination{Page: 1, TotalPages: 1, Total: 1},
	}
	a.Update(articlesLoadedMsg{list: list, q: query.ListQuery{}})

	if a.screen != ScreenHome {
		t.Fatalf("expected home screen, got %v", a.screen)
	}
	if !strings.Contains(a.View(), "Hello Quill") {
		t.Error("expected article title in view")
	}
}

func TestComposeRequiresAuth(t *testing.T) {
	a := newTestApp(t)

	a.Update(home.ComposeMsg{})
	if a.screen != ScreenAuth {
		t.Errorf("expected auth screen for anonymous compose, got %v", a.screen)
	}
	if a.afterAuth != ScreenForm {
		t.Errorf("expected return target form, got %v", a.afterAuth)
	}
}

func TestComposeOpensFormWhenAuthenticated(t *testing.T) {
	a := loggedInApp(t)

	a.Update(home.ComposeMsg{})
	if a.screen != ScreenForm {
		t.Errorf("expected form screen, got %v", a.screen)
	}
	if a.formView == nil {
		t.Error("expected form model created")
	}
}

func TestDashboardRequiresAuth(t *testing.T) {
	a := newTestApp(t)

	a.Update(home.DashboardMsg{})
	if a.screen != ScreenAuth {
		t.Errorf("expected auth screen, got %v", a.screen)
	}
}

func TestAuthSuccessReturnsToTarget(t *testing.T) {
	a := newTestApp(t)
	a.Update(home.DashboardMsg{})

	a.Update(authDoneMsg{resp: &client.AuthResponse{
		Token: "t1",
		User:  client.User{ID: 4, Username: "sam"},
	}})

	if a.screen != ScreenDashboard {
		t.Errorf("expected dashboard after login, got %v", a.screen)
	}
	if state := a.session.Current(); !state.Authenticated || state.User.Username != "sam" {
		t.Errorf("expected session persisted, got %#v", state)
	}
}

func TestAuthFailureStaysOnAuthScreen(t *testing.T) {
	a := newTestApp(t)
	a.Update(home.ComposeMsg{})

	a.Update(authDoneMsg{err: errors.New("invalid credentials")})

	if a.screen != ScreenAuth {
		t.Errorf("expected auth screen retained, got %v", a.screen)
	}
	if !strings.Contains(a.View(), "invalid credentials") {
		t.Error("expected backend error shown")
	}
}

func TestSessionExpiryRedirectsOnce(t *testing.T) {
	a := loggedInApp(t)

	a.Update(sessionExpiredMsg{})
	if a.screen != ScreenAuth {
		t.Fatalf("expected auth screen after expiry, got %v", a.screen)
	}
	if a.session.Current().Authenticated {
		t.Error("expected session cleared")
	}
	if !strings.Contains(a.View(), "session has expired") {
		t.Error("expected expiry notice")
	}

	// Further rejections from in-flight calls must not reset the screen
	first := a.authView
	a.Update(sessionExpiredMsg{})
	if a.authView != first {
		t.Error("expected auth screen untouched by repeated expiry")
	}
}

func TestLoginResetsExpiredFlag(t *testing.T) {
	a := loggedInApp(t)
	a.Update(sessionExpiredMsg{})

	a.Update(authDoneMsg{resp: &client.AuthResponse{
		Token: "t2",
		User:  client.User{ID: 1, Username: "casey"},
	}})

	if a.expired {
		t.Error("expected expiry flag cleared after login")
	}
}

func TestArticleLoadedOpensDetail(t *testing.T) {
	a := loggedInApp(t)

	a.Update(articleLoadedMsg{article: &client.Article{
		ID: 3, Title: "Mine", AuthorID: 1, Category: "Tech",
		Content: "<p>text</p>",
	}})

	if a.screen != ScreenDetail {
		t.Fatalf("expected detail screen, got %v", a.screen)
	}
}

func TestArticleLoadedForEditOpensForm(t *testing.T) {
	a := loggedInApp(t)

	a.Update(articleLoadedMsg{article: &client.Article{
		ID: 3, Title: "Mine", AuthorID: 1, Category: "Tech",
		Content: "<p>text</p>",
	}, forEdit: true})

	if a.screen != ScreenForm {
		t.Fatalf("expected form screen, got %v", a.screen)
	}
	if a.formView == nil || !a.formView.Editing() {
		t.Error("expected edit-mode form")
	}
}

func TestSaveErrorShowsStatus(t *testing.T) {
	a := loggedInApp(t)

	a.Update(articleSavedMsg{err: errors.New("not your article")})
	if a.status != "not your article" || !a.statusErr {
		t.Errorf("expected error status, got %q", a.status)
	}
}

func TestUnauthorizedErrorsAreSilent(t *testing.T) {
	a := loggedInApp(t)

	a.Update(articleSavedMsg{err: client.ErrUnauthorized})
	if a.status != "" {
		t.Errorf("expected no status for unauthorized error, got %q", a.status)
	}
}

func TestHeaderShowsSessionState(t *testing.T) {
	anon := newTestApp(t)
	if !strings.Contains(anon.View(), "signed out") {
		t.Error("expected signed-out header")
	}

	authed := loggedInApp(t)
	if !strings.Contains(authed.View(), "casey") {
		t.Error("expected username in header")
	}
}
