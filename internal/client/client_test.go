// ABOUTME: Tests for the Quill API client request plumbing
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("expected path /api/auth/login, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var in LoginInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if in.Email != "a@b.com" || in.Password != "secret" {
			t.Errorf("unexpected credentials: %+v", in)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(AuthResponse{
			Token: "t1",
			User:  User{ID: 1, Username: "a"},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Login(context.Background(), LoginInput{Email: "a@b.com", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token != "t1" {
		t.Errorf("expected token t1, got %s", resp.Token)
	}
	if resp.User.ID != 1 || resp.User.Username != "a" {
		t.Errorf("unexpected user: %+v", resp.User)
	}
}

func TestBearerToken_AttachedAfterLogin(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(User{ID: 1, Username: "a"})
	}))
	defer server.Close()

	token := "t1"
	c := New(server.URL, WithTokenSource(func() string { return token }))

	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer t1" {
		t.Errorf("expected Authorization 'Bearer t1', got %q", gotAuth)
	}

	// Logout empties the token source; no header should be sent.
	token = ""
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header after logout, got %q", gotAuth)
	}
}

func TestRequestID_Attached(t *testing.T) {
	var ids []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Request-ID"))
		json.NewEncoder(w).Encode(User{})
	}))
	defer server.Close()

	c := New(server.URL)
	c.Me(context.Background())
	c.Me(context.Background())

	if len(ids) != 2 || ids[0] == "" || ids[0] == ids[1] {
		t.Errorf("expected two distinct request ids, got %v", ids)
	}
}

func TestUnauthorized_InvokesHandlerOncePerResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "token expired"})
	}))
	defer server.Close()

	c := New(server.URL)
	calls := 0
	c.OnUnauthorized(func() { calls++ })

	// A 401 from any endpoint triggers the handler, not just auth calls.
	_, err := c.MyArticles(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected handler called once, got %d", calls)
	}

	if err := c.DeleteArticle(context.Background(), 7); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected handler called once per 401 response, got %d", calls)
	}
}

func TestServerError_SurfacesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "not your article"})
	}))
	defer server.Close()

	c := New(server.URL)
	err := c.DeleteArticle(context.Background(), 42)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", apiErr.Status)
	}
	if apiErr.Message != "not your article" {
		t.Errorf("expected server message surfaced verbatim, got %q", apiErr.Message)
	}
}

func TestServerError_ValidationMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"msg":"title is required"}]}`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.CreateArticle(context.Background(), ArticleDraft{})
	if err == nil || err.Error() != "title is required" {
		t.Errorf("expected first validation message, got %v", err)
	}
}

func TestServerError_FallbackMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.GetArticle(context.Background(), 1)
	if err == nil || err.Error() != "backend returned status 502" {
		t.Errorf("expected generic fallback, got %v", err)
	}
}

func TestConnectionError(t *testing.T) {
	c := New("http://127.0.0.1:1")
	if _, err := c.Me(context.Background()); err == nil {
		t.Error("expected connection error, got nil")
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode(User{})
	}))
	defer server.Close()

	c := New(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Me(ctx); err == nil {
		t.Error("expected error for canceled context, got nil")
	}
}
