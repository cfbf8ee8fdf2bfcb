// ABOUTME: AI assist endpoints: improve, summary, title and tag suggestions
// ABOUTME: All take plain text; markup stripping happens before these calls

package client

import (
	"context"
	"net/http"
)

// AIAPI is the slice of the client the assist orchestrator depends on.
type AIAPI interface {
	Improve(ctx context.Context, content, mode string) (string, error)
	Summary(ctx context.Context, content, title string) (string, error)
	SuggestTitles(ctx context.Context, content, currentTitle string) ([]string, error)
	SuggestTags(ctx context.Context, content, title string) ([]string, error)
}

// Improve calls POST /api/ai/improve. Mode is one of clarity, grammar or
// concise; the backend validates it.
func (c *Client) Improve(ctx context.Context, content, mode string) (string, error) {
	body := map[string]string{"content": content, "mode": mode}
	var out struct {
		Result string `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/ai/improve", nil, body, &out); err != nil {
		return "", err
	}
	return out.Result, nil
}

// Summary calls POST /api/ai/summary.
func (c *Client) Summary(ctx context.Context, content, title string) (string, error) {
	body := map[string]string{"content": content, "title": title}
	var out struct {
		Summary string `json:"summary"`
	}
	if err := c.do(ctx, http.MethodPost, "/ai/summary", nil, body, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}

// SuggestTitles calls POST /api/ai/suggest-title and returns title
// candidates in the order the model ranked them.
func (c *Client) SuggestTitles(ctx context.Context, content, currentTitle string) ([]string, error) {
	body := map[string]string{"content": content, "currentTitle": currentTitle}
	var out struct {
		Titles []string `json:"titles"`
	}
	if err := c.do(ctx, http.MethodPost, "/ai/suggest-title", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Titles, nil
}

// SuggestTags calls POST /api/ai/suggest-tags.
func (c *Client) SuggestTags(ctx context.Context, content, title string) ([]string, error) {
	body := map[string]string{"content": content, "title": title}
	var out struct {
		Tags []string `json:"tags"`
	}
	if err := c.do(ctx, http.MethodPost, "/ai/suggest-tags", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Tags, nil
}
