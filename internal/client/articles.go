// ABOUTME: Article CRUD endpoints and their wire types
// ABOUTME: Listing carries the pagination cursor the Home view round-trips

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Article is a user-authored piece of content. The backend owns it; the
// client holds transient copies for the duration of a view or edit session.
type Article struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Summary    string    `json:"summary"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Views      int       `json:"views"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ArticleDraft is the create/update payload.
type ArticleDraft struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Summary  string   `json:"summary"`
}

// Pagination is the cursor the listing endpoint returns.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ArticleList is the paginated listing response.
type ArticleList struct {
	Articles   []Article  `json:"articles"`
	Pagination Pagination `json:"pagination"`
}

// ListOptions narrows the listing. Zero-valued fields are omitted from the
// request; Page defaults to 1 and Limit to the caller-chosen page size.
type ListOptions struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	page := o.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Search != "" {
		v.Set("search", o.Search)
	}
	if o.Category != "" {
		v.Set("category", o.Category)
	}
	return v
}

// ListArticles calls GET /api/articles with the given filters.
func (c *Client) ListArticles(ctx context.Context, opts ListOptions) (*ArticleList, error) {
	var out ArticleList
	if err := c.do(ctx, http.MethodGet, "/articles", opts.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyArticles calls GET /api/articles/my and returns the current user's
// articles, newest first.
func (c *Client) MyArticles(ctx context.Context) ([]Article, error) {
	var out []Article
	if err := c.do(ctx, http.MethodGet, "/articles/my", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetArticle calls GET /api/articles/:id.
func (c *Client) GetArticle(ctx context.Context, id int64) (*Article, error) {
	var out Article
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/articles/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateArticle calls POST /api/articles and returns the stored article.
func (c *Client) CreateArticle(ctx context.Context, draft ArticleDraft) (*Article, error) {
	var out Article
	if err := c.do(ctx, http.MethodPost, "/articles", nil, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateArticle calls PUT /api/articles/:id with the same body shape as
// create.
func (c *Client) UpdateArticle(ctx context.Context, id int64, draft ArticleDraft) (*Article, error) {
	var out Article
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/articles/%d", id), nil, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteArticle calls DELETE /api/articles/:id. Ownership is enforced
// server-side; a rejection surfaces as an *APIError.
func (c *Client) DeleteArticle(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/articles/%d", id), nil, nil, nil)
}
