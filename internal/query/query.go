// ABOUTME: Listing query state for the article index
// ABOUTME: The encoded form is the single source of truth for search/filter/page

package query

import (
	"net/url"
	"strconv"
	"strings"
)

// PageSize is the fixed number of articles per listing page.
const PageSize = 9

// All is the virtual category meaning "no category filter". It is never
// transmitted to the server.
const All = "All"

// Categories is the fixed category set articles are filed under.
var Categories = []string{
	"Tech", "AI", "Backend", "Frontend", "DevOps",
	"Database", "Security", "Mobile", "Other",
}

// ValidCategory reports whether c names one of the fixed categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ListQuery is the navigable listing state: search text, category filter and
// page number. The zero value is page 1 of everything.
type ListQuery struct {
	Search   string
	Category string
	Page     int
}

// WithSearch returns the query with the search text replaced. The text is
// trimmed and the page resets to 1.
func (q ListQuery) WithSearch(s string) ListQuery {
	q.Search = strings.TrimSpace(s)
	q.Page = 0
	return q
}

// WithCategory returns the query filtered to category c, resetting the page
// to 1. Selecting All clears the filter.
func (q ListQuery) WithCategory(c string) ListQuery {
	if c == All {
		c = ""
	}
	q.Category = c
	q.Page = 0
	return q
}

// WithPage returns the query moved to page p.
func (q ListQuery) WithPage(p int) ListQuery {
	if p < 1 {
		p = 1
	}
	q.Page = p
	return q
}

// PageOrDefault returns the page number, treating unset as 1.
func (q ListQuery) PageOrDefault() int {
	if q.Page < 1 {
		return 1
	}
	return q.Page
}

// Values encodes the query as URL parameters. Empty search, the All/empty
// category and page 1 are omitted so the encoded form stays canonical.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	if q.Category != "" && q.Category != All {
		v.Set("category", q.Category)
	}
	if q.PageOrDefault() > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// Encode returns the canonical string form, suitable for a history stack.
func (q ListQuery) Encode() string {
	return q.Values().Encode()
}

// Parse rebuilds a ListQuery from URL parameters. Malformed or missing page
// numbers fall back to 1; unknown categories are dropped.
func Parse(v url.Values) ListQuery {
	q := ListQuery{
		Search:   strings.TrimSpace(v.Get("search")),
		Category: v.Get("category"),
	}
	if !ValidCategory(q.Category) {
		q.Category = ""
	}
	if p, err := strconv.Atoi(v.Get("page")); err == nil && p > 1 {
		q.Page = p
	}
	return q
}

// ParseEncoded is Parse for a previously Encode()d string.
func ParseEncoded(s string) ListQuery {
	v, err := url.ParseQuery(s)
	if err != nil {
		return ListQuery{}
	}
	return Parse(v)
}
