// ABOUTME: Tests for listing query state
// ABOUTME: Covers page resets, the All category, trimming, and round trips

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCategory_ResetsPage(t *testing.T) {
	for _, c := range append([]string{All}, Categories...) {
		q := ListQuery{Search: "go", Page: 4}.WithCategory(c)
		assert.Equal(t, 1, q.PageOrDefault(), "category %s", c)
		if c == All {
			assert.Empty(t, q.Values().Get("category"))
		} else {
			assert.Equal(t, c, q.Values().Get("category"))
		}
	}
}

func TestWithSearch_TrimsAndResetsPage(t *testing.T) {
	q := ListQuery{Category: "Backend", Page: 3}.WithSearch("  concurrency  ")
	assert.Equal(t, "concurrency", q.Search)
	assert.Equal(t, 1, q.PageOrDefault())
	assert.Equal(t, "concurrency", q.Values().Get("search"))
}

func TestValues_OmitsDefaults(t *testing.T) {
	v := ListQuery{}.Values()
	assert.Empty(t, v)

	v = ListQuery{Search: "", Category: All, Page: 1}.Values()
	assert.Empty(t, v)
}

func TestValues_PageBeyondFirst(t *testing.T) {
	v := ListQuery{Category: "Backend", Page: 2}.Values()
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "Backend", v.Get("category"))
	_, hasSearch := v["search"]
	assert.False(t, hasSearch)
}

func TestEncodeParse_RoundTrip(t *testing.T) {
	orig := ListQuery{Search: "rate limiting", Category: "DevOps", Page: 3}
	back := ParseEncoded(orig.Encode())
	assert.Equal(t, orig, back)
}

func TestParse_MalformedPageAndCategory(t *testing.T) {
	q := ParseEncoded("page=abc&category=Nonsense")
	assert.Equal(t, 1, q.PageOrDefault())
	assert.Empty(t, q.Category)
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory("Security"))
	assert.False(t, ValidCategory(All))
	assert.False(t, ValidCategory(""))
	assert.Len(t, Categories, 9)
}
