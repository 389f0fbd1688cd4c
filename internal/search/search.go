// Package search matches genre names against a substring query.
package search

import (
	"strings"

	"github.com/example/genrelog/internal/catalog"
	"github.com/example/genrelog/internal/paging"
)

// Result is one page of matches in catalog order.
type Result struct {
	Matches []catalog.Genre `json:"matches"`
	Total   int             `json:"total"`
	Nav     paging.Nav      `json:"nav"`
}

// Match returns every genre whose name contains the query,
// case-insensitively, in catalog order. The query is assumed non-blank;
// the request boundary rejects empty queries before this point.
func Match(cat *catalog.Catalog, query string) []catalog.Genre {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []catalog.Genre
	for _, g := range cat.All() {
		if strings.Contains(strings.ToLower(g.Name), q) {
			out = append(out, g)
		}
	}
	return out
}

// PageOf paginates a match set.
func PageOf(matches []catalog.Genre, page, size int) Result {
	items, _, _ := paging.Slice(matches, page, size)
	return Result{
		Matches: items,
		Total:   len(matches),
		Nav:     paging.Navigate(page, len(matches), size),
	}
}
