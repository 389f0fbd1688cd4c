// Package ranking builds a scored, sortable view over a user's ratings.
package ranking

import (
	"sort"

	"github.com/example/genrelog/internal/catalog"
	"github.com/example/genrelog/internal/paging"
	"github.com/example/genrelog/internal/scoring"
	"github.com/example/genrelog/internal/store"
)

// Order selects the sort direction.
type Order string

const (
	// OrderDesc puts the best scores first.
	OrderDesc Order = "desc"
	// OrderAsc puts the worst scores first.
	OrderAsc Order = "asc"
)

// ParseOrder normalises a raw order string; anything unknown reports false.
func ParseOrder(raw string) (Order, bool) {
	switch Order(raw) {
	case OrderDesc:
		return OrderDesc, true
	case OrderAsc:
		return OrderAsc, true
	}
	return "", false
}

// Entry is one rankable genre with its computed score.
type Entry struct {
	Score   float64 `json:"score"`
	GenreID int     `json:"genre_id"`
	Name    string  `json:"name"`
}

// RankedEntry adds the user-facing global rank, continuous across pages.
type RankedEntry struct {
	Rank int `json:"rank"`
	Entry
}

// Page is one rendered slice of the ranking.
type Page struct {
	Entries []RankedEntry `json:"entries"`
	Total   int           `json:"total"`
	Order   Order         `json:"order"`
	Nav     paging.Nav    `json:"nav"`
}

// Build reduces ratings to rankable entries, dropping every record whose
// score is absent (special-flagged or incomplete). Entries keep the fetch
// order of the input, which later tie-breaks equal scores.
func Build(ratings []store.Rating, cat *catalog.Catalog) []Entry {
	out := make([]Entry, 0, len(ratings))
	for _, r := range ratings {
		sc, ok := scoring.Compute(r.ScoreA, r.ScoreB, r.Special, r.Ambiguous)
		if !ok {
			continue
		}
		g, ok := cat.Get(r.GenreID)
		if !ok {
			// Rating for an id beyond the loaded catalog; nothing to show.
			continue
		}
		out = append(out, Entry{Score: sc, GenreID: g.ID, Name: g.Name})
	}
	return out
}

// Sort orders entries in place. The sort is stable so equal scores retain
// their fetch order under both directions.
func Sort(entries []Entry, order Order) {
	if order == OrderAsc {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score < entries[j].Score })
		return
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
}

// PageOf sorts a copy of entries and returns the requested page with
// global ranks 1+start..  The input slice is not mutated.
func PageOf(entries []Entry, order Order, page, size int) Page {
	sorted := append([]Entry(nil), entries...)
	Sort(sorted, order)

	items, start, _ := paging.Slice(sorted, page, size)
	ranked := make([]RankedEntry, len(items))
	for i, e := range items {
		ranked[i] = RankedEntry{Rank: start + i + 1, Entry: e}
	}
	return Page{
		Entries: ranked,
		Total:   len(sorted),
		Order:   order,
		Nav:     paging.Navigate(page, len(sorted), size),
	}
}
