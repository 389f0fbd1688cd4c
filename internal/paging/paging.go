// Package paging slices ordered sequences into fixed-size pages with
// bounds-safe navigation. Pagination state is never stored: every call
// takes the requested page and returns a fresh, fully clamped view.
package paging

// Nav describes the navigation state around the current page.
type Nav struct {
	Page       int  `json:"page"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// TotalPages returns the page count for n items, never less than 1 so an
// empty sequence still renders as a single empty page.
func TotalPages(n, size int) int {
	if size < 1 {
		size = 1
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Clamp forces page into [0, TotalPages-1].
func Clamp(page, n, size int) int {
	last := TotalPages(n, size) - 1
	if page < 0 {
		return 0
	}
	if page > last {
		return last
	}
	return page
}

// Prev steps one page back, floor-clamped at 0.
func Prev(page int) int {
	if page <= 0 {
		return 0
	}
	return page - 1
}

// Next steps one page forward, ceiling-clamped at the last page.
func Next(page, n, size int) int {
	return Clamp(page+1, n, size)
}

// Slice returns the items of the given page plus the half-open offset
// range [start, end) they occupy in the full sequence. The page is
// clamped first, so the result never exceeds the sequence bounds.
func Slice[T any](items []T, page, size int) ([]T, int, int) {
	if size < 1 {
		size = 1
	}
	page = Clamp(page, len(items), size)
	start := page * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], start, end
}

// Navigate computes the navigation state for a (clamped) page.
func Navigate(page, n, size int) Nav {
	total := TotalPages(n, size)
	page = Clamp(page, n, size)
	return Nav{
		Page:       page,
		TotalPages: total,
		HasPrev:    page > 0,
		HasNext:    page < total-1,
	}
}
