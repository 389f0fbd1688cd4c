// Package catalog holds the ordered, immutable list of genres the service
// tracks. Genres are identified by their zero-based position in the source
// file; ids are stable for as long as the file does not change.
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmptyCatalog means the source file contained no usable entries.
// Startup must fail on it; the service cannot run without a catalog.
var ErrEmptyCatalog = errors.New("catalog: no genres loaded")

// Genre is a single catalog entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	genres []Genre
}

// New builds a catalog from the given names, trimming whitespace and
// dropping blanks and duplicates while preserving first-seen order.
func New(names []string) (*Catalog, error) {
	seen := make(map[string]struct{}, len(names))
	genres := make([]Genre, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		genres = append(genres, Genre{ID: len(genres), Name: name})
	}
	if len(genres) == 0 {
		return nil, ErrEmptyCatalog
	}
	return &Catalog{genres: genres}, nil
}

// LoadFile reads a newline-delimited genre list.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		names = append(names, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return New(names)
}

// Len reports the number of genres.
func (c *Catalog) Len() int { return len(c.genres) }

// Get returns the genre at id, or false when id is out of range.
func (c *Catalog) Get(id int) (Genre, bool) {
	if id < 0 || id >= len(c.genres) {
		return Genre{}, false
	}
	return c.genres[id], true
}

// Names returns the genre names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.genres))
	for i, g := range c.genres {
		out[i] = g.Name
	}
	return out
}

// All returns the genres in catalog order. The slice is shared; callers
// must not mutate it.
func (c *Catalog) All() []Genre { return c.genres }
