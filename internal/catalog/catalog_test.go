package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNew_AssignsContiguousIDs(t *testing.T) {
	c, err := New([]string{"Jazz", "Pop", "Metal"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 genres, got %d", c.Len())
	}
	for i, want := range []string{"Jazz", "Pop", "Metal"} {
		g, ok := c.Get(i)
		if !ok {
			t.Fatalf("expected genre at id %d", i)
		}
		if g.ID != i || g.Name != want {
			t.Fatalf("genre %d: got {%d %q}, want {%d %q}", i, g.ID, g.Name, i, want)
		}
	}
}

func TestNew_TrimsAndDedupes(t *testing.T) {
	c, err := New([]string{"  Jazz ", "", "Jazz", "Pop", "   "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 genres after trim+dedupe, got %d", c.Len())
	}
	g, _ := c.Get(0)
	if g.Name != "Jazz" {
		t.Fatalf("expected trimmed 'Jazz', got %q", g.Name)
	}
}

func TestNew_EmptyIsFatal(t *testing.T) {
	_, err := New([]string{"", "  "})
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestGet_OutOfRange(t *testing.T) {
	c, _ := New([]string{"Jazz"})
	if _, ok := c.Get(-1); ok {
		t.Fatal("expected no genre at -1")
	}
	if _, ok := c.Get(1); ok {
		t.Fatal("expected no genre at len")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genres.txt")
	if err := os.WriteFile(path, []byte("Jazz\n\nPop\nMetal\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 genres, got %d", c.Len())
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
