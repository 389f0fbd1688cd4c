// Package store owns all durable state: the genre catalog mirror, the
// per-user progress cursor, and the per-user-per-genre rating records.
// No other package mutates these entities.
package store

import (
	"context"
	"time"
)

// Rating is one user's record for one genre. ScoreA, ScoreB and Comment
// are optional; nil means the field was never set.
type Rating struct {
	UserID    int64     `json:"user_id"`
	GenreID   int       `json:"genre_id"`
	ScoreA    *int      `json:"score_a"`
	ScoreB    *int      `json:"score_b"`
	Special   bool      `json:"special"`
	Ambiguous bool      `json:"ambiguous"`
	Comment   *string   `json:"comment"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingPatch carries a partial update. Only non-nil fields are applied;
// everything else keeps its stored value. This replaces the "absent means
// don't touch" calling convention with an explicit structure.
type RatingPatch struct {
	ScoreA    *int
	ScoreB    *int
	Special   *bool
	Ambiguous *bool
	Comment   *string
}

// Flag names a toggleable rating flag.
type Flag string

const (
	// FlagSpecial excludes the genre from scoring and ranking.
	FlagSpecial Flag = "special"
	// FlagAmbiguous switches the scoring weights.
	FlagAmbiguous Flag = "ambiguous"
)

// Store defines all persistence operations.
//
// UpsertRating and ToggleFlag must be atomic per (user, genre) key:
// concurrent writes to the same key may race on commit order but must
// never lose individual fields to interleaved read-merge-write cycles.
// The store performs no score-range validation; that contract belongs to
// the request boundary.
type Store interface {
	// SeedGenres populates the catalog mirror once, iff it is empty.
	SeedGenres(ctx context.Context, names []string) error
	// GenreCount reports the size of the persisted catalog mirror.
	GenreCount(ctx context.Context) (int, error)

	// GetOrInitProgress returns the user's cursor, creating it at 0 on
	// first access. Concurrent first access must yield a single cursor.
	GetOrInitProgress(ctx context.Context, userID int64) (int64, error)
	// AdvanceProgress overwrites the cursor unconditionally
	// (last-writer-wins). The index is unbounded; callers take it modulo
	// the catalog size at read time.
	AdvanceProgress(ctx context.Context, userID int64, newIndex int64) error

	GetRating(ctx context.Context, userID int64, genreID int) (Rating, bool, error)
	// UpsertRating merges the patch onto the stored record (or onto
	// defaults) and writes the result with a fresh timestamp.
	UpsertRating(ctx context.Context, userID int64, genreID int, patch RatingPatch) (Rating, error)
	// ToggleFlag negates one flag at the storage layer. A missing record
	// is created with the flag set.
	ToggleFlag(ctx context.Context, userID int64, genreID int, flag Flag) (Rating, error)
	// FetchAllRatings returns the user's ratings ordered by genre id,
	// stable across a single call for pagination safety.
	FetchAllRatings(ctx context.Context, userID int64) ([]Rating, error)

	// Ping probes the backend for readiness checks.
	Ping(ctx context.Context) error
}
