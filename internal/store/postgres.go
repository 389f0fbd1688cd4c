package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the production Postgres-backed implementation.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the tables on first boot. Idempotent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS genres (
    id   INTEGER PRIMARY KEY,
    name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS progress (
    user_id BIGINT PRIMARY KEY,
    idx     BIGINT NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS ratings (
    user_id    BIGINT  NOT NULL,
    genre_id   INTEGER NOT NULL,
    score1     INTEGER,
    score2     INTEGER,
    flag1      BOOLEAN NOT NULL DEFAULT FALSE,
    flag2      BOOLEAN NOT NULL DEFAULT FALSE,
    comment    TEXT,
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (user_id, genre_id)
);`
	if _, err := s.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SeedGenres fills the genres table iff it is empty. The check and the
// inserts share one transaction so two booting processes cannot both seed.
func (s *PostgresStore) SeedGenres(ctx context.Context, names []string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("seed genres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM genres`).Scan(&count); err != nil {
		return fmt.Errorf("seed genres: count: %w", err)
	}
	if count > 0 {
		return tx.Commit(ctx)
	}

	for id, name := range names {
		if _, err := tx.Exec(ctx,
			`INSERT INTO genres (id, name) VALUES ($1, $2)`, id, name); err != nil {
			return fmt.Errorf("seed genres: insert %d: %w", id, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("seed genres: commit: %w", err)
	}
	return nil
}

func (s *PostgresStore) GenreCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM genres`).Scan(&count); err != nil {
		return 0, fmt.Errorf("genre count: %w", err)
	}
	return count, nil
}

// GetOrInitProgress uses an idempotent upsert so concurrent first access
// by the same user resolves to a single row without a duplicate-key error.
func (s *PostgresStore) GetOrInitProgress(ctx context.Context, userID int64) (int64, error) {
	const q = `
INSERT INTO progress (user_id, idx) VALUES ($1, 0)
ON CONFLICT (user_id) DO UPDATE SET idx = progress.idx
RETURNING idx`
	var idx int64
	if err := s.db.QueryRow(ctx, q, userID).Scan(&idx); err != nil {
		return 0, fmt.Errorf("get progress: %w", err)
	}
	return idx, nil
}

func (s *PostgresStore) AdvanceProgress(ctx context.Context, userID int64, newIndex int64) error {
	const q = `
INSERT INTO progress (user_id, idx) VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET idx = EXCLUDED.idx`
	if _, err := s.db.Exec(ctx, q, userID, newIndex); err != nil {
		return fmt.Errorf("advance progress: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetRating(ctx context.Context, userID int64, genreID int) (Rating, bool, error) {
	const q = `
SELECT score1, score2, flag1, flag2, comment, updated_at
FROM ratings WHERE user_id = $1 AND genre_id = $2`
	r := Rating{UserID: userID, GenreID: genreID}
	err := s.db.QueryRow(ctx, q, userID, genreID).
		Scan(&r.ScoreA, &r.ScoreB, &r.Special, &r.Ambiguous, &r.Comment, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rating{}, false, nil
		}
		return Rating{}, false, fmt.Errorf("get rating: %w", err)
	}
	return r, true, nil
}

// UpsertRating merges the patch in a single statement: NULL parameters
// fall back to the stored column, so two concurrent patches to the same
// key cannot erase each other's fields.
func (s *PostgresStore) UpsertRating(ctx context.Context, userID int64, genreID int, patch RatingPatch) (Rating, error) {
	const q = `
INSERT INTO ratings (user_id, genre_id, score1, score2, flag1, flag2, comment, updated_at)
VALUES ($1, $2, $3, $4, COALESCE($5, FALSE), COALESCE($6, FALSE), $7, $8)
ON CONFLICT (user_id, genre_id) DO UPDATE SET
  score1     = COALESCE($3, ratings.score1),
  score2     = COALESCE($4, ratings.score2),
  flag1      = COALESCE($5, ratings.flag1),
  flag2      = COALESCE($6, ratings.flag2),
  comment    = COALESCE($7, ratings.comment),
  updated_at = $8
RETURNING score1, score2, flag1, flag2, comment, updated_at`

	r := Rating{UserID: userID, GenreID: genreID}
	err := s.db.QueryRow(ctx, q,
		userID, genreID, patch.ScoreA, patch.ScoreB, patch.Special, patch.Ambiguous,
		patch.Comment, time.Now().UTC(),
	).Scan(&r.ScoreA, &r.ScoreB, &r.Special, &r.Ambiguous, &r.Comment, &r.UpdatedAt)
	if err != nil {
		return Rating{}, fmt.Errorf("upsert rating: %w", err)
	}
	return r, nil
}

// ToggleFlag negates the flag inside the upsert itself, so concurrent
// toggles serialise at the row and never read a stale value.
func (s *PostgresStore) ToggleFlag(ctx context.Context, userID int64, genreID int, flag Flag) (Rating, error) {
	var q string
	switch flag {
	case FlagSpecial:
		q = `
INSERT INTO ratings (user_id, genre_id, flag1, updated_at)
VALUES ($1, $2, TRUE, $3)
ON CONFLICT (user_id, genre_id) DO UPDATE SET
  flag1 = NOT ratings.flag1, updated_at = $3
RETURNING score1, score2, flag1, flag2, comment, updated_at`
	case FlagAmbiguous:
		q = `
INSERT INTO ratings (user_id, genre_id, flag2, updated_at)
VALUES ($1, $2, TRUE, $3)
ON CONFLICT (user_id, genre_id) DO UPDATE SET
  flag2 = NOT ratings.flag2, updated_at = $3
RETURNING score1, score2, flag1, flag2, comment, updated_at`
	default:
		return Rating{}, fmt.Errorf("toggle flag: unknown flag %q", flag)
	}

	r := Rating{UserID: userID, GenreID: genreID}
	err := s.db.QueryRow(ctx, q, userID, genreID, time.Now().UTC()).
		Scan(&r.ScoreA, &r.ScoreB, &r.Special, &r.Ambiguous, &r.Comment, &r.UpdatedAt)
	if err != nil {
		return Rating{}, fmt.Errorf("toggle flag: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) FetchAllRatings(ctx context.Context, userID int64) ([]Rating, error) {
	const q = `
SELECT genre_id, score1, score2, flag1, flag2, comment, updated_at
FROM ratings WHERE user_id = $1 ORDER BY genre_id ASC`
	rows, err := s.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch ratings: %w", err)
	}
	defer rows.Close()

	var out []Rating
	for rows.Next() {
		r := Rating{UserID: userID}
		if err := rows.Scan(&r.GenreID, &r.ScoreA, &r.ScoreB, &r.Special, &r.Ambiguous, &r.Comment, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("fetch ratings: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch ratings: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
