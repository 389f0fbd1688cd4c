// Package service wires the store, catalog, scoring, ranking and search
// engines behind the operations the HTTP layer consumes. A Service is
// constructed once at startup and passed everywhere by reference; there
// is no ambient shared state.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/genrelog/internal/catalog"
	"github.com/example/genrelog/internal/events"
	"github.com/example/genrelog/internal/ranking"
	"github.com/example/genrelog/internal/search"
	"github.com/example/genrelog/internal/store"
)

// ErrNotFound means the genre id is outside the loaded catalog.
var ErrNotFound = errors.New("genre not found")

// ErrEmptyQuery rejects a blank search query; blank means the caller
// forgot the input, not that everything matches.
var ErrEmptyQuery = errors.New("empty search query")

type Service struct {
	store    store.Store
	cat      *catalog.Catalog
	events   *events.Publisher
	log      *zap.Logger
	pageSize int
}

func New(st store.Store, cat *catalog.Catalog, pub *events.Publisher, log *zap.Logger, pageSize int) *Service {
	if pageSize < 1 {
		pageSize = 15
	}
	return &Service{store: st, cat: cat, events: pub, log: log, pageSize: pageSize}
}

// NextItem resolves the user's current catalog position and advances the
// cursor by one. The stored index grows without bound; the position is
// its value modulo the catalog size, so users cycle through the catalog
// indefinitely. Two concurrent calls by the same user may serve the same
// genre (last-writer-wins on the cursor).
func (s *Service) NextItem(ctx context.Context, userID int64) (catalog.Genre, error) {
	idx, err := s.store.GetOrInitProgress(ctx, userID)
	if err != nil {
		return catalog.Genre{}, fmt.Errorf("next item: %w", err)
	}
	pos := int(idx % int64(s.cat.Len()))
	g, ok := s.cat.Get(pos)
	if !ok {
		return catalog.Genre{}, fmt.Errorf("next item: position %d out of catalog", pos)
	}
	if err := s.store.AdvanceProgress(ctx, userID, idx+1); err != nil {
		return catalog.Genre{}, fmt.Errorf("next item: %w", err)
	}
	return g, nil
}

// ItemByID resolves a genre by id.
func (s *Service) ItemByID(genreID int) (catalog.Genre, error) {
	g, ok := s.cat.Get(genreID)
	if !ok {
		return catalog.Genre{}, ErrNotFound
	}
	return g, nil
}

// RatingView returns the user's rating for a genre, if any.
func (s *Service) RatingView(ctx context.Context, userID int64, genreID int) (store.Rating, bool, error) {
	if _, ok := s.cat.Get(genreID); !ok {
		return store.Rating{}, false, ErrNotFound
	}
	return s.store.GetRating(ctx, userID, genreID)
}

// SubmitRating applies a partial rating update. Score-range validation is
// the caller's contract; the service only checks the genre exists.
func (s *Service) SubmitRating(ctx context.Context, userID int64, genreID int, patch store.RatingPatch) (store.Rating, error) {
	if _, ok := s.cat.Get(genreID); !ok {
		return store.Rating{}, ErrNotFound
	}
	r, err := s.store.UpsertRating(ctx, userID, genreID, patch)
	if err != nil {
		return store.Rating{}, err
	}
	s.events.Publish(events.SubjectRatingUpdated, userID, genreID)
	return r, nil
}

// ToggleFlag negates one of the two flags.
func (s *Service) ToggleFlag(ctx context.Context, userID int64, genreID int, flag store.Flag) (store.Rating, error) {
	if _, ok := s.cat.Get(genreID); !ok {
		return store.Rating{}, ErrNotFound
	}
	r, err := s.store.ToggleFlag(ctx, userID, genreID, flag)
	if err != nil {
		return store.Rating{}, err
	}
	s.events.Publish(events.SubjectFlagToggled, userID, genreID)
	return r, nil
}

// Search returns one page of catalog matches for a non-blank query.
func (s *Service) Search(query string, page int) (search.Result, error) {
	if strings.TrimSpace(query) == "" {
		return search.Result{}, ErrEmptyQuery
	}
	return search.PageOf(search.Match(s.cat, query), page, s.pageSize), nil
}

// RankingView returns one page of the user's ranked genres.
func (s *Service) RankingView(ctx context.Context, userID int64, order ranking.Order, page int) (ranking.Page, error) {
	ratings, err := s.store.FetchAllRatings(ctx, userID)
	if err != nil {
		return ranking.Page{}, fmt.Errorf("ranking view: %w", err)
	}
	entries := ranking.Build(ratings, s.cat)
	return ranking.PageOf(entries, order, page, s.pageSize), nil
}

// Ready probes the store for the readiness endpoint.
func (s *Service) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
