package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// InMemoryStore mirrors the Postgres semantics behind a mutex. It backs
// development runs without a database and the unit tests of every
// component that consumes a Store.
type InMemoryStore struct {
	mu       sync.RWMutex
	genres   []string
	progress map[int64]int64
	ratings  map[int64]map[int]Rating
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		progress: make(map[int64]int64),
		ratings:  make(map[int64]map[int]Rating),
	}
}

func (s *InMemoryStore) SeedGenres(_ context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.genres) > 0 {
		return nil
	}
	s.genres = append([]string(nil), names...)
	return nil
}

func (s *InMemoryStore) GenreCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.genres), nil
}

func (s *InMemoryStore) GetOrInitProgress(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.progress[userID]
	if !ok {
		s.progress[userID] = 0
	}
	return idx, nil
}

func (s *InMemoryStore) AdvanceProgress(_ context.Context, userID int64, newIndex int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[userID] = newIndex
	return nil
}

func (s *InMemoryStore) GetRating(_ context.Context, userID int64, genreID int) (Rating, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.ratings[userID][genreID]
	return r, ok, nil
}

func (s *InMemoryStore) UpsertRating(_ context.Context, userID int64, genreID int, patch RatingPatch) (Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.ratings[userID][genreID]
	r.UserID = userID
	r.GenreID = genreID
	if patch.ScoreA != nil {
		v := *patch.ScoreA
		r.ScoreA = &v
	}
	if patch.ScoreB != nil {
		v := *patch.ScoreB
		r.ScoreB = &v
	}
	if patch.Special != nil {
		r.Special = *patch.Special
	}
	if patch.Ambiguous != nil {
		r.Ambiguous = *patch.Ambiguous
	}
	if patch.Comment != nil {
		v := *patch.Comment
		r.Comment = &v
	}
	r.UpdatedAt = time.Now().UTC()

	s.put(userID, genreID, r)
	return r, nil
}

func (s *InMemoryStore) ToggleFlag(_ context.Context, userID int64, genreID int, flag Flag) (Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.ratings[userID][genreID]
	r.UserID = userID
	r.GenreID = genreID
	switch flag {
	case FlagSpecial:
		r.Special = !r.Special
	case FlagAmbiguous:
		r.Ambiguous = !r.Ambiguous
	default:
		return Rating{}, fmt.Errorf("toggle flag: unknown flag %q", flag)
	}
	r.UpdatedAt = time.Now().UTC()

	s.put(userID, genreID, r)
	return r, nil
}

func (s *InMemoryStore) FetchAllRatings(_ context.Context, userID int64) ([]Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byGenre := s.ratings[userID]
	out := make([]Rating, 0, len(byGenre))
	for _, r := range byGenre {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GenreID < out[j].GenreID })
	return out, nil
}

func (s *InMemoryStore) Ping(_ context.Context) error { return nil }

// put assumes the write lock is held.
func (s *InMemoryStore) put(userID int64, genreID int, r Rating) {
	if s.ratings[userID] == nil {
		s.ratings[userID] = make(map[int]Rating)
	}
	s.ratings[userID][genreID] = r
}
