package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/example/genrelog/internal/catalog"
	"github.com/example/genrelog/internal/ranking"
	"github.com/example/genrelog/internal/store"
)

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func newTestService(t *testing.T, names ...string) *Service {
	t.Helper()
	if len(names) == 0 {
		names = []string{"Jazz", "Pop", "Metal"}
	}
	cat, err := catalog.New(names)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	st := store.NewInMemoryStore()
	if err := st.SeedGenres(context.Background(), cat.Names()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return New(st, cat, nil, zap.NewNop(), 15)
}

func TestNextItem_CyclesThroughCatalog(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// N+3 calls must yield 0..N-1 then wrap to 0,1,2.
	want := []int{0, 1, 2, 0, 1, 2}
	for i, w := range want {
		g, err := svc.NextItem(ctx, 1)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if g.ID != w {
			t.Fatalf("call %d: got genre %d, want %d", i, g.ID, w)
		}
	}
}

func TestNextItem_PerUserCursors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	g, _ := svc.NextItem(ctx, 1)
	if g.ID != 0 {
		t.Fatalf("user 1 first item: got %d", g.ID)
	}
	g, _ = svc.NextItem(ctx, 1)
	if g.ID != 1 {
		t.Fatalf("user 1 second item: got %d", g.ID)
	}
	// A different user starts from the top.
	g, _ = svc.NextItem(ctx, 2)
	if g.ID != 0 {
		t.Fatalf("user 2 first item: got %d", g.ID)
	}
}

func TestItemByID(t *testing.T) {
	svc := newTestService(t)

	g, err := svc.ItemByID(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Name != "Pop" {
		t.Fatalf("expected Pop, got %q", g.Name)
	}

	if _, err := svc.ItemByID(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.ItemByID(-1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitRating_UnknownGenre(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.SubmitRating(context.Background(), 1, 42, store.RatingPatch{ScoreA: intp(5)})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitThenToggle_ExampleScenario(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// score_a=8, score_b=6 for item 1 -> computed 7.0 at even weights.
	r, err := svc.SubmitRating(ctx, 1, 1, store.RatingPatch{ScoreA: intp(8), ScoreB: intp(6)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if *r.ScoreA != 8 || *r.ScoreB != 6 {
		t.Fatalf("unexpected record: %+v", r)
	}

	page, err := svc.RankingView(ctx, 1, ranking.OrderDesc, 0)
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if len(page.Entries) != 1 || page.Entries[0].Score != 7.0 {
		t.Fatalf("expected single entry at 7.0, got %+v", page.Entries)
	}

	// Ambiguous flag switches the weights: 0.35*8 + 0.65*6 = 6.7.
	if _, err := svc.ToggleFlag(ctx, 1, 1, store.FlagAmbiguous); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	page, _ = svc.RankingView(ctx, 1, ranking.OrderDesc, 0)
	if math.Abs(page.Entries[0].Score-6.7) > 1e-9 {
		t.Fatalf("expected 6.7 after ambiguous toggle, got %v", page.Entries[0].Score)
	}

	// Special flag excludes the genre from the ranking entirely.
	if _, err := svc.ToggleFlag(ctx, 1, 1, store.FlagSpecial); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	page, _ = svc.RankingView(ctx, 1, ranking.OrderDesc, 0)
	if len(page.Entries) != 0 {
		t.Fatalf("special genre must be excluded, got %+v", page.Entries)
	}
}

func TestSearch(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Search("az", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Total != 1 || res.Matches[0].ID != 0 || res.Matches[0].Name != "Jazz" {
		t.Fatalf("expected [(0,Jazz)], got %+v", res.Matches)
	}

	res, err = svc.Search("zzz", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Total != 0 {
		t.Fatalf("expected no matches, got %+v", res.Matches)
	}
	if res.Nav.TotalPages != 1 {
		t.Fatalf("empty result still renders one page, got %d", res.Nav.TotalPages)
	}

	if _, err := svc.Search("   ", 0); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestRankingView_OrderAndTies(t *testing.T) {
	svc := newTestService(t, "A", "B", "C", "D")
	ctx := context.Background()

	_, _ = svc.SubmitRating(ctx, 1, 0, store.RatingPatch{ScoreA: intp(4), ScoreB: intp(4)})
	_, _ = svc.SubmitRating(ctx, 1, 1, store.RatingPatch{ScoreA: intp(8), ScoreB: intp(8)})
	_, _ = svc.SubmitRating(ctx, 1, 2, store.RatingPatch{ScoreA: intp(4), ScoreB: intp(4)})

	desc, err := svc.RankingView(ctx, 1, ranking.OrderDesc, 0)
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if desc.Entries[0].GenreID != 1 {
		t.Fatalf("best first expected genre 1, got %+v", desc.Entries)
	}
	// Tied 4.0 entries keep fetch order (genre 0 before genre 2).
	if desc.Entries[1].GenreID != 0 || desc.Entries[2].GenreID != 2 {
		t.Fatalf("tie order wrong: %+v", desc.Entries)
	}

	asc, _ := svc.RankingView(ctx, 1, ranking.OrderAsc, 0)
	if asc.Entries[0].GenreID != 0 || asc.Entries[1].GenreID != 2 {
		t.Fatalf("asc tie order wrong: %+v", asc.Entries)
	}
	if asc.Entries[2].GenreID != 1 {
		t.Fatalf("worst first expected genre 1 last, got %+v", asc.Entries)
	}
	// Ranks stay continuous from 1 in both directions.
	for i, e := range asc.Entries {
		if e.Rank != i+1 {
			t.Fatalf("expected rank %d, got %d", i+1, e.Rank)
		}
	}
}

func TestStatsSummary(t *testing.T) {
	svc := newTestService(t, "A", "B", "C", "D", "E")
	ctx := context.Background()

	_, _ = svc.SubmitRating(ctx, 1, 0, store.RatingPatch{ScoreA: intp(8), ScoreB: intp(6)}) // 7.0
	_, _ = svc.SubmitRating(ctx, 1, 1, store.RatingPatch{ScoreA: intp(2), ScoreB: intp(2)}) // 2.0
	_, _ = svc.SubmitRating(ctx, 1, 2, store.RatingPatch{ScoreA: intp(9)})                  // incomplete
	_, _ = svc.ToggleFlag(ctx, 1, 3, store.FlagSpecial)                                     // excluded
	_, _ = svc.ToggleFlag(ctx, 1, 2, store.FlagAmbiguous)

	st, err := svc.StatsSummary(ctx, 1)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalRated != 4 {
		t.Fatalf("total: got %d, want 4", st.TotalRated)
	}
	if st.SpecialCount != 1 || st.EligibleCount != 3 {
		t.Fatalf("special/eligible: got %d/%d", st.SpecialCount, st.EligibleCount)
	}
	if st.AmbiguousCount != 1 {
		t.Fatalf("ambiguous: got %d", st.AmbiguousCount)
	}
	if st.ScoredCount != 2 {
		t.Fatalf("scored: got %d", st.ScoredCount)
	}
	if st.AvgScore == nil || math.Abs(*st.AvgScore-4.5) > 1e-9 {
		t.Fatalf("avg score: got %v, want 4.5", st.AvgScore)
	}
	if st.AvgScoreA == nil || math.Abs(*st.AvgScoreA-5.0) > 1e-9 {
		t.Fatalf("avg score_a: got %v, want 5.0", st.AvgScoreA)
	}
	if st.AvgScoreB == nil || math.Abs(*st.AvgScoreB-4.0) > 1e-9 {
		t.Fatalf("avg score_b: got %v, want 4.0", st.AvgScoreB)
	}
	if len(st.Top) != 2 || st.Top[0].Score != 7.0 {
		t.Fatalf("top: got %+v", st.Top)
	}
	if len(st.Bottom) != 2 || st.Bottom[0].Score != 2.0 {
		t.Fatalf("bottom must be worst-first: got %+v", st.Bottom)
	}
}

func TestStatsSummary_NoScores(t *testing.T) {
	svc := newTestService(t)
	st, err := svc.StatsSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalRated != 0 || st.AvgScore != nil {
		t.Fatalf("expected empty stats, got %+v", st)
	}
	if len(st.Top) != 0 || len(st.Bottom) != 0 {
		t.Fatalf("expected empty top/bottom, got %+v", st)
	}
}
