package service

import (
	"context"
	"fmt"

	"github.com/example/genrelog/internal/ranking"
	"github.com/example/genrelog/internal/scoring"
)

// Stats aggregates a user's rating activity. Averages are nil until at
// least one genre has a computable score.
type Stats struct {
	// TotalRated counts every stored rating record, special included.
	TotalRated int `json:"total_rated"`
	// SpecialCount counts records excluded from scoring by the special flag.
	SpecialCount int `json:"special_count"`
	// EligibleCount = TotalRated - SpecialCount.
	EligibleCount int `json:"eligible_count"`
	// AmbiguousCount counts ambiguous-flagged records among the eligible ones.
	AmbiguousCount int `json:"ambiguous_count"`
	// ScoredCount counts eligible records with both scores present.
	ScoredCount int `json:"scored_count"`

	AvgScore  *float64 `json:"avg_score"`
	AvgScoreA *float64 `json:"avg_score_a"`
	AvgScoreB *float64 `json:"avg_score_b"`

	// Top and Bottom hold up to five best and five worst scored genres.
	// Bottom is ordered worst-first.
	Top    []ranking.Entry `json:"top"`
	Bottom []ranking.Entry `json:"bottom"`
}

// StatsSummary computes the aggregate view over all of a user's ratings.
func (s *Service) StatsSummary(ctx context.Context, userID int64) (Stats, error) {
	ratings, err := s.store.FetchAllRatings(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}

	var st Stats
	st.TotalRated = len(ratings)

	var sumScore, sumA, sumB float64
	var scored []ranking.Entry

	for _, r := range ratings {
		if r.Special {
			st.SpecialCount++
			continue
		}
		st.EligibleCount++
		if r.Ambiguous {
			st.AmbiguousCount++
		}

		sc, ok := scoring.Compute(r.ScoreA, r.ScoreB, r.Special, r.Ambiguous)
		if !ok {
			continue
		}
		st.ScoredCount++
		sumScore += sc
		sumA += float64(*r.ScoreA)
		sumB += float64(*r.ScoreB)

		g, ok := s.cat.Get(r.GenreID)
		if !ok {
			continue
		}
		scored = append(scored, ranking.Entry{Score: sc, GenreID: g.ID, Name: g.Name})
	}

	if st.ScoredCount > 0 {
		n := float64(st.ScoredCount)
		avg := sumScore / n
		avgA := sumA / n
		avgB := sumB / n
		st.AvgScore = &avg
		st.AvgScoreA = &avgA
		st.AvgScoreB = &avgB
	}

	ranking.Sort(scored, ranking.OrderDesc)
	st.Top = topN(scored, 5)
	st.Bottom = bottomN(scored, 5)
	return st, nil
}

func topN(sorted []ranking.Entry, n int) []ranking.Entry {
	if len(sorted) < n {
		n = len(sorted)
	}
	return append([]ranking.Entry(nil), sorted[:n]...)
}

// bottomN returns the n lowest entries worst-first.
func bottomN(sorted []ranking.Entry, n int) []ranking.Entry {
	if len(sorted) < n {
		n = len(sorted)
	}
	out := make([]ranking.Entry, 0, n)
	for i := len(sorted) - 1; i >= len(sorted)-n; i-- {
		out = append(out, sorted[i])
	}
	return out
}
