package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/genrelog/internal/metrics"
	"github.com/example/genrelog/internal/platform/api"
	"github.com/example/genrelog/internal/platform/auth"
	"github.com/example/genrelog/internal/platform/httpserver"
	"github.com/example/genrelog/internal/service"
	"github.com/example/genrelog/internal/store"
)

const maxCommentLen = 1000

// ratingPatchRequest mirrors store.RatingPatch on the wire: absent
// fields keep their stored value.
type ratingPatchRequest struct {
	ScoreA    *int    `json:"score_a"`
	ScoreB    *int    `json:"score_b"`
	Special   *bool   `json:"special"`
	Ambiguous *bool   `json:"ambiguous"`
	Comment   *string `json:"comment"`
}

type ratingViewResponse struct {
	Rated  bool          `json:"rated"`
	Rating *store.Rating `json:"rating,omitempty"`
}

// GetRating returns the caller's rating for a genre, if any.
func GetRating(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "UNAUTHENTICATED", "authentication required", rid)
			return
		}
		genreID, ok := parseGenreID(w, r, rid)
		if !ok {
			return
		}

		rating, found, err := svc.RatingView(r.Context(), userID, genreID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				api.NotFound(w, "GENRE_NOT_FOUND", "no genre with that id", rid)
				return
			}
			api.Internal(w, rid)
			return
		}
		resp := ratingViewResponse{Rated: found}
		if found {
			resp.Rating = &rating
		}
		api.WriteJSON(w, http.StatusOK, resp)
	}
}

// PatchRating applies a partial rating update for the caller.
// Scores must be integers in [0,10]; this is the only place that rule is
// enforced — the store deliberately persists whatever it is given.
func PatchRating(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "UNAUTHENTICATED", "authentication required", rid)
			return
		}
		genreID, ok := parseGenreID(w, r, rid)
		if !ok {
			return
		}

		var req ratingPatchRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "Invalid JSON", rid, nil)
			return
		}

		patch, errCode, errMsg := buildPatch(req)
		if errCode != "" {
			api.BadRequest(w, errCode, errMsg, rid, nil)
			return
		}

		rating, err := svc.SubmitRating(r.Context(), userID, genreID, patch)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				api.NotFound(w, "GENRE_NOT_FOUND", "no genre with that id", rid)
				return
			}
			api.Internal(w, rid)
			return
		}
		metrics.RatingsWritten.Inc()
		api.WriteJSON(w, http.StatusOK, rating)
	}
}

// ToggleFlag negates one of the two per-rating flags for the caller.
func ToggleFlag(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "UNAUTHENTICATED", "authentication required", rid)
			return
		}
		genreID, ok := parseGenreID(w, r, rid)
		if !ok {
			return
		}

		var flag store.Flag
		switch strings.TrimSpace(chi.URLParam(r, "flag")) {
		case string(store.FlagSpecial):
			flag = store.FlagSpecial
		case string(store.FlagAmbiguous):
			flag = store.FlagAmbiguous
		default:
			api.BadRequest(w, "INVALID_FLAG", "flag must be 'special' or 'ambiguous'", rid, nil)
			return
		}

		rating, err := svc.ToggleFlag(r.Context(), userID, genreID, flag)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				api.NotFound(w, "GENRE_NOT_FOUND", "no genre with that id", rid)
				return
			}
			api.Internal(w, rid)
			return
		}
		metrics.FlagsToggled.WithLabelValues(string(flag)).Inc()
		api.WriteJSON(w, http.StatusOK, rating)
	}
}

// buildPatch validates the request and converts it to a store patch.
// Returns a non-empty error code on validation failure.
func buildPatch(req ratingPatchRequest) (store.RatingPatch, string, string) {
	if req.ScoreA != nil && (*req.ScoreA < 0 || *req.ScoreA > 10) {
		return store.RatingPatch{}, "INVALID_SCORE", "score_a must be between 0 and 10"
	}
	if req.ScoreB != nil && (*req.ScoreB < 0 || *req.ScoreB > 10) {
		return store.RatingPatch{}, "INVALID_SCORE", "score_b must be between 0 and 10"
	}

	patch := store.RatingPatch{
		ScoreA:    req.ScoreA,
		ScoreB:    req.ScoreB,
		Special:   req.Special,
		Ambiguous: req.Ambiguous,
	}
	if req.Comment != nil {
		c := strings.TrimSpace(*req.Comment)
		if len(c) > maxCommentLen {
			return store.RatingPatch{}, "COMMENT_TOO_LONG", "comment must be at most 1000 characters"
		}
		// A blank comment means "nothing to say", not "erase".
		if c != "" {
			patch.Comment = &c
		}
	}
	return patch, "", ""
}
