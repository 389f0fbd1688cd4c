// Package handlers implements the HTTP command layer. All input
// validation lives here: the service and store below assume well-formed
// requests.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/genrelog/internal/platform/api"
	"github.com/example/genrelog/internal/platform/auth"
	"github.com/example/genrelog/internal/platform/httpserver"
	"github.com/example/genrelog/internal/service"
)

// NextGenre serves the caller's next genre and advances their cursor.
func NextGenre(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "UNAUTHENTICATED", "authentication required", rid)
			return
		}
		g, err := svc.NextItem(r.Context(), userID)
		if err != nil {
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, g)
	}
}

// GetGenre resolves a genre by id.
func GetGenre(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		genreID, ok := parseGenreID(w, r, rid)
		if !ok {
			return
		}
		g, err := svc.ItemByID(genreID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				api.NotFound(w, "GENRE_NOT_FOUND", "no genre with that id", rid)
				return
			}
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, g)
	}
}

// SearchGenres matches the catalog against a substring query.
// An empty (post-trim) query is a rejected input, not an empty result.
func SearchGenres(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		page, ok := parsePage(w, r, rid)
		if !ok {
			return
		}
		result, err := svc.Search(r.URL.Query().Get("q"), page)
		if err != nil {
			if errors.Is(err, service.ErrEmptyQuery) {
				api.BadRequest(w, "EMPTY_QUERY", "search query must not be empty", rid, nil)
				return
			}
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, result)
	}
}

// parseGenreID extracts and validates the genre_id path parameter,
// writing the error response itself on failure.
func parseGenreID(w http.ResponseWriter, r *http.Request, rid string) (int, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "genre_id"))
	id, err := strconv.Atoi(raw)
	if err != nil {
		api.BadRequest(w, "INVALID_GENRE_ID", "genre_id must be an integer", rid, nil)
		return 0, false
	}
	return id, true
}

// parsePage extracts the optional page query parameter (default 0).
func parsePage(w http.ResponseWriter, r *http.Request, rid string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("page"))
	if raw == "" {
		return 0, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		api.BadRequest(w, "INVALID_PAGE", "page must be a non-negative integer", rid, nil)
		return 0, false
	}
	return page, true
}
