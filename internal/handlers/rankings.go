package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/genrelog/internal/platform/api"
	"github.com/example/genrelog/internal/platform/auth"
	"github.com/example/genrelog/internal/platform/httpserver"
	"github.com/example/genrelog/internal/ranking"
	"github.com/example/genrelog/internal/service"
)

// GetRanking serves one page of the caller's ranked genres. Order and
// page travel in the query string on every request; nothing is kept
// between calls.
func GetRanking(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "UNAUTHENTICATED", "authentication required", rid)
			return
		}

		order := ranking.OrderDesc
		if raw := strings.TrimSpace(r.URL.Query().Get("order")); raw != "" {
			parsed, ok := ranking.ParseOrder(raw)
			if !ok {
				api.BadRequest(w, "INVALID_ORDER", "order must be 'asc' or 'desc'", rid, nil)
				return
			}
			order = parsed
		}
		page, ok := parsePage(w, r, rid)
		if !ok {
			return
		}

		result, err := svc.RankingView(r.Context(), userID, order, page)
		if err != nil {
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, result)
	}
}

// GetStats serves the caller's aggregate rating statistics.
func GetStats(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "UNAUTHENTICATED", "authentication required", rid)
			return
		}
		stats, err := svc.StatsSummary(r.Context(), userID)
		if err != nil {
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, stats)
	}
}

// GetUserStats lets an admin inspect any user's statistics.
func GetUserStats(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		raw := strings.TrimSpace(chi.URLParam(r, "user_id"))
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			api.BadRequest(w, "INVALID_USER_ID", "user_id must be an integer", rid, nil)
			return
		}
		stats, err := svc.StatsSummary(r.Context(), userID)
		if err != nil {
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, stats)
	}
}
