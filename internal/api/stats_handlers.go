package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	overview, err := s.StatsService.Overview(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, overview)
}

func (s *Server) handleDailyReviews(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	stats, err := s.StatsService.DailyReviews(r.Context(), user.ID, days)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"daily": stats})
}

func (s *Server) handleDeckStats(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	stat, err := s.StatsService.DeckStat(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, stat)
}
