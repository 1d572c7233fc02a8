package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lucasmv/studydeck/internal/logger"
)

type gradeRequest struct {
	// The interactive UI sends 1 (hard), 3 (good) or 5 (easy); the
	// scheduler accepts the full 0-5 range and clamps anything outside.
	Quality int `json:"quality"`
}

func (s *Server) handleStartStudy(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	user := userFromContext(r.Context())
	deckID := chi.URLParam(r, "id")

	view, err := s.StudyService.StartSession(r.Context(), deckID, user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("study session started: id=%s", view.SessionID)
	respondJSON(w, r, http.StatusCreated, view)
}

func (s *Server) handleStudyState(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	view, err := s.StudyService.SessionState(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	view, err := s.StudyService.Reveal(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	user := userFromContext(r.Context())

	var req gradeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.StudyService.Grade(r.Context(), chi.URLParam(r, "id"), user.ID, req.Quality)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if view.Complete {
		log.Info("study session complete: id=%s", view.SessionID)
	}
	respondJSON(w, r, http.StatusOK, view)
}
