package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lucasmv/studydeck/internal/logger"
)

type createFlashcardRequest struct {
	Front string `json:"front" validate:"required,min=1,max=5000"`
	Back  string `json:"back" validate:"required,min=1,max=5000"`
}

func (s *Server) handleListFlashcards(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	cards, err := s.FlashcardService.ListFlashcards(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleCreateFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	user := userFromContext(r.Context())

	var req createFlashcardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.FlashcardService.CreateFlashcard(r.Context(), chi.URLParam(r, "id"), user.ID, req.Front, req.Back)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("flashcard created: id=%s", card.ID)
	respondJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleGetFlashcard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	card, err := s.FlashcardService.GetFlashcard(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleDeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	user := userFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.FlashcardService.DeleteFlashcard(r.Context(), id, user.ID); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("flashcard deleted: id=%s", id)
	respondJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	reviews, err := s.FlashcardService.ListReviews(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"reviews": reviews})
}
