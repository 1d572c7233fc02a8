package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lucasmv/studydeck/internal/logger"
)

type createDeckRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=2000"`
	IsPublic    bool   `json:"is_public"`
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	decks, err := s.DeckService.ListDecks(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"decks": decks})
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	user := userFromContext(r.Context())

	var req createDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.CreateDeck(r.Context(), user.ID, req.Title, req.Description, req.IsPublic)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("deck created: id=%s", deck.ID)
	respondJSON(w, r, http.StatusCreated, deck)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	deck, err := s.DeckService.GetDeck(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	user := userFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.DeckService.DeleteDeck(r.Context(), id, user.ID); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("deck deleted: id=%s", id)
	respondJSON(w, r, http.StatusNoContent, nil)
}
