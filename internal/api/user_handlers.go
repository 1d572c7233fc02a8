package api

import (
	"net/http"

	"github.com/lucasmv/studydeck/internal/logger"
)

type selectUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.UserService.ListUsers(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"users": users})
}

// handleSelectUser upserts a user by username and sets the identity cookie.
func (s *Server) handleSelectUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req selectUserRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.UserService.UpsertUser(r.Context(), req.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setUserCookie(w, user.ID)
	log.Info("user selected: id=%s, username=%s", user.ID, user.Username)
	respondJSON(w, r, http.StatusOK, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, userFromContext(r.Context()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
