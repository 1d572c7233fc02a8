package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(s.userMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/users", s.handleListUsers)
		r.Post("/users", s.handleSelectUser)
		r.Get("/me", s.handleMe)

		r.Get("/decks", s.handleListDecks)
		r.Post("/decks", s.handleCreateDeck)
		r.Get("/decks/{id}", s.handleGetDeck)
		r.Delete("/decks/{id}", s.handleDeleteDeck)
		r.Get("/decks/{id}/cards", s.handleListFlashcards)
		r.Post("/decks/{id}/cards", s.handleCreateFlashcard)
		r.Get("/decks/{id}/stats", s.handleDeckStats)
		r.Post("/decks/{id}/study", s.handleStartStudy)

		r.Get("/cards/{id}", s.handleGetFlashcard)
		r.Delete("/cards/{id}", s.handleDeleteFlashcard)
		r.Get("/cards/{id}/reviews", s.handleListReviews)

		r.Get("/study/{id}", s.handleStudyState)
		r.Post("/study/{id}/reveal", s.handleReveal)
		r.Post("/study/{id}/grade", s.handleGrade)

		r.Get("/stats", s.handleOverview)
		r.Get("/stats/daily", s.handleDailyReviews)
	})

	return r
}
