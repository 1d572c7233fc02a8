package models

import "time"

// Review is a single graded outcome of one card. Append-only: the
// scheduler never reads these back, they exist for history and stats.
type Review struct {
	ID          string    `json:"id"`
	FlashcardID string    `json:"flashcard_id"`
	UserID      string    `json:"user_id"`
	Quality     int       `json:"quality"`
	ReviewedAt  time.Time `json:"reviewed_at"`
}
