package models

import "time"

// SchedulingState holds the per-card spaced-repetition fields.
// Repetitions counts consecutive successful reviews since the last lapse.
// A card that has never been reviewed has a nil LastReviewedAt and is
// always considered due.
type SchedulingState struct {
	Repetitions    int        `json:"repetitions"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
}

type Flashcard struct {
	ID     string `json:"id"`
	DeckID string `json:"deck_id"`
	Front  string `json:"front"`
	Back   string `json:"back"`
	SchedulingState
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
