package models

import "time"

type Deck struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeckSummary is a deck with its card counts, as shown on the deck list.
type DeckSummary struct {
	Deck
	TotalCards int `json:"total_cards"`
	DueCards   int `json:"due_cards"`
}
