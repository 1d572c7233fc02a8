package models

import "time"

// SessionStats is the running tally for one study session.
type SessionStats struct {
	Total  int `json:"total"`
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// StudyOverview aggregates a user's study activity across all decks.
type StudyOverview struct {
	TotalDecks         int `json:"total_decks"`
	TotalCards         int `json:"total_cards"`
	CardsToReview      int `json:"cards_to_review"`
	CardsReviewedToday int `json:"cards_reviewed_today"`
}

// DeckStat is the cached per-deck aggregate refreshed in the background.
type DeckStat struct {
	DeckID       string    `json:"deck_id"`
	TotalCards   int       `json:"total_cards"`
	DueCards     int       `json:"due_cards"`
	TotalReviews int       `json:"total_reviews"`
	AvgEase      float64   `json:"avg_ease"`
	AvgQuality   float64   `json:"avg_quality"`
	RefreshedAt  time.Time `json:"refreshed_at"`
}

// DailyReviewStat is one day's review count, used for the activity heatmap.
type DailyReviewStat struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}
