package repository

import (
	"context"
	"time"

	"github.com/lucasmv/studydeck/internal/models"
)

// UserRepository handles user data access
type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Upsert(ctx context.Context, username string) (*models.User, error)
}

// DeckRepository handles deck data access
type DeckRepository interface {
	Insert(ctx context.Context, deck models.Deck) error
	Get(ctx context.Context, id string) (*models.Deck, error)
	List(ctx context.Context, userID string) ([]models.DeckSummary, error)
	Touch(ctx context.Context, id string, t time.Time) error
	Delete(ctx context.Context, id string) error
}

// FlashcardRepository handles flashcard and review-log data access
type FlashcardRepository interface {
	Insert(ctx context.Context, card models.Flashcard) error
	Get(ctx context.Context, id string) (*models.Flashcard, error)
	ListByDeck(ctx context.Context, deckID string) ([]models.Flashcard, error)
	// DueBatch returns due cards for one deck, never-reviewed cards
	// first, then by ascending due date, capped at limit.
	DueBatch(ctx context.Context, deckID string, limit int) ([]models.Flashcard, error)
	// RecordReview applies one graded review: the card's scheduling
	// update and the appended review record are written in a single
	// transaction.
	RecordReview(ctx context.Context, card models.Flashcard, review models.Review) error
	ListReviews(ctx context.Context, flashcardID string, limit int) ([]models.Review, error)
	Delete(ctx context.Context, id string) error
}

// StatsRepository handles study statistics data access
type StatsRepository interface {
	Overview(ctx context.Context, userID string) (*models.StudyOverview, error)
	DailyReviews(ctx context.Context, userID string, days int) ([]models.DailyReviewStat, error)
	DeckStat(ctx context.Context, deckID string) (*models.DeckStat, error)
	// RefreshDeckStat recomputes and caches the per-deck aggregates.
	// Runs in the background after reviews and card mutations.
	RefreshDeckStat(ctx context.Context, deckID string) error
}
