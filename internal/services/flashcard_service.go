package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lucasmv/studydeck/internal/errors"
	"github.com/lucasmv/studydeck/internal/logger"
	"github.com/lucasmv/studydeck/internal/models"
	"github.com/lucasmv/studydeck/internal/repository"
	"github.com/lucasmv/studydeck/internal/srs"
	"github.com/lucasmv/studydeck/internal/worker"
)

// FlashcardService handles flashcard-related business logic
type FlashcardService interface {
	CreateFlashcard(ctx context.Context, deckID, userID, front, back string) (*models.Flashcard, error)
	GetFlashcard(ctx context.Context, id, userID string) (*models.Flashcard, error)
	ListFlashcards(ctx context.Context, deckID, userID string) ([]models.Flashcard, error)
	ListReviews(ctx context.Context, flashcardID, userID string) ([]models.Review, error)
	DeleteFlashcard(ctx context.Context, id, userID string) error
}

type flashcardService struct {
	cards      repository.FlashcardRepository
	decks      repository.DeckRepository
	stats      repository.StatsRepository
	statsPool  *worker.Pool
	reviewsMax int
}

// NewFlashcardService creates a new FlashcardService
func NewFlashcardService(cards repository.FlashcardRepository, decks repository.DeckRepository, stats repository.StatsRepository, statsPool *worker.Pool, reviewsMax int) FlashcardService {
	if reviewsMax <= 0 {
		reviewsMax = 50
	}
	return &flashcardService{
		cards:      cards,
		decks:      decks,
		stats:      stats,
		statsPool:  statsPool,
		reviewsMax: reviewsMax,
	}
}

// deckForWrite loads a deck and checks the user may add or remove cards:
// the owner always can, anyone can on a public deck.
func (s *flashcardService) deckForWrite(ctx context.Context, deckID, userID string) (*models.Deck, error) {
	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	if deck.UserID != userID && !deck.IsPublic {
		return nil, errors.NewForbiddenError("deck is private")
	}
	return deck, nil
}

func (s *flashcardService) CreateFlashcard(ctx context.Context, deckID, userID, front, back string) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)

	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if front == "" {
		return nil, errors.NewValidationError("front", "must not be empty")
	}
	if back == "" {
		return nil, errors.NewValidationError("back", "must not be empty")
	}

	if _, err := s.deckForWrite(ctx, deckID, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	card := models.Flashcard{
		ID:              uuid.NewString(),
		DeckID:          deckID,
		Front:           front,
		Back:            back,
		SchedulingState: srs.NewState(now),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.cards.Insert(ctx, card); err != nil {
		log.Error("failed to create flashcard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	_ = s.decks.Touch(ctx, deckID, now)
	s.enqueueStatsRefresh(deckID)

	log.Info("flashcard created: id=%s, deck_id=%s", card.ID, deckID)
	return &card, nil
}

func (s *flashcardService) GetFlashcard(ctx context.Context, id, userID string) (*models.Flashcard, error) {
	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("flashcard", id)
	}
	if _, err := s.deckForWrite(ctx, card.DeckID, userID); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *flashcardService) ListFlashcards(ctx context.Context, deckID, userID string) ([]models.Flashcard, error) {
	if _, err := s.deckForWrite(ctx, deckID, userID); err != nil {
		return nil, err
	}
	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *flashcardService) ListReviews(ctx context.Context, flashcardID, userID string) ([]models.Review, error) {
	if _, err := s.GetFlashcard(ctx, flashcardID, userID); err != nil {
		return nil, err
	}
	reviews, err := s.cards.ListReviews(ctx, flashcardID, s.reviewsMax)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return reviews, nil
}

func (s *flashcardService) DeleteFlashcard(ctx context.Context, id, userID string) error {
	log := logger.FromContext(ctx)

	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if card == nil {
		return errors.NewNotFoundError("flashcard", id)
	}
	deck, err := s.decks.Get(ctx, card.DeckID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if deck == nil || deck.UserID != userID {
		return errors.NewForbiddenError("only the deck owner can delete cards")
	}
	if err := s.cards.Delete(ctx, id); err != nil {
		log.Error("failed to delete flashcard: %v", err)
		return errors.NewInternalError(err)
	}
	s.enqueueStatsRefresh(card.DeckID)
	log.Info("flashcard deleted: id=%s", id)
	return nil
}

func (s *flashcardService) enqueueStatsRefresh(deckID string) {
	if s.statsPool == nil {
		return
	}
	s.statsPool.Submit(&worker.RefreshDeckStatsJob{StatsRepo: s.stats, DeckID: deckID})
}
