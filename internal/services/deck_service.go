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
)

// DeckService handles deck-related business logic
type DeckService interface {
	CreateDeck(ctx context.Context, userID, title, description string, isPublic bool) (*models.Deck, error)
	GetDeck(ctx context.Context, id, userID string) (*models.Deck, error)
	ListDecks(ctx context.Context, userID string) ([]models.DeckSummary, error)
	DeleteDeck(ctx context.Context, id, userID string) error
}

type deckService struct {
	decks repository.DeckRepository
}

// NewDeckService creates a new DeckService
func NewDeckService(decks repository.DeckRepository) DeckService {
	return &deckService{decks: decks}
}

func (s *deckService) CreateDeck(ctx context.Context, userID, title, description string, isPublic bool) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewValidationError("title", "must not be empty")
	}

	now := time.Now()
	deck := models.Deck{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(description),
		IsPublic:    isPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.decks.Insert(ctx, deck); err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("deck created: id=%s, title=%s", deck.ID, deck.Title)
	return &deck, nil
}

// GetDeck returns the deck if the user owns it or it is public.
func (s *deckService) GetDeck(ctx context.Context, id, userID string) (*models.Deck, error) {
	deck, err := s.decks.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", id)
	}
	if deck.UserID != userID && !deck.IsPublic {
		return nil, errors.NewForbiddenError("deck is private")
	}
	return deck, nil
}

func (s *deckService) ListDecks(ctx context.Context, userID string) ([]models.DeckSummary, error) {
	decks, err := s.decks.List(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, id, userID string) error {
	log := logger.FromContext(ctx)

	deck, err := s.decks.Get(ctx, id)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if deck == nil {
		return errors.NewNotFoundError("deck", id)
	}
	if deck.UserID != userID {
		return errors.NewForbiddenError("only the owner can delete a deck")
	}
	if err := s.decks.Delete(ctx, id); err != nil {
		log.Error("failed to delete deck: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("deck deleted: id=%s", id)
	return nil
}
