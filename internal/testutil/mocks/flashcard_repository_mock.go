package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/lucasmv/studydeck/internal/models"
)

// MockFlashcardRepository is a mock implementation of repository.FlashcardRepository
type MockFlashcardRepository struct {
	mock.Mock
}

func (m *MockFlashcardRepository) Insert(ctx context.Context, card models.Flashcard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockFlashcardRepository) Get(ctx context.Context, id string) (*models.Flashcard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flashcard), args.Error(1)
}

func (m *MockFlashcardRepository) ListByDeck(ctx context.Context, deckID string) ([]models.Flashcard, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Flashcard), args.Error(1)
}

func (m *MockFlashcardRepository) DueBatch(ctx context.Context, deckID string, limit int) ([]models.Flashcard, error) {
	args := m.Called(ctx, deckID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Flashcard), args.Error(1)
}

func (m *MockFlashcardRepository) RecordReview(ctx context.Context, card models.Flashcard, review models.Review) error {
	args := m.Called(ctx, card, review)
	return args.Error(0)
}

func (m *MockFlashcardRepository) ListReviews(ctx context.Context, flashcardID string, limit int) ([]models.Review, error) {
	args := m.Called(ctx, flashcardID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockFlashcardRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
