package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/lucasmv/studydeck/internal/models"
)

// MockDeckRepository is a mock implementation of repository.DeckRepository
type MockDeckRepository struct {
	mock.Mock
}

func (m *MockDeckRepository) Insert(ctx context.Context, deck models.Deck) error {
	args := m.Called(ctx, deck)
	return args.Error(0)
}

func (m *MockDeckRepository) Get(ctx context.Context, id string) (*models.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckRepository) List(ctx context.Context, userID string) ([]models.DeckSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DeckSummary), args.Error(1)
}

func (m *MockDeckRepository) Touch(ctx context.Context, id string, t time.Time) error {
	args := m.Called(ctx, id, t)
	return args.Error(0)
}

func (m *MockDeckRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
