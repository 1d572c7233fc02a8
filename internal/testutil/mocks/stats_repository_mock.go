package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/lucasmv/studydeck/internal/models"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Overview(ctx context.Context, userID string) (*models.StudyOverview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudyOverview), args.Error(1)
}

func (m *MockStatsRepository) DailyReviews(ctx context.Context, userID string, days int) ([]models.DailyReviewStat, error) {
	args := m.Called(ctx, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailyReviewStat), args.Error(1)
}

func (m *MockStatsRepository) DeckStat(ctx context.Context, deckID string) (*models.DeckStat, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeckStat), args.Error(1)
}

func (m *MockStatsRepository) RefreshDeckStat(ctx context.Context, deckID string) error {
	args := m.Called(ctx, deckID)
	return args.Error(0)
}
