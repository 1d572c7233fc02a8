package services

import (
	"context"

	"github.com/lucasmv/studydeck/internal/errors"
	"github.com/lucasmv/studydeck/internal/models"
	"github.com/lucasmv/studydeck/internal/repository"
)

// StatsService handles study statistics
type StatsService interface {
	Overview(ctx context.Context, userID string) (*models.StudyOverview, error)
	DailyReviews(ctx context.Context, userID string, days int) ([]models.DailyReviewStat, error)
	DeckStat(ctx context.Context, deckID, userID string) (*models.DeckStat, error)
}

type statsService struct {
	stats repository.StatsRepository
	decks repository.DeckRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(stats repository.StatsRepository, decks repository.DeckRepository) StatsService {
	return &statsService{stats: stats, decks: decks}
}

func (s *statsService) Overview(ctx context.Context, userID string) (*models.StudyOverview, error) {
	overview, err := s.stats.Overview(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return overview, nil
}

func (s *statsService) DailyReviews(ctx context.Context, userID string, days int) ([]models.DailyReviewStat, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	stats, err := s.stats.DailyReviews(ctx, userID, days)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}

func (s *statsService) DeckStat(ctx context.Context, deckID, userID string) (*models.DeckStat, error) {
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

	stat, err := s.stats.DeckStat(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if stat == nil {
		// Cache not built yet: compute it inline once.
		if err := s.stats.RefreshDeckStat(ctx, deckID); err != nil {
			return nil, errors.NewInternalError(err)
		}
		stat, err = s.stats.DeckStat(ctx, deckID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
	}
	return stat, nil
}
