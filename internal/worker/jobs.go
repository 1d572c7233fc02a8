package worker

import (
	"context"

	"github.com/lucasmv/studydeck/internal/repository"
)

// RefreshDeckStatsJob recomputes one deck's cached aggregates. Submitted
// after reviews and card mutations so reads never pay for the aggregation.
type RefreshDeckStatsJob struct {
	StatsRepo repository.StatsRepository
	DeckID    string
}

func (j *RefreshDeckStatsJob) Name() string { return "refresh_deck_stats" }

func (j *RefreshDeckStatsJob) Run(ctx context.Context) error {
	return j.StatsRepo.RefreshDeckStat(ctx, j.DeckID)
}
