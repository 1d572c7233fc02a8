package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lucasmv/studydeck/internal/logger"
	"github.com/lucasmv/studydeck/internal/models"
	"github.com/lucasmv/studydeck/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Overview(ctx context.Context, userID string) (*models.StudyOverview, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("fetching study overview: user_id=%s", userID)

	var o models.StudyOverview
	err := r.db.QueryRowContext(ctx, `
SELECT
    COUNT(DISTINCT d.id),
    COUNT(DISTINCT f.id),
    COUNT(DISTINCT CASE WHEN f.last_reviewed_at IS NULL OR f.next_review_at <= CURRENT_TIMESTAMP THEN f.id END),
    COUNT(DISTINCT CASE WHEN rv.reviewed_at >= DATE('now') THEN rv.id END)
FROM decks d
LEFT JOIN flashcards f ON f.deck_id = d.id
LEFT JOIN reviews rv ON rv.flashcard_id = f.id
WHERE d.user_id = ?
`, userID).Scan(&o.TotalDecks, &o.TotalCards, &o.CardsToReview, &o.CardsReviewedToday)
	if err != nil {
		log.Error("failed to fetch study overview: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *statsRepository) DailyReviews(ctx context.Context, userID string, days int) ([]models.DailyReviewStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("fetching daily reviews: user_id=%s, days=%d", userID, days)

	rows, err := r.db.QueryContext(ctx, `
SELECT DATE(reviewed_at), COUNT(*)
FROM reviews
WHERE user_id = ?
AND reviewed_at >= DATE('now', ?)
GROUP BY DATE(reviewed_at)
ORDER BY DATE(reviewed_at) ASC
`, userID, fmt.Sprintf("-%d days", days))
	if err != nil {
		log.Error("failed to query daily reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.DailyReviewStat
	for rows.Next() {
		var s models.DailyReviewStat
		if err := rows.Scan(&s.Day, &s.Count); err != nil {
			log.Error("failed to scan daily review row: %v", err)
			return nil, err
		}
		stats = append(stats, s)
	}
	log.Debug("found %d daily review buckets", len(stats))
	return stats, rows.Err()
}

func (r *statsRepository) DeckStat(ctx context.Context, deckID string) (*models.DeckStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("fetching deck stat: deck_id=%s", deckID)

	var s models.DeckStat
	err := r.db.QueryRowContext(ctx, `
SELECT deck_id, total_cards, due_cards, total_reviews, avg_ease, avg_quality, refreshed_at
FROM deck_stats_cache
WHERE deck_id = ?
`, deckID).Scan(&s.DeckID, &s.TotalCards, &s.DueCards, &s.TotalReviews, &s.AvgEase, &s.AvgQuality, &s.RefreshedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no cached stats for deck: deck_id=%s", deckID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to fetch deck stat: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *statsRepository) RefreshDeckStat(ctx context.Context, deckID string) error {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("refreshing deck stat: deck_id=%s", deckID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO deck_stats_cache (deck_id, total_cards, due_cards, total_reviews, avg_ease, avg_quality, refreshed_at)
SELECT
    d.id,
    COUNT(DISTINCT f.id),
    COUNT(DISTINCT CASE WHEN f.last_reviewed_at IS NULL OR f.next_review_at <= CURRENT_TIMESTAMP THEN f.id END),
    COUNT(DISTINCT rv.id),
    COALESCE(AVG(f.ease_factor), 0),
    COALESCE(AVG(rv.quality), 0),
    CURRENT_TIMESTAMP
FROM decks d
LEFT JOIN flashcards f ON f.deck_id = d.id
LEFT JOIN reviews rv ON rv.flashcard_id = f.id
WHERE d.id = ?
GROUP BY d.id
ON CONFLICT(deck_id) DO UPDATE SET
    total_cards = excluded.total_cards,
    due_cards = excluded.due_cards,
    total_reviews = excluded.total_reviews,
    avg_ease = excluded.avg_ease,
    avg_quality = excluded.avg_quality,
    refreshed_at = excluded.refreshed_at
`, deckID)
	if err != nil {
		log.Error("failed to refresh deck stat: %v", err)
	}
	return err
}
