package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/lucasmv/studydeck/internal/logger"
	"github.com/lucasmv/studydeck/internal/models"
	"github.com/lucasmv/studydeck/internal/repository"
)

type flashcardRepository struct {
	db *sql.DB
}

// NewFlashcardRepository creates a new FlashcardRepository implementation
func NewFlashcardRepository(db *sql.DB) repository.FlashcardRepository {
	return &flashcardRepository{db: db}
}

const flashcardColumns = "id, deck_id, front, back, repetitions, ease_factor, interval_days, next_review_at, last_reviewed_at, created_at, updated_at"

func scanFlashcard(row interface{ Scan(...any) error }) (models.Flashcard, error) {
	var c models.Flashcard
	var lastReviewed sql.NullTime
	err := row.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.Repetitions, &c.EaseFactor, &c.IntervalDays, &c.NextReviewAt, &lastReviewed, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	if lastReviewed.Valid {
		t := lastReviewed.Time
		c.LastReviewedAt = &t
	}
	return c, nil
}

func (r *flashcardRepository) Insert(ctx context.Context, c models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("inserting flashcard: id=%s, deck_id=%s", c.ID, c.DeckID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO flashcards (id, deck_id, front, back, repetitions, ease_factor, interval_days, next_review_at, last_reviewed_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.ID, c.DeckID, c.Front, c.Back, c.Repetitions, c.EaseFactor, c.IntervalDays, c.NextReviewAt, c.LastReviewedAt, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		log.Error("failed to insert flashcard: %v", err)
	}
	return err
}

func (r *flashcardRepository) Get(ctx context.Context, id string) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("getting flashcard: id=%s", id)

	row := r.db.QueryRowContext(ctx, `SELECT `+flashcardColumns+` FROM flashcards WHERE id = ?`, id)
	c, err := scanFlashcard(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("flashcard not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *flashcardRepository) ListByDeck(ctx context.Context, deckID string) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("listing flashcards: deck_id=%s", deckID)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+flashcardColumns+`
FROM flashcards
WHERE deck_id = ?
ORDER BY created_at ASC
`, deckID)
	if err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			log.Error("failed to scan flashcard row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d flashcards", len(cards))
	return cards, rows.Err()
}

func (r *flashcardRepository) DueBatch(ctx context.Context, deckID string, limit int) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("fetching due batch: deck_id=%s, limit=%d", deckID, limit)

	query := sqlBuilder.
		Select(flashcardColumns).
		From("flashcards").
		Where(squirrel.Eq{"deck_id": deckID}).
		Where(squirrel.Expr("(last_reviewed_at IS NULL OR next_review_at <= CURRENT_TIMESTAMP)")).
		// Never-reviewed cards first, then the longest-overdue.
		OrderBy("last_reviewed_at IS NULL DESC", "next_review_at ASC").
		Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build due batch query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query due batch: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			log.Error("failed to scan flashcard row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d due flashcards", len(cards))
	return cards, rows.Err()
}

func (r *flashcardRepository) RecordReview(ctx context.Context, c models.Flashcard, rec models.Review) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("recording review: flashcard_id=%s, quality=%d, interval=%d, ease=%.2f", c.ID, rec.Quality, c.IntervalDays, c.EaseFactor)

	// One logical review event: scheduling update and history append
	// commit or roll back together.
	return tx(ctx, r.db, func(t *sql.Tx) error {
		res, err := t.ExecContext(ctx, `
UPDATE flashcards
SET repetitions = ?, ease_factor = ?, interval_days = ?, next_review_at = ?, last_reviewed_at = ?, updated_at = ?
WHERE id = ?
`, c.Repetitions, c.EaseFactor, c.IntervalDays, c.NextReviewAt, c.LastReviewedAt, rec.ReviewedAt, c.ID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		_, err = t.ExecContext(ctx, `
INSERT INTO reviews (id, flashcard_id, user_id, quality, reviewed_at)
VALUES (?, ?, ?, ?, ?)
`, rec.ID, rec.FlashcardID, rec.UserID, rec.Quality, rec.ReviewedAt)
		return err
	})
}

func (r *flashcardRepository) ListReviews(ctx context.Context, flashcardID string, limit int) ([]models.Review, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("listing reviews: flashcard_id=%s, limit=%d", flashcardID, limit)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, flashcard_id, user_id, quality, reviewed_at
FROM reviews
WHERE flashcard_id = ?
ORDER BY reviewed_at DESC
LIMIT ?
`, flashcardID, limit)
	if err != nil {
		log.Error("failed to list reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var rec models.Review
		if err := rows.Scan(&rec.ID, &rec.FlashcardID, &rec.UserID, &rec.Quality, &rec.ReviewedAt); err != nil {
			log.Error("failed to scan review row: %v", err)
			return nil, err
		}
		reviews = append(reviews, rec)
	}
	log.Debug("found %d reviews", len(reviews))
	return reviews, rows.Err()
}

func (r *flashcardRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("deleting flashcard: id=%s", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete flashcard: %v", err)
	}
	return err
}
