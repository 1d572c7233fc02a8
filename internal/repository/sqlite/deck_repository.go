package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lucasmv/studydeck/internal/logger"
	"github.com/lucasmv/studydeck/internal/models"
	"github.com/lucasmv/studydeck/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: id=%s, title=%s", d.ID, d.Title)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO decks (id, user_id, title, description, is_public, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, d.ID, d.UserID, d.Title, d.Description, d.IsPublic, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
	}
	return err
}

func (r *deckRepository) Get(ctx context.Context, id string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%s", id)

	var d models.Deck
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, title, description, is_public, created_at, updated_at
FROM decks
WHERE id = ?
`, id).Scan(&d.ID, &d.UserID, &d.Title, &d.Description, &d.IsPublic, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) List(ctx context.Context, userID string) ([]models.DeckSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: user_id=%s", userID)

	query := sqlBuilder.
		Select(
			"d.id", "d.user_id", "d.title", "d.description", "d.is_public", "d.created_at", "d.updated_at",
			"COUNT(f.id) AS total_cards",
			"COUNT(CASE WHEN f.last_reviewed_at IS NULL OR f.next_review_at <= CURRENT_TIMESTAMP THEN f.id END) AS due_cards",
		).
		From("decks d").
		LeftJoin("flashcards f ON f.deck_id = d.id").
		Where("d.user_id = ?", userID).
		GroupBy("d.id").
		OrderBy("d.updated_at DESC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build deck list query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.DeckSummary
	for rows.Next() {
		var d models.DeckSummary
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.Description, &d.IsPublic, &d.CreatedAt, &d.UpdatedAt, &d.TotalCards, &d.DueCards); err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) Touch(ctx context.Context, id string, t time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("touching deck: id=%s", id)

	_, err := r.db.ExecContext(ctx, `UPDATE decks SET updated_at = ? WHERE id = ?`, t, id)
	if err != nil {
		log.Error("failed to touch deck: %v", err)
	}
	return err
}

func (r *deckRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%s", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
	}
	return err
}
