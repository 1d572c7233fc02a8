package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lucasmv/studydeck/internal/logger"
	"github.com/lucasmv/studydeck/internal/models"
	"github.com/lucasmv/studydeck/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%s", id)

	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, username, created_at
FROM users
WHERE id = ?
`, id).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("listing users")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, username, created_at
FROM users
ORDER BY created_at ASC
`)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.CreatedAt); err != nil {
			log.Error("failed to scan user row: %v", err)
			return nil, err
		}
		users = append(users, u)
	}
	log.Debug("found %d users", len(users))
	return users, rows.Err()
}

func (r *userRepository) Upsert(ctx context.Context, username string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("upserting user: username=%s", username)

	var u models.User
	err := r.db.QueryRowContext(ctx, `
INSERT INTO users (id, username)
VALUES (?, ?)
ON CONFLICT(username) DO UPDATE SET username = excluded.username
RETURNING id, username, created_at
`, uuid.NewString(), username).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if err != nil {
		log.Error("failed to upsert user: %v", err)
		return nil, err
	}
	log.Debug("user upserted: id=%s", u.ID)
	return &u, nil
}
