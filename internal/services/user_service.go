package services

import (
	"context"
	"strings"

	"github.com/lucasmv/studydeck/internal/errors"
	"github.com/lucasmv/studydeck/internal/logger"
	"github.com/lucasmv/studydeck/internal/models"
	"github.com/lucasmv/studydeck/internal/repository"
)

// UserService handles user-related business logic
type UserService interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpsertUser(ctx context.Context, username string) (*models.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return users, nil
}

func (s *userService) UpsertUser(ctx context.Context, username string) (*models.User, error) {
	log := logger.FromContext(ctx)

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, errors.NewValidationError("username", "must not be empty")
	}

	user, err := s.users.Upsert(ctx, username)
	if err != nil {
		log.Error("failed to upsert user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Debug("user ready: id=%s, username=%s", user.ID, user.Username)
	return user, nil
}
