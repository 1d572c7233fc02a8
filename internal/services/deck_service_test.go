package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/lucasmv/studydeck/internal/errors"
	"github.com/lucasmv/studydeck/internal/models"
	"github.com/lucasmv/studydeck/internal/services"
	"github.com/lucasmv/studydeck/internal/testutil/mocks"
)

func TestCreateDeck(t *testing.T) {
	ctx := context.Background()
	decks := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(decks)

	decks.On("Insert", ctx, mock.MatchedBy(func(d models.Deck) bool {
		return d.Title == "Spanish vocab" && d.UserID == "user-1" && d.ID != ""
	})).Return(nil)

	deck, err := svc.CreateDeck(ctx, "user-1", "  Spanish vocab  ", "Basics", false)
	require.NoError(t, err)
	assert.Equal(t, "Spanish vocab", deck.Title)
	assert.Equal(t, "Basics", deck.Description)
	assert.NotEmpty(t, deck.ID)

	decks.AssertExpectations(t)
}

func TestCreateDeckEmptyTitle(t *testing.T) {
	ctx := context.Background()
	decks := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(decks)

	_, err := svc.CreateDeck(ctx, "user-1", "   ", "", false)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	decks.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestGetDeckVisibility(t *testing.T) {
	ctx := context.Background()
	decks := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(decks)

	private := &models.Deck{ID: "deck-1", UserID: "user-1", Title: "Private"}
	public := &models.Deck{ID: "deck-2", UserID: "user-1", Title: "Public", IsPublic: true}
	decks.On("Get", ctx, "deck-1").Return(private, nil)
	decks.On("Get", ctx, "deck-2").Return(public, nil)

	// Owner sees a private deck.
	deck, err := svc.GetDeck(ctx, "deck-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Private", deck.Title)

	// A stranger does not.
	_, err = svc.GetDeck(ctx, "deck-1", "user-2")
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeForbidden, appErr.Code)

	// Anyone sees a public deck.
	deck, err = svc.GetDeck(ctx, "deck-2", "user-2")
	require.NoError(t, err)
	assert.Equal(t, "Public", deck.Title)
}

func TestDeleteDeckOwnerOnly(t *testing.T) {
	ctx := context.Background()
	decks := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(decks)

	deck := &models.Deck{ID: "deck-1", UserID: "user-1", Title: "Spanish vocab", IsPublic: true}
	decks.On("Get", ctx, "deck-1").Return(deck, nil)

	// Public does not mean deletable by anyone.
	err := svc.DeleteDeck(ctx, "deck-1", "user-2")
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeForbidden, appErr.Code)
	decks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	decks.On("Delete", ctx, "deck-1").Return(nil)
	require.NoError(t, svc.DeleteDeck(ctx, "deck-1", "user-1"))
	decks.AssertExpectations(t)
}

func TestDeleteDeckNotFound(t *testing.T) {
	ctx := context.Background()
	decks := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(decks)

	decks.On("Get", ctx, "deck-1").Return(nil, nil)

	err := svc.DeleteDeck(ctx, "deck-1", "user-1")
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
}
