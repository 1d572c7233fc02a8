package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/lucasmv/studydeck/internal/errors"
	"github.com/lucasmv/studydeck/internal/models"
	"github.com/lucasmv/studydeck/internal/services"
	"github.com/lucasmv/studydeck/internal/session"
	"github.com/lucasmv/studydeck/internal/testutil/mocks"
)

func dueCard(id string) models.Flashcard {
	now := time.Now()
	return models.Flashcard{
		ID:     id,
		DeckID: "deck-1",
		Front:  "hola",
		Back:   "hello",
		SchedulingState: models.SchedulingState{
			EaseFactor:   2.5,
			NextReviewAt: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func ownedDeck() *models.Deck {
	return &models.Deck{ID: "deck-1", UserID: "user-1", Title: "Spanish vocab"}
}

func newStudyService(cards *mocks.MockFlashcardRepository, decks *mocks.MockDeckRepository) (services.StudyService, *session.Manager) {
	sessions := session.NewManager(time.Hour)
	svc := services.NewStudyService(cards, decks, nil, sessions, nil, 20)
	return svc, sessions
}

func TestStartSession(t *testing.T) {
	ctx := context.Background()
	cards := new(mocks.MockFlashcardRepository)
	decks := new(mocks.MockDeckRepository)
	svc, _ := newStudyService(cards, decks)

	decks.On("Get", ctx, "deck-1").Return(ownedDeck(), nil)
	cards.On("DueBatch", ctx, "deck-1", 20).Return([]models.Flashcard{dueCard("card-1"), dueCard("card-2")}, nil)

	view, err := svc.StartSession(ctx, "deck-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, 2, view.BatchSize)
	assert.False(t, view.Complete)
	require.NotNil(t, view.Card)
	assert.Equal(t, "card-1", view.Card.ID)
	assert.False(t, view.Revealed)

	cards.AssertExpectations(t)
	decks.AssertExpectations(t)
}

func TestStartSessionEmptyBatch(t *testing.T) {
	ctx := context.Background()
	cards := new(mocks.MockFlashcardRepository)
	decks := new(mocks.MockDeckRepository)
	svc, _ := newStudyService(cards, decks)

	decks.On("Get", ctx, "deck-1").Return(ownedDeck(), nil)
	cards.On("DueBatch", ctx, "deck-1", 20).Return([]models.Flashcard{}, nil)

	view, err := svc.StartSession(ctx, "deck-1", "user-1")
	require.NoError(t, err)
	assert.True(t, view.Complete)
	assert.Nil(t, view.Card)
	assert.Equal(t, 0, view.Stats.Total)
}

func TestStartSessionDeckNotFound(t *testing.T) {
	ctx := context.Background()
	cards := new(mocks.MockFlashcardRepository)
	decks := new(mocks.MockDeckRepository)
	svc, _ := newStudyService(cards, decks)

	decks.On("Get", ctx, "deck-1").Return(nil, nil)

	_, err := svc.StartSession(ctx, "deck-1", "user-1")
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
	cards.AssertNotCalled(t, "DueBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartSessionNotOwner(t *testing.T) {
	ctx := context.Background()
	cards := new(mocks.MockFlashcardRepository)
	decks := new(mocks.MockDeckRepository)
	svc, _ := newStudyService(cards, decks)

	decks.On("Get", ctx, "deck-1").Return(ownedDeck(), nil)

	_, err := svc.StartSession(ctx, "deck-1", "user-2")
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeForbidden, appErr.Code)
}

func TestStartSessionFetchFailure(t *testing.T) {
	ctx := context.Background()
	cards := new(mocks.MockFlashcardRepository)
	decks := new(mocks.MockDeckRepository)
	svc, sessions := newStudyService(cards, decks)

	decks.On("Get", ctx, "deck-1").Return(ownedDeck(), nil)
	cards.On("DueBatch", ctx, "deck-1", 20).Return(nil, fmt.Errorf("disk on fire"))

	_, err := svc.StartSession(ctx, "deck-1", "user-1")
	require.Error(t, err)
	// No session registered on failure.
	assert.Equal(t, 0, sessions.Count())
}

func TestGradeFlow(t *testing.T) {
	ctx := context.Background()
	cards := new(mocks.MockFlashcardRepository)
	decks := new(mocks.MockDeckRepository)
	svc, _ := newStudyService(cards, decks)

	decks.On("Get", ctx, "deck-1").Return(ownedDeck(), nil)
	cards.On("DueBatch", ctx, "deck-1", 20).Return([]models.Flashcard{dueCard("card-1")}, nil)
	cards.On("RecordReview", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	view, err := svc.StartSession(ctx, "deck-1", "user-1")
	require.NoError(t, err)

	// Grading before reveal is rejected.
	_, err = svc.Grade(ctx, view.SessionID, "user-1", 5)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeBadRequest, appErr.Code)

	revealed, err := svc.Reveal(ctx, view.SessionID, "user-1")
	require.NoError(t, err)
	assert.True(t, revealed.Revealed)

	graded, err := svc.Grade(ctx, view.SessionID, "user-1", 5)
	require.NoError(t, err)
	assert.True(t, graded.Complete)
	assert.Equal(t, 1, graded.Stats.Total)
	assert.Equal(t, 1, graded.Stats.Easy)

	// Session is done, another grade conflicts.
	_, err = svc.Grade(ctx, view.SessionID, "user-1", 5)
	require.Error(t, err)
	appErr, ok = err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeConflict, appErr.Code)

	cards.AssertExpectations(t)
}

func TestGradePersistenceFailure(t *testing.T) {
	ctx := context.Background()
	cards := new(mocks.MockFlashcardRepository)
	decks := new(mocks.MockDeckRepository)
	svc, _ := newStudyService(cards, decks)

	decks.On("Get", ctx, "deck-1").Return(ownedDeck(), nil)
	cards.On("DueBatch", ctx, "deck-1", 20).Return([]models.Flashcard{dueCard("card-1")}, nil)
	cards.On("RecordReview", mock.Anything, mock.Anything, mock.Anything).Return(fmt.Errorf("db locked")).Once()
	cards.On("RecordReview", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	view, err := svc.StartSession(ctx, "deck-1", "user-1")
	require.NoError(t, err)

	_, err = svc.Reveal(ctx, view.SessionID, "user-1")
	require.NoError(t, err)

	_, err = svc.Grade(ctx, view.SessionID, "user-1", 5)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInternal, appErr.Code)

	// The session still awaits the grade, retrying succeeds.
	graded, err := svc.Grade(ctx, view.SessionID, "user-1", 5)
	require.NoError(t, err)
	assert.True(t, graded.Complete)

	cards.AssertExpectations(t)
}

func TestSessionAccessControl(t *testing.T) {
	ctx := context.Background()
	cards := new(mocks.MockFlashcardRepository)
	decks := new(mocks.MockDeckRepository)
	svc, _ := newStudyService(cards, decks)

	decks.On("Get", ctx, "deck-1").Return(ownedDeck(), nil)
	cards.On("DueBatch", ctx, "deck-1", 20).Return([]models.Flashcard{dueCard("card-1")}, nil)

	view, err := svc.StartSession(ctx, "deck-1", "user-1")
	require.NoError(t, err)

	_, err = svc.SessionState(ctx, view.SessionID, "user-2")
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeForbidden, appErr.Code)

	_, err = svc.SessionState(ctx, "unknown-session", "user-1")
	require.Error(t, err)
	appErr, ok = err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
}
