package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/lucasmv/studydeck/internal/models"
	"github.com/lucasmv/studydeck/internal/repository"
	"github.com/lucasmv/studydeck/internal/repository/sqlite"
	"github.com/lucasmv/studydeck/internal/testutil"
)

type FlashcardRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.FlashcardRepository
}

func (s *FlashcardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewFlashcardRepository(s.db)
}

func (s *FlashcardRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *FlashcardRepositorySuite) setupUserAndDeck() (string, string) {
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `INSERT INTO users (id, username) VALUES (?, ?)`, "user-1", "testuser")
	s.Require().NoError(err)

	_, err = s.db.ExecContext(ctx, `INSERT INTO decks (id, user_id, title) VALUES (?, ?, ?)`, "deck-1", "user-1", "Spanish vocab")
	s.Require().NoError(err)

	return "user-1", "deck-1"
}

func (s *FlashcardRepositorySuite) newCard(id, deckID string) models.Flashcard {
	now := time.Now().UTC()
	return models.Flashcard{
		ID:     id,
		DeckID: deckID,
		Front:  "hola",
		Back:   "hello",
		SchedulingState: models.SchedulingState{
			Repetitions:  0,
			EaseFactor:   2.5,
			IntervalDays: 0,
			NextReviewAt: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *FlashcardRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	_, deckID := s.setupUserAndDeck()

	card := s.newCard("card-1", deckID)
	s.Require().NoError(s.repo.Insert(ctx, card))

	got, err := s.repo.Get(ctx, "card-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("hola", got.Front)
	s.Assert().Equal("hello", got.Back)
	s.Assert().Equal(2.5, got.EaseFactor)
	s.Assert().Equal(0, got.Repetitions)
	s.Assert().Nil(got.LastReviewedAt)

	missing, err := s.repo.Get(ctx, "nope")
	s.Require().NoError(err)
	s.Assert().Nil(missing)
}

func (s *FlashcardRepositorySuite) TestListByDeck() {
	ctx := context.Background()
	_, deckID := s.setupUserAndDeck()

	first := s.newCard("card-1", deckID)
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	second := s.newCard("card-2", deckID)

	s.Require().NoError(s.repo.Insert(ctx, first))
	s.Require().NoError(s.repo.Insert(ctx, second))

	cards, err := s.repo.ListByDeck(ctx, deckID)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Assert().Equal("card-1", cards[0].ID)
	s.Assert().Equal("card-2", cards[1].ID)
}

func (s *FlashcardRepositorySuite) TestDueBatchOrdering() {
	ctx := context.Background()
	_, deckID := s.setupUserAndDeck()
	now := time.Now().UTC()

	// Reviewed and overdue.
	overdue := s.newCard("card-overdue", deckID)
	reviewed := now.Add(-72 * time.Hour)
	overdue.LastReviewedAt = &reviewed
	overdue.NextReviewAt = now.Add(-2 * time.Hour)
	s.Require().NoError(s.repo.Insert(ctx, overdue))

	// Never reviewed: due regardless of next_review_at.
	fresh := s.newCard("card-fresh", deckID)
	s.Require().NoError(s.repo.Insert(ctx, fresh))

	// Reviewed and not due yet.
	future := s.newCard("card-future", deckID)
	future.LastReviewedAt = &reviewed
	future.NextReviewAt = now.Add(48 * time.Hour)
	s.Require().NoError(s.repo.Insert(ctx, future))

	cards, err := s.repo.DueBatch(ctx, deckID, 10)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Assert().Equal("card-fresh", cards[0].ID)
	s.Assert().Equal("card-overdue", cards[1].ID)
}

func (s *FlashcardRepositorySuite) TestDueBatchLimit() {
	ctx := context.Background()
	_, deckID := s.setupUserAndDeck()

	for _, id := range []string{"card-1", "card-2", "card-3"} {
		s.Require().NoError(s.repo.Insert(ctx, s.newCard(id, deckID)))
	}

	cards, err := s.repo.DueBatch(ctx, deckID, 2)
	s.Require().NoError(err)
	s.Assert().Len(cards, 2)
}

func (s *FlashcardRepositorySuite) TestRecordReview() {
	ctx := context.Background()
	userID, deckID := s.setupUserAndDeck()
	now := time.Now().UTC()

	card := s.newCard("card-1", deckID)
	s.Require().NoError(s.repo.Insert(ctx, card))

	card.Repetitions = 1
	card.EaseFactor = 2.6
	card.IntervalDays = 1
	card.NextReviewAt = now.AddDate(0, 0, 1)
	card.LastReviewedAt = &now

	review := models.Review{
		ID:          "review-1",
		FlashcardID: card.ID,
		UserID:      userID,
		Quality:     5,
		ReviewedAt:  now,
	}
	s.Require().NoError(s.repo.RecordReview(ctx, card, review))

	got, err := s.repo.Get(ctx, card.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(1, got.Repetitions)
	s.Assert().Equal(2.6, got.EaseFactor)
	s.Assert().Equal(1, got.IntervalDays)
	s.Require().NotNil(got.LastReviewedAt)

	var count int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews WHERE flashcard_id = ?`, card.ID).Scan(&count)
	s.Require().NoError(err)
	s.Assert().Equal(1, count)
}

func (s *FlashcardRepositorySuite) TestRecordReviewMissingCardRollsBack() {
	ctx := context.Background()
	userID, _ := s.setupUserAndDeck()
	now := time.Now().UTC()

	card := s.newCard("ghost", "deck-1")
	review := models.Review{
		ID:          "review-1",
		FlashcardID: "ghost",
		UserID:      userID,
		Quality:     5,
		ReviewedAt:  now,
	}

	err := s.repo.RecordReview(ctx, card, review)
	s.Require().ErrorIs(err, sql.ErrNoRows)

	var count int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&count)
	s.Require().NoError(err)
	s.Assert().Equal(0, count)
}

func (s *FlashcardRepositorySuite) TestListReviews() {
	ctx := context.Background()
	userID, deckID := s.setupUserAndDeck()
	now := time.Now().UTC()

	card := s.newCard("card-1", deckID)
	s.Require().NoError(s.repo.Insert(ctx, card))

	for i, id := range []string{"review-1", "review-2", "review-3"} {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO reviews (id, flashcard_id, user_id, quality, reviewed_at)
			VALUES (?, ?, ?, ?, ?)
		`, id, card.ID, userID, 4, now.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(err)
	}

	reviews, err := s.repo.ListReviews(ctx, card.ID, 2)
	s.Require().NoError(err)
	s.Require().Len(reviews, 2)
	// Most recent first.
	s.Assert().Equal("review-3", reviews[0].ID)
	s.Assert().Equal("review-2", reviews[1].ID)
}

func (s *FlashcardRepositorySuite) TestDelete() {
	ctx := context.Background()
	_, deckID := s.setupUserAndDeck()

	card := s.newCard("card-1", deckID)
	s.Require().NoError(s.repo.Insert(ctx, card))
	s.Require().NoError(s.repo.Delete(ctx, card.ID))

	got, err := s.repo.Get(ctx, card.ID)
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func TestFlashcardRepositorySuite(t *testing.T) {
	suite.Run(t, new(FlashcardRepositorySuite))
}
