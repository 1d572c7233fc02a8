package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/lucasmv/studydeck/internal/repository"
	"github.com/lucasmv/studydeck/internal/repository/sqlite"
	"github.com/lucasmv/studydeck/internal/testutil"
)

type StatsRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.StatsRepository
}

func (s *StatsRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewStatsRepository(s.db)
}

func (s *StatsRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

// seedDeck creates a user, one deck, two cards (one due, one not) and a
// single review recorded now.
func (s *StatsRepositorySuite) seedDeck() {
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `INSERT INTO users (id, username) VALUES (?, ?)`, "user-1", "testuser")
	s.Require().NoError(err)

	_, err = s.db.ExecContext(ctx, `INSERT INTO decks (id, user_id, title) VALUES (?, ?, ?)`, "deck-1", "user-1", "Spanish vocab")
	s.Require().NoError(err)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO flashcards (id, deck_id, front, back, ease_factor, next_review_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, "card-1", "deck-1", "hola", "hello", 2.5, now)
	s.Require().NoError(err)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO flashcards (id, deck_id, front, back, ease_factor, next_review_at, last_reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, "card-2", "deck-1", "adios", "goodbye", 2.7, now.Add(48*time.Hour), now)
	s.Require().NoError(err)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, flashcard_id, user_id, quality, reviewed_at)
		VALUES (?, ?, ?, ?, ?)
	`, "review-1", "card-2", "user-1", 4, now)
	s.Require().NoError(err)
}

func (s *StatsRepositorySuite) TestOverview() {
	ctx := context.Background()
	s.seedDeck()

	overview, err := s.repo.Overview(ctx, "user-1")
	s.Require().NoError(err)
	s.Require().NotNil(overview)
	s.Assert().Equal(1, overview.TotalDecks)
	s.Assert().Equal(2, overview.TotalCards)
	s.Assert().Equal(1, overview.CardsToReview)
	s.Assert().Equal(1, overview.CardsReviewedToday)
}

func (s *StatsRepositorySuite) TestOverviewEmptyUser() {
	ctx := context.Background()

	overview, err := s.repo.Overview(ctx, "nobody")
	s.Require().NoError(err)
	s.Require().NotNil(overview)
	s.Assert().Equal(0, overview.TotalDecks)
	s.Assert().Equal(0, overview.TotalCards)
}

func (s *StatsRepositorySuite) TestRefreshAndDeckStat() {
	ctx := context.Background()
	s.seedDeck()

	// Nothing cached yet.
	stat, err := s.repo.DeckStat(ctx, "deck-1")
	s.Require().NoError(err)
	s.Assert().Nil(stat)

	s.Require().NoError(s.repo.RefreshDeckStat(ctx, "deck-1"))

	stat, err = s.repo.DeckStat(ctx, "deck-1")
	s.Require().NoError(err)
	s.Require().NotNil(stat)
	s.Assert().Equal("deck-1", stat.DeckID)
	s.Assert().Equal(2, stat.TotalCards)
	s.Assert().Equal(1, stat.DueCards)
	s.Assert().Equal(1, stat.TotalReviews)
	s.Assert().InDelta(2.6, stat.AvgEase, 0.001)
	s.Assert().InDelta(4.0, stat.AvgQuality, 0.001)

	// Refreshing again overwrites the row instead of failing.
	s.Require().NoError(s.repo.RefreshDeckStat(ctx, "deck-1"))
}

func (s *StatsRepositorySuite) TestDailyReviews() {
	ctx := context.Background()
	s.seedDeck()

	stats, err := s.repo.DailyReviews(ctx, "user-1", 7)
	s.Require().NoError(err)
	s.Require().Len(stats, 1)
	s.Assert().Equal(1, stats[0].Count)
	s.Assert().NotEmpty(stats[0].Day)
}

func TestStatsRepositorySuite(t *testing.T) {
	suite.Run(t, new(StatsRepositorySuite))
}
