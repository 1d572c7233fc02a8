package services

import (
	"context"
	stderrors "errors"

	"github.com/lucasmv/studydeck/internal/errors"
	"github.com/lucasmv/studydeck/internal/logger"
	"github.com/lucasmv/studydeck/internal/models"
	"github.com/lucasmv/studydeck/internal/repository"
	"github.com/lucasmv/studydeck/internal/session"
	"github.com/lucasmv/studydeck/internal/worker"
)

// SessionView is the session state exposed to the UI layer.
type SessionView struct {
	SessionID string              `json:"session_id"`
	DeckID    string              `json:"deck_id"`
	BatchSize int                 `json:"batch_size"`
	Card      *models.Flashcard   `json:"card,omitempty"`
	Revealed  bool                `json:"revealed"`
	Complete  bool                `json:"complete"`
	Stats     models.SessionStats `json:"stats"`
}

// StudyService drives interactive study sessions over due cards.
type StudyService interface {
	StartSession(ctx context.Context, deckID, userID string) (*SessionView, error)
	SessionState(ctx context.Context, sessionID, userID string) (*SessionView, error)
	Reveal(ctx context.Context, sessionID, userID string) (*SessionView, error)
	Grade(ctx context.Context, sessionID, userID string, quality int) (*SessionView, error)
}

type studyService struct {
	cards      repository.FlashcardRepository
	decks      repository.DeckRepository
	stats      repository.StatsRepository
	sessions   *session.Manager
	statsPool  *worker.Pool
	batchLimit int
}

// NewStudyService creates a new StudyService
func NewStudyService(cards repository.FlashcardRepository, decks repository.DeckRepository, stats repository.StatsRepository, sessions *session.Manager, statsPool *worker.Pool, batchLimit int) StudyService {
	if batchLimit <= 0 {
		batchLimit = 20
	}
	return &studyService{
		cards:      cards,
		decks:      decks,
		stats:      stats,
		sessions:   sessions,
		statsPool:  statsPool,
		batchLimit: batchLimit,
	}
}

func (s *studyService) StartSession(ctx context.Context, deckID, userID string) (*SessionView, error) {
	log := logger.FromContext(ctx)

	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	if deck.UserID != userID {
		return nil, errors.NewForbiddenError("only the owner can study a deck")
	}

	// A fetch failure blocks session start; no session is registered.
	batch, err := s.cards.DueBatch(ctx, deckID, s.batchLimit)
	if err != nil {
		log.Error("failed to fetch due batch: %v", err)
		return nil, errors.NewInternalError(err)
	}

	sess := s.sessions.Start(userID, deckID, batch, s.cards)
	log.Info("study session started: id=%s, deck_id=%s, batch=%d", sess.ID(), deckID, len(batch))
	return view(sess), nil
}

func (s *studyService) SessionState(ctx context.Context, sessionID, userID string) (*SessionView, error) {
	sess, err := s.session(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return view(sess), nil
}

func (s *studyService) Reveal(ctx context.Context, sessionID, userID string) (*SessionView, error) {
	sess, err := s.session(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := sess.Reveal(); err != nil {
		return nil, mapSessionError(err)
	}
	return view(sess), nil
}

func (s *studyService) Grade(ctx context.Context, sessionID, userID string, quality int) (*SessionView, error) {
	log := logger.FromContext(ctx)

	sess, err := s.session(sessionID, userID)
	if err != nil {
		return nil, err
	}

	if err := sess.Grade(ctx, quality); err != nil {
		switch {
		case stderrors.Is(err, session.ErrComplete),
			stderrors.Is(err, session.ErrNotRevealed),
			stderrors.Is(err, session.ErrAlreadyRevealed),
			stderrors.Is(err, session.ErrGradeInFlight):
			return nil, mapSessionError(err)
		default:
			// Persistence failed: the session still awaits this grade,
			// the caller may retry.
			log.Error("failed to persist review: %v", err)
			return nil, errors.NewInternalError(err)
		}
	}

	s.enqueueStatsRefresh(sess.DeckID())
	if sess.IsComplete() {
		log.Info("study session complete: id=%s, total=%d", sess.ID(), sess.Stats().Total)
	}
	return view(sess), nil
}

func (s *studyService) session(sessionID, userID string) (*session.Session, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, errors.NewNotFoundError("session", sessionID)
	}
	if sess.UserID() != userID {
		return nil, errors.NewForbiddenError("session belongs to another user")
	}
	return sess, nil
}

func (s *studyService) enqueueStatsRefresh(deckID string) {
	if s.statsPool == nil {
		return
	}
	s.statsPool.Submit(&worker.RefreshDeckStatsJob{StatsRepo: s.stats, DeckID: deckID})
}

func mapSessionError(err error) error {
	switch {
	case stderrors.Is(err, session.ErrGradeInFlight):
		return errors.NewConflictError("a grade is already being recorded")
	case stderrors.Is(err, session.ErrComplete):
		return errors.NewConflictError("session is already complete")
	case stderrors.Is(err, session.ErrNotRevealed):
		return errors.NewBadRequestError("reveal the answer before grading")
	case stderrors.Is(err, session.ErrAlreadyRevealed):
		return errors.NewBadRequestError("answer is already revealed")
	default:
		return errors.NewInternalError(err)
	}
}

func view(sess *session.Session) *SessionView {
	return &SessionView{
		SessionID: sess.ID(),
		DeckID:    sess.DeckID(),
		BatchSize: sess.BatchSize(),
		Card:      sess.CurrentCard(),
		Revealed:  sess.IsAnswerRevealed(),
		Complete:  sess.IsComplete(),
		Stats:     sess.Stats(),
	}
}
