package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lucasmv/studydeck/internal/models"
	"github.com/lucasmv/studydeck/internal/srs"
)

// Same-session re-exposure delays, counted in card advances. These are
// deliberately separate from the long-term SM-2 thresholds: the scheduler
// decides which calendar day a card resurfaces, the session decides how
// soon it drips back within the current sitting.
const (
	mediumDelay = 3 // quality 2..3 waits three cards
	hardDelay   = 1 // quality 0..1 comes back almost immediately
)

// masteredThreshold is the quality at or above which a card is done for
// the session and will not be re-shown.
const masteredThreshold = 4

var (
	// ErrComplete is returned when operating on a finished session.
	ErrComplete = errors.New("session already complete")
	// ErrNotRevealed is returned by Grade before the answer was revealed.
	ErrNotRevealed = errors.New("answer not revealed")
	// ErrAlreadyRevealed is returned by Reveal in the grading state.
	ErrAlreadyRevealed = errors.New("answer already revealed")
	// ErrGradeInFlight is returned when a grade is already being persisted.
	ErrGradeInFlight = errors.New("another grade is in flight")
)

// ReviewSink persists the outcome of one graded review: the card's updated
// scheduling state and the appended review record, applied together.
type ReviewSink interface {
	RecordReview(ctx context.Context, card models.Flashcard, review models.Review) error
}

type queued struct {
	index int // position in batch
	delay int // card advances to wait before re-showing
}

// Session drives one user through a fixed batch of due cards. Cards graded
// below the mastered threshold are re-shown later in the same sitting; the
// session ends only when every batch card has been mastered.
//
// All methods are safe for concurrent use, but grades are strictly
// serialized: a Grade call made while another is persisting is rejected.
type Session struct {
	mu sync.Mutex

	id     string
	userID string
	deckID string

	batch    []models.Flashcard
	cursor   int
	revealed bool
	grading  bool
	complete bool

	mastered map[string]struct{}
	queue    []queued
	stats    models.SessionStats

	sink ReviewSink
	now  func() time.Time

	lastActive time.Time
}

// New creates a session over batch. An empty batch yields a session that
// is complete from the start with zero stats.
func New(userID, deckID string, batch []models.Flashcard, sink ReviewSink) *Session {
	return newSession(userID, deckID, batch, sink, time.Now)
}

func newSession(userID, deckID string, batch []models.Flashcard, sink ReviewSink, now func() time.Time) *Session {
	s := &Session{
		id:         uuid.NewString(),
		userID:     userID,
		deckID:     deckID,
		batch:      batch,
		mastered:   make(map[string]struct{}, len(batch)),
		sink:       sink,
		now:        now,
		lastActive: now(),
	}
	if len(batch) == 0 {
		s.complete = true
	}
	return s
}

// ID returns the session's opaque identifier.
func (s *Session) ID() string { return s.id }

// UserID returns the owning user.
func (s *Session) UserID() string { return s.userID }

// DeckID returns the deck being studied.
func (s *Session) DeckID() string { return s.deckID }

// BatchSize returns the number of cards pulled at session start.
func (s *Session) BatchSize() int { return len(s.batch) }

// CurrentCard returns the card being presented, or nil once complete.
func (s *Session) CurrentCard() *models.Flashcard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.complete {
		return nil
	}
	card := s.batch[s.cursor]
	return &card
}

// IsAnswerRevealed reports whether the current card's answer is showing.
func (s *Session) IsAnswerRevealed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revealed
}

// IsComplete reports whether every batch card has been mastered.
func (s *Session) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complete
}

// Stats returns the running session tally.
func (s *Session) Stats() models.SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// LastActive returns the time of the last state transition, for eviction.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Reveal flips the current card to its answer side. Pure state update.
func (s *Session) Reveal() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.complete {
		return ErrComplete
	}
	if s.revealed {
		return ErrAlreadyRevealed
	}
	s.revealed = true
	s.lastActive = s.now()
	return nil
}

// Grade records a quality rating for the current card. The updated
// scheduling state and the review record are persisted through the sink
// before any session state changes: a persistence failure leaves the
// session exactly as it was, still awaiting a grade, so the user can
// retry. On success the card is either mastered (quality >= 4) or queued
// for re-exposure, and the next card is selected.
func (s *Session) Grade(ctx context.Context, quality int) error {
	s.mu.Lock()
	if s.complete {
		s.mu.Unlock()
		return ErrComplete
	}
	if !s.revealed {
		s.mu.Unlock()
		return ErrNotRevealed
	}
	if s.grading {
		s.mu.Unlock()
		return ErrGradeInFlight
	}
	s.grading = true
	card := s.batch[s.cursor]
	s.mu.Unlock()

	now := s.now()
	quality = srs.ClampQuality(quality)

	updated := card
	updated.SchedulingState = srs.Schedule(card.SchedulingState, quality, now)
	review := models.Review{
		ID:          uuid.NewString(),
		FlashcardID: card.ID,
		UserID:      s.userID,
		Quality:     quality,
		ReviewedAt:  now,
	}

	err := s.sink.RecordReview(ctx, updated, review)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.grading = false
	s.lastActive = s.now()
	if err != nil {
		return err
	}

	// Everything below is one atomic state update: between grading and
	// the mastery/requeue decision the card is never observable as
	// missing from both structures.
	s.batch[s.cursor] = updated
	s.applyGradeLocked(quality)
	s.advanceLocked()
	return nil
}

func (s *Session) applyGradeLocked(quality int) {
	s.stats.Total++
	cardID := s.batch[s.cursor].ID

	// A card routed here may still carry a stale queue entry from an
	// earlier grade if the forward scan reached it first; drop it so the
	// card lives in exactly one place.
	s.dropQueuedLocked(s.cursor)

	switch {
	case quality >= masteredThreshold:
		s.stats.Easy++
		s.mastered[cardID] = struct{}{}
	case quality >= 2:
		s.stats.Medium++
		s.queue = append(s.queue, queued{index: s.cursor, delay: mediumDelay})
	default:
		s.stats.Hard++
		s.queue = append(s.queue, queued{index: s.cursor, delay: hardDelay})
	}
}

func (s *Session) dropQueuedLocked(index int) {
	for i, q := range s.queue {
		if q.index == index {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

// advanceLocked selects the next card to present. The original batch
// ordering is drained first; the review queue is consulted only once the
// straight-line pass is exhausted, and then only its first ready entry
// per advance.
func (s *Session) advanceLocked() {
	// Primary: first un-mastered card after the cursor.
	for i := s.cursor + 1; i < len(s.batch); i++ {
		if _, ok := s.mastered[s.batch[i].ID]; !ok {
			s.cursor = i
			s.revealed = false
			return
		}
	}

	if len(s.mastered) == len(s.batch) {
		s.complete = true
		s.revealed = false
		return
	}

	// Secondary: tick the queue down until an entry is ready. Every
	// un-mastered card is queued at this point, so this terminates; it
	// also means a queued card comes back early only when no original
	// pass card remains.
	for {
		for i := range s.queue {
			s.queue[i].delay--
		}
		for i, q := range s.queue {
			if q.delay <= 0 {
				s.queue = append(s.queue[:i], s.queue[i+1:]...)
				s.cursor = q.index
				s.revealed = false
				return
			}
		}
	}
}
