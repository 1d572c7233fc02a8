package srs

import (
	"math"
	"time"

	"github.com/lucasmv/studydeck/internal/models"
)

const (
	// InitialEase is the ease factor assigned to a freshly created card.
	InitialEase = 2.5
	// MinEase is the floor below which the ease factor never drops.
	MinEase = 1.3

	// MinQuality and MaxQuality bound the self-assessment scale.
	MinQuality = 0
	MaxQuality = 5

	// LapseThreshold is the quality below which a review counts as a
	// lapse and resets the repetition streak.
	LapseThreshold = 3
)

// NewState returns the scheduling state for a card that was just authored.
// The card is immediately due.
func NewState(now time.Time) models.SchedulingState {
	return models.SchedulingState{
		Repetitions:  0,
		EaseFactor:   InitialEase,
		IntervalDays: 0,
		NextReviewAt: now,
	}
}

// ClampQuality coerces a quality rating into [0, 5]. Out-of-range input is
// never rejected, matching the permissive grading contract.
func ClampQuality(q int) int {
	if q < MinQuality {
		return MinQuality
	}
	if q > MaxQuality {
		return MaxQuality
	}
	return q
}

// Schedule applies one graded review to a card's scheduling state using the
// SM-2 recurrence and returns the updated state. quality < 3 resets the
// repetition streak and schedules the card for tomorrow without touching
// the ease factor; quality >= 3 grows the interval multiplicatively.
//
// Schedule is pure: it never fails and performs no I/O. The caller persists
// the result and records the review.
func Schedule(state models.SchedulingState, quality int, now time.Time) models.SchedulingState {
	quality = ClampQuality(quality)

	if quality < LapseThreshold {
		state.Repetitions = 0
		state.IntervalDays = 1
	} else {
		miss := float64(MaxQuality - quality)
		ease := state.EaseFactor + (0.1 - miss*(0.08+miss*0.02))
		if ease < MinEase {
			ease = MinEase
		}
		state.EaseFactor = ease

		switch state.Repetitions {
		case 0:
			state.IntervalDays = 1
		case 1:
			state.IntervalDays = 6
		default:
			state.IntervalDays = int(math.Round(float64(state.IntervalDays) * ease))
		}
		state.Repetitions++
	}

	// Whole-day granularity, preserving the time of day.
	state.NextReviewAt = now.AddDate(0, 0, state.IntervalDays)
	reviewed := now
	state.LastReviewedAt = &reviewed
	return state
}
