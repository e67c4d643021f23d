package srs

import (
	"math"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// Review holds the schedule fragment computed for a single review event.
type Review struct {
	IntervalDays int
	EaseFactor   float64
	NextReviewAt time.Time
}

// calculateNewEaseFactor determines the new ease factor after a review.
//
// The adjustment follows the SM-2 formula: a perfect recall (quality 5) adds
// 0.1, while each step below perfect applies a progressively larger penalty.
// The result is clamped to params.MinEaseFactor; there is no upper clamp.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	missed := float64(5 - quality)
	newEF := currentEF + (0.1 - missed*(0.08+missed*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the new interval in days.
//
// consecutiveCorrect is the pre-review streak count: 0 means this review is
// the first success in a new streak. The interval ladder is the standard
// SM-2 progression:
//   - failed recall (quality < 3) resets to the first step
//   - first success in a streak: first step (1 day)
//   - second consecutive success: second step (6 days)
//   - afterwards: previous interval multiplied by the new ease factor
//
// The result is always within [1, params.MaxIntervalDays].
func calculateNewInterval(
	currentInterval int,
	consecutiveCorrect int,
	newEaseFactor float64,
	quality int,
	params *Params,
) int {
	var interval int
	switch {
	case quality < 3:
		interval = params.FirstStepDays
	case consecutiveCorrect == 0:
		interval = params.FirstStepDays
	case consecutiveCorrect == 1:
		interval = params.SecondStepDays
	default:
		interval = int(math.Round(float64(currentInterval) * newEaseFactor))
	}

	if interval < 1 {
		interval = 1
	}
	if interval > params.MaxIntervalDays {
		interval = params.MaxIntervalDays
	}

	return interval
}

// calculateNextReviewDate determines when the card should next be reviewed.
// Due dates have date-only semantics: the result is the current date plus
// the interval, normalized to local midnight.
func calculateNextReviewDate(interval int, now time.Time) time.Time {
	next := now.AddDate(0, 0, interval)
	return truncateToDay(next)
}

// truncateToDay returns the given time with hours, minutes, seconds, and
// nanoseconds zeroed, in the time's own location.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// roundEaseFactor rounds the ease factor to the configured number of decimal
// places for storage.
func roundEaseFactor(ef float64, params *Params) float64 {
	scale := math.Pow(10, float64(params.EaseDecimalPlaces))
	return math.Round(ef*scale) / scale
}

// computeNextReview runs the full per-review calculation over the prior
// schedule values and a quality rating. Callers must validate quality first.
func computeNextReview(
	currentInterval int,
	currentEaseFactor float64,
	consecutiveCorrect int,
	quality int,
	now time.Time,
	params *Params,
) Review {
	newEF := calculateNewEaseFactor(currentEaseFactor, quality, params)
	interval := calculateNewInterval(currentInterval, consecutiveCorrect, newEF, quality, params)

	return Review{
		IntervalDays: interval,
		EaseFactor:   roundEaseFactor(newEF, params),
		NextReviewAt: calculateNextReviewDate(interval, now),
	}
}

// ClassifyDifficulty derives the difficulty tier of a card from its review
// history. Cards with fewer than three reviews are always normal; after
// that, the tier is determined by the ease factor and the ratio of the
// current correct streak to total reviews. Checks are evaluated in order,
// first match wins.
func ClassifyDifficulty(totalReviews, consecutiveCorrect int, easeFactor float64) domain.Difficulty {
	if totalReviews < 3 {
		return domain.DifficultyNormal
	}

	denominator := totalReviews
	if denominator < 1 {
		denominator = 1
	}
	correctRatio := float64(consecutiveCorrect) / float64(denominator)

	switch {
	case easeFactor >= 2.5 && correctRatio >= 0.8:
		return domain.DifficultyEasy
	case easeFactor >= 2.0 && correctRatio >= 0.6:
		return domain.DifficultyNormal
	case easeFactor >= 1.5 || correctRatio >= 0.4:
		return domain.DifficultyHard
	default:
		return domain.DifficultyVeryHard
	}
}

// DeriveMastery maps a quality rating to the card's mastery state. A rating
// of exactly 3 is explicitly neutral.
func DeriveMastery(quality int) domain.Mastery {
	switch {
	case quality >= 4:
		return domain.MasteryMastered
	case quality < 3:
		return domain.MasteryNeedsReview
	default:
		return domain.MasteryUnreviewed
	}
}

// applyReview creates a new CardSchedule with updated values for a review
// with the given quality rating. The original schedule is never modified.
func applyReview(
	schedule *domain.CardSchedule,
	quality int,
	now time.Time,
	params *Params,
) *domain.CardSchedule {
	newSchedule := &domain.CardSchedule{
		UserID:             schedule.UserID,
		CardID:             schedule.CardID,
		BookID:             schedule.BookID,
		IntervalDays:       schedule.IntervalDays,
		EaseFactor:         schedule.EaseFactor,
		ConsecutiveCorrect: schedule.ConsecutiveCorrect,
		TotalReviews:       schedule.TotalReviews,
		Difficulty:         schedule.Difficulty,
		Mastery:            schedule.Mastery,
		NextReviewAt:       schedule.NextReviewAt,
		LastReviewedAt:     schedule.LastReviewedAt,
		CreatedAt:          schedule.CreatedAt,
		UpdatedAt:          schedule.UpdatedAt,
	}

	// The interval computation consumes the pre-review streak count, so it
	// must run before the streak is updated.
	review := computeNextReview(
		schedule.IntervalDays,
		schedule.EaseFactor,
		schedule.ConsecutiveCorrect,
		quality,
		now,
		params,
	)

	newSchedule.TotalReviews++
	if quality >= 3 {
		newSchedule.ConsecutiveCorrect++
	} else {
		newSchedule.ConsecutiveCorrect = 0
	}

	newSchedule.IntervalDays = review.IntervalDays
	newSchedule.EaseFactor = review.EaseFactor
	next := review.NextReviewAt
	newSchedule.NextReviewAt = &next

	// Difficulty is classified against the post-review counters and the new
	// ease factor.
	newSchedule.Difficulty = ClassifyDifficulty(
		newSchedule.TotalReviews,
		newSchedule.ConsecutiveCorrect,
		newSchedule.EaseFactor,
	)
	newSchedule.Mastery = DeriveMastery(quality)

	newSchedule.LastReviewedAt = now
	newSchedule.UpdatedAt = now

	return newSchedule
}
