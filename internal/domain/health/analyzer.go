// Package health computes a diagnostic summary of a user's recent study
// performance. The analyzer is a pure function over a bounded session
// history plus current due-card counts; it has no dependencies and no side
// effects.
package health

import (
	"math"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// Status is the tier assigned to a health score.
type Status string

// Possible status values, best to worst.
const (
	StatusExcellent  Status = "excellent"
	StatusGood       Status = "good"
	StatusNeedsWork  Status = "needs_work"
	StatusStruggling Status = "struggling"
)

// Health is the computed session-health summary. It is derived per request
// and never persisted.
type Health struct {
	Score                 int    `json:"score"` // 0-100
	Status                Status `json:"status"`
	Recommendation        string `json:"recommendation"`
	CardsToReviewToday    int    `json:"cards_to_review_today"`
	CardsToReviewThisWeek int    `json:"cards_to_review_this_week"`
}

// analysisWindow is the number of most recent sessions the score and trend
// calculations consider. Callers may pass more; the excess only feeds the
// weekly-consistency count.
const analysisWindow = 7

// Recommendation copy per status band.
const (
	recFirstSession  = "Start your first study session to build a learning routine!"
	recMomentum      = "You're on a roll! Keep the momentum going with a session today."
	recConsistency   = "Outstanding consistency. A quick session today keeps your streak alive."
	recImproving     = "Your scores are climbing. Another session will lock in the progress."
	recWeakCards     = "Solid work. Focus your next session on the cards you keep missing."
	recBatches       = "You have a big queue today. Tackle it in smaller batches to stay fresh."
	recPractice      = "A short practice session today will help steady your scores."
	recRebuild       = "Let's rebuild momentum: start with a short session of your easiest cards."
)

// Analyze computes the session health summary for a user.
//
// sessions must be ordered most-recent-first. The trend split deliberately
// operates on that ordering: the "first half" of the window is the more
// recent slice, so a positive trend means recent sessions outscore older
// ones. Due counts are passed through unchanged.
func Analyze(sessions []domain.StudySession, dueToday, dueThisWeek int, now time.Time) Health {
	if len(sessions) == 0 {
		return Health{
			Score:                 50,
			Status:                StatusNeedsWork,
			Recommendation:        recFirstSession,
			CardsToReviewToday:    dueToday,
			CardsToReviewThisWeek: dueThisWeek,
		}
	}

	recent := sessions
	if len(recent) > analysisWindow {
		recent = recent[:analysisWindow]
	}

	avgScore := meanScore(recent)
	trend := scoreTrend(recent)

	healthScore := avgScore
	if trend > 5 {
		healthScore += 10
	} else if trend < -5 {
		healthScore -= 10
	}

	sessionsThisWeek := countWithinDays(sessions, now, 7)
	if sessionsThisWeek >= 5 {
		healthScore += 5
	} else if sessionsThisWeek <= 1 {
		healthScore -= 10
	}

	if healthScore < 0 {
		healthScore = 0
	}
	if healthScore > 100 {
		healthScore = 100
	}
	score := int(math.Round(healthScore))

	status, recommendation := classify(score, trend, dueToday)

	return Health{
		Score:                 score,
		Status:                status,
		Recommendation:        recommendation,
		CardsToReviewToday:    dueToday,
		CardsToReviewThisWeek: dueThisWeek,
	}
}

// meanScore returns the average score percentage across the sessions.
func meanScore(sessions []domain.StudySession) float64 {
	if len(sessions) == 0 {
		return 0
	}

	var sum float64
	for _, s := range sessions {
		sum += s.ScorePercentage
	}
	return sum / float64(len(sessions))
}

// scoreTrend compares the two halves of the most-recent-first window:
// mean(first half) - mean(second half). Since the list is most-recent-first,
// the first half is the newer slice and a positive result means improvement.
func scoreTrend(recent []domain.StudySession) float64 {
	if len(recent) < 2 {
		return 0
	}

	mid := (len(recent) + 1) / 2 // ceil(n/2)
	return meanScore(recent[:mid]) - meanScore(recent[mid:])
}

// countWithinDays counts sessions completed within the given number of days
// before now.
func countWithinDays(sessions []domain.StudySession, now time.Time, days int) int {
	cutoff := now.AddDate(0, 0, -days)
	count := 0
	for _, s := range sessions {
		if s.CompletedAt.After(cutoff) {
			count++
		}
	}
	return count
}

// classify maps a health score to its status band and picks the
// recommendation for the band. Bands are evaluated high to low, first match
// wins.
func classify(score int, trend float64, dueToday int) (Status, string) {
	switch {
	case score >= 85:
		if trend > 0 {
			return StatusExcellent, recMomentum
		}
		return StatusExcellent, recConsistency
	case score >= 70:
		if trend > 0 {
			return StatusGood, recImproving
		}
		return StatusGood, recWeakCards
	case score >= 50:
		if dueToday > 10 {
			return StatusNeedsWork, recBatches
		}
		return StatusNeedsWork, recPractice
	default:
		return StatusStruggling, recRebuild
	}
}
