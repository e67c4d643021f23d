package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Difficulty is the derived difficulty tier of a card. It is computed from
// review history by the srs package and never set directly by callers.
type Difficulty string

// Possible difficulty values, ordered easiest to hardest.
const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyNormal   Difficulty = "normal"
	DifficultyHard     Difficulty = "hard"
	DifficultyVeryHard Difficulty = "very_hard"
)

// Mastery describes whether the user's last review demonstrated mastery of
// the card. Neutral reviews (quality exactly 3) map to MasteryUnreviewed,
// which is a first-class state rather than an overloaded null.
type Mastery string

// Possible mastery values.
const (
	MasteryUnreviewed  Mastery = "unreviewed"
	MasteryMastered    Mastery = "mastered"
	MasteryNeedsReview Mastery = "needs_review"
)

// Common validation errors for CardSchedule
var (
	ErrEmptyScheduleUserID = errors.New("card schedule user ID cannot be empty")
	ErrEmptyScheduleCardID = errors.New("card schedule card ID cannot be empty")
	ErrInvalidInterval     = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEaseFactor   = errors.New("ease factor must be at least 1.3")
	ErrInvalidDifficulty   = errors.New("invalid difficulty value")
	ErrInvalidMastery      = errors.New("invalid mastery value")
)

// CardSchedule tracks a user's spaced repetition state for a specific
// flashcard. It is the unit of state the SM-2 scheduler reads and writes.
//
// NextReviewAt is nil for cards that have never been reviewed; such cards
// are always due. After any review it holds the next due date normalized to
// local midnight.
type CardSchedule struct {
	UserID             uuid.UUID  `json:"user_id"`
	CardID             uuid.UUID  `json:"card_id"`
	BookID             *uuid.UUID `json:"book_id,omitempty"` // Optional grouping (study set)
	IntervalDays       int        `json:"interval_days"`
	EaseFactor         float64    `json:"ease_factor"` // Min 1.3, default 2.5
	ConsecutiveCorrect int        `json:"consecutive_correct"`
	TotalReviews       int        `json:"total_reviews"`
	Difficulty         Difficulty `json:"difficulty"`
	Mastery            Mastery    `json:"mastery"`
	NextReviewAt       *time.Time `json:"next_review_at"` // nil means never reviewed / always due
	LastReviewedAt     time.Time  `json:"last_reviewed_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewCardSchedule creates scheduling state for a freshly created flashcard.
// New cards are immediately due (nil NextReviewAt) with default SM-2 values.
func NewCardSchedule(userID, cardID uuid.UUID) (*CardSchedule, error) {
	now := time.Now().UTC()
	schedule := &CardSchedule{
		UserID:             userID,
		CardID:             cardID,
		IntervalDays:       0,
		EaseFactor:         2.5,
		ConsecutiveCorrect: 0,
		TotalReviews:       0,
		Difficulty:         DifficultyNormal,
		Mastery:            MasteryUnreviewed,
		NextReviewAt:       nil,
		LastReviewedAt:     time.Time{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	return schedule, nil
}

// Validate checks if the CardSchedule has valid data.
// Returns an error if any field fails validation.
func (s *CardSchedule) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyScheduleUserID
	}

	if s.CardID == uuid.Nil {
		return ErrEmptyScheduleCardID
	}

	if s.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if s.EaseFactor < 1.3 {
		return ErrInvalidEaseFactor
	}

	switch s.Difficulty {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyVeryHard:
	default:
		return ErrInvalidDifficulty
	}

	switch s.Mastery {
	case MasteryUnreviewed, MasteryMastered, MasteryNeedsReview:
	default:
		return ErrInvalidMastery
	}

	return nil
}

// IsDue reports whether the card should be shown for review at the given
// time. Cards with no recorded next review date are always due.
func (s *CardSchedule) IsDue(now time.Time) bool {
	return s.NextReviewAt == nil || !s.NextReviewAt.After(now)
}

// IsOverdue reports whether the card's scheduled review date has strictly
// passed. Never-reviewed cards are due but not overdue.
func (s *CardSchedule) IsOverdue(now time.Time) bool {
	return s.NextReviewAt != nil && s.NextReviewAt.Before(now)
}

// IsNew reports whether the card has never been reviewed.
func (s *CardSchedule) IsNew() bool {
	return s.NextReviewAt == nil
}
