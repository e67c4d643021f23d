package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for StudySession
var (
	ErrEmptySessionUserID = errors.New("study session user ID cannot be empty")
	ErrInvalidScore       = errors.New("score percentage must be between 0 and 100")
)

// StudySession records the outcome of one completed study session. Sessions
// are append-only history; the health analyzer consumes them read-only in
// most-recent-first order.
type StudySession struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	ScorePercentage float64   `json:"score_percentage"` // 0-100
	CompletedAt     time.Time `json:"completed_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewStudySession creates a completed session record for a user.
func NewStudySession(userID uuid.UUID, scorePercentage float64, completedAt time.Time) (*StudySession, error) {
	session := &StudySession{
		ID:              uuid.New(),
		UserID:          userID,
		ScorePercentage: scorePercentage,
		CompletedAt:     completedAt,
		CreatedAt:       time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the StudySession has valid data.
func (s *StudySession) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptySessionUserID
	}

	if s.ScorePercentage < 0 || s.ScorePercentage > 100 {
		return ErrInvalidScore
	}

	return nil
}
