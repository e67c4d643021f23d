package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewStudySession(t *testing.T) {
	userID := uuid.New()
	completedAt := time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC)

	session, err := NewStudySession(userID, 87.5, completedAt)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if session.ID == uuid.Nil {
		t.Error("Expected a generated session ID")
	}

	if session.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, session.UserID)
	}

	if session.ScorePercentage != 87.5 {
		t.Errorf("Expected score 87.5, got %f", session.ScorePercentage)
	}

	if !session.CompletedAt.Equal(completedAt) {
		t.Errorf("Expected completed at %v, got %v", completedAt, session.CompletedAt)
	}

	if session.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}
}

func TestNewStudySessionBoundaryScores(t *testing.T) {
	userID := uuid.New()
	now := time.Now().UTC()

	for _, score := range []float64{0, 100} {
		if _, err := NewStudySession(userID, score, now); err != nil {
			t.Errorf("Expected score %f to be valid, got %v", score, err)
		}
	}
}

func TestStudySessionValidate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		session StudySession
		wantErr error
	}{
		{"valid session", StudySession{UserID: userID, ScorePercentage: 75}, nil},
		{"empty user ID", StudySession{ScorePercentage: 75}, ErrEmptySessionUserID},
		{"negative score", StudySession{UserID: userID, ScorePercentage: -0.1}, ErrInvalidScore},
		{"score above 100", StudySession{UserID: userID, ScorePercentage: 100.1}, ErrInvalidScore},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.session.Validate()
			if err != tc.wantErr {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}
