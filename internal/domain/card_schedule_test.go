package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewCardSchedule(t *testing.T) {
	userID := uuid.New()
	cardID := uuid.New()

	schedule, err := NewCardSchedule(userID, cardID)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if schedule.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, schedule.UserID)
	}

	if schedule.CardID != cardID {
		t.Errorf("Expected card ID %s, got %s", cardID, schedule.CardID)
	}

	if schedule.IntervalDays != 0 {
		t.Errorf("Expected interval 0, got %d", schedule.IntervalDays)
	}

	if schedule.EaseFactor != 2.5 {
		t.Errorf("Expected ease factor 2.5, got %f", schedule.EaseFactor)
	}

	if schedule.ConsecutiveCorrect != 0 {
		t.Errorf("Expected consecutive correct 0, got %d", schedule.ConsecutiveCorrect)
	}

	if schedule.TotalReviews != 0 {
		t.Errorf("Expected total reviews 0, got %d", schedule.TotalReviews)
	}

	if schedule.Difficulty != DifficultyNormal {
		t.Errorf("Expected difficulty normal, got %s", schedule.Difficulty)
	}

	if schedule.Mastery != MasteryUnreviewed {
		t.Errorf("Expected mastery unreviewed, got %s", schedule.Mastery)
	}

	if schedule.NextReviewAt != nil {
		t.Errorf("Expected nil NextReviewAt for a new card, got %v", schedule.NextReviewAt)
	}

	if !schedule.LastReviewedAt.IsZero() {
		t.Errorf("Expected zero LastReviewedAt, got %v", schedule.LastReviewedAt)
	}

	if schedule.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if schedule.UpdatedAt.IsZero() {
		t.Error("Expected non-zero UpdatedAt time")
	}
}

func TestCardScheduleValidate(t *testing.T) {
	userID := uuid.New()
	cardID := uuid.New()

	valid := func() *CardSchedule {
		return &CardSchedule{
			UserID:     userID,
			CardID:     cardID,
			EaseFactor: 2.5,
			Difficulty: DifficultyNormal,
			Mastery:    MasteryUnreviewed,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*CardSchedule)
		wantErr error
	}{
		{"valid schedule", func(s *CardSchedule) {}, nil},
		{"empty user ID", func(s *CardSchedule) { s.UserID = uuid.Nil }, ErrEmptyScheduleUserID},
		{"empty card ID", func(s *CardSchedule) { s.CardID = uuid.Nil }, ErrEmptyScheduleCardID},
		{"negative interval", func(s *CardSchedule) { s.IntervalDays = -1 }, ErrInvalidInterval},
		{"ease factor below floor", func(s *CardSchedule) { s.EaseFactor = 1.29 }, ErrInvalidEaseFactor},
		{"unknown difficulty", func(s *CardSchedule) { s.Difficulty = "impossible" }, ErrInvalidDifficulty},
		{"unknown mastery", func(s *CardSchedule) { s.Mastery = "perfect" }, ErrInvalidMastery},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			schedule := valid()
			tc.mutate(schedule)

			err := schedule.Validate()
			if err != tc.wantErr {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCardScheduleIsDue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name         string
		nextReviewAt *time.Time
		want         bool
	}{
		{"never reviewed", nil, true},
		{"past due date", &past, true},
		{"due exactly now", &now, true},
		{"future due date", &future, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			schedule := &CardSchedule{NextReviewAt: tc.nextReviewAt}
			if got := schedule.IsDue(now); got != tc.want {
				t.Errorf("IsDue = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCardScheduleIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	neverReviewed := &CardSchedule{}
	if neverReviewed.IsOverdue(now) {
		t.Error("never-reviewed card should not be overdue")
	}

	overdue := &CardSchedule{NextReviewAt: &past}
	if !overdue.IsOverdue(now) {
		t.Error("card with past due date should be overdue")
	}

	dueNow := &CardSchedule{NextReviewAt: &now}
	if dueNow.IsOverdue(now) {
		t.Error("card due exactly now should not be overdue")
	}
}

func TestCardScheduleIsNew(t *testing.T) {
	if !(&CardSchedule{}).IsNew() {
		t.Error("card with nil NextReviewAt should be new")
	}

	now := time.Now()
	if (&CardSchedule{NextReviewAt: &now}).IsNew() {
		t.Error("card with a review date should not be new")
	}
}
