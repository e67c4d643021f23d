// Package scheduler orchestrates batch review processing and schedule reads
// over the persistence layer, tying the SM-2 calculator and the session
// health analyzer together.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/domain/health"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// Common service errors
var (
	// ErrEmptyBatch is returned when a review batch contains no entries.
	ErrEmptyBatch = errors.New("review batch cannot be empty")

	// ErrInvalidQuality is returned when any review in a batch carries a
	// quality rating outside [0, 5]. Validation errors reject the whole
	// batch before any processing.
	ErrInvalidQuality = errors.New("quality rating must be between 0 and 5")
)

// ReviewInput is one caller-supplied review outcome: which card was
// reviewed and how well it was recalled.
type ReviewInput struct {
	CardID  uuid.UUID
	Quality int
}

// ReviewItemStatus describes what happened to one entry of a batch.
type ReviewItemStatus string

// Per-item outcomes. A skipped entry had no schedule row for the user; a
// failed entry hit a persistence error. Neither aborts the batch.
const (
	ReviewApplied ReviewItemStatus = "applied"
	ReviewSkipped ReviewItemStatus = "skipped"
	ReviewFailed  ReviewItemStatus = "failed"
)

// ReviewItem is the per-card result of a processed batch entry, in input
// order.
type ReviewItem struct {
	CardID       uuid.UUID
	Status       ReviewItemStatus
	NextReviewAt *time.Time
	IntervalDays int
	EaseFactor   float64
	Difficulty   domain.Difficulty
	Mastery      domain.Mastery
}

// BatchResult is the combined outcome of a review batch.
type BatchResult struct {
	Updated int // count of entries with status applied
	Items   []ReviewItem
	Health  health.Health
}

// PrioritizedCards partitions the due set by urgency.
type PrioritizedCards struct {
	Overdue  []*domain.CardSchedule // scheduled date strictly in the past
	DueToday []*domain.CardSchedule // everything currently due
	NewCards []*domain.CardSchedule // never reviewed
}

// ScheduleOverview is the read-path snapshot of a user's review queue.
type ScheduleOverview struct {
	DueCards            []*domain.CardSchedule
	UpcomingCards       []*domain.CardSchedule
	Prioritized         PrioritizedCards
	DifficultyCounts    store.DifficultyCounts
	Health              health.Health
	StudyRecommendation string
}

// SchedulerService defines the orchestration operations exposed to the API
// layer.
type SchedulerService interface {
	// ProcessReviewBatch applies a batch of review outcomes for a user.
	// Entries with no schedule row are skipped and entries hitting a
	// persistence error are marked failed; neither aborts the batch.
	// Returns ErrEmptyBatch or ErrInvalidQuality without processing
	// anything when the input itself is invalid.
	ProcessReviewBatch(
		ctx context.Context,
		userID uuid.UUID,
		reviews []ReviewInput,
	) (*BatchResult, error)

	// GetSchedule retrieves the user's current review queue, optionally
	// filtered to one book, along with health diagnostics and a study
	// recommendation.
	GetSchedule(
		ctx context.Context,
		userID uuid.UUID,
		bookID *uuid.UUID,
	) (*ScheduleOverview, error)

	// RecordSession appends a completed study session to the user's
	// history.
	RecordSession(
		ctx context.Context,
		userID uuid.UUID,
		scorePercentage float64,
		completedAt time.Time,
	) (*domain.StudySession, error)
}
