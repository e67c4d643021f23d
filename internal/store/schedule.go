package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// DifficultyCounts tallies a user's cards per difficulty tier.
type DifficultyCounts struct {
	Easy     int `json:"easy"`
	Normal   int `json:"normal"`
	Hard     int `json:"hard"`
	VeryHard int `json:"very_hard"`
}

// CardScheduleStore defines the interface for card scheduling state
// persistence. All operations are scoped to a single user; a card's row is
// owned by the (userID, cardID) pair.
type CardScheduleStore interface {
	// Create saves new scheduling state for a card.
	// Returns ErrCardScheduleExists if state already exists for the pair.
	// Returns validation errors from the domain CardSchedule if data is invalid.
	Create(ctx context.Context, schedule *domain.CardSchedule) error

	// Get retrieves scheduling state by the combination of user ID and card ID.
	// Returns ErrCardScheduleNotFound if no state exists.
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardSchedule, error)

	// Update modifies existing scheduling state. The userID and cardID
	// fields identify the row to update.
	// Returns ErrCardScheduleNotFound if no state exists.
	Update(ctx context.Context, schedule *domain.CardSchedule) error

	// ListDue retrieves the user's due cards: those never reviewed or whose
	// next review date is at or before now. bookID optionally restricts the
	// result to one study set.
	ListDue(ctx context.Context, userID uuid.UUID, bookID *uuid.UUID, now time.Time) ([]*domain.CardSchedule, error)

	// ListUpcoming retrieves cards scheduled strictly after now and within
	// the given horizon.
	ListUpcoming(ctx context.Context, userID uuid.UUID, bookID *uuid.UUID, now time.Time, horizon time.Duration) ([]*domain.CardSchedule, error)

	// CountDue returns the number of cards due at the given time.
	CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)

	// CountDueWithin returns the number of cards due now or within the
	// given number of days.
	CountDueWithin(ctx context.Context, userID uuid.UUID, now time.Time, days int) (int, error)

	// CountByDifficulty tallies the user's cards per difficulty tier.
	CountByDifficulty(ctx context.Context, userID uuid.UUID, bookID *uuid.UUID) (DifficultyCounts, error)

	// WithTx returns a new CardScheduleStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) CardScheduleStore
}
