package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// StudySessionStore defines the interface for study session history
// persistence. Sessions are append-only; there is no update or delete.
type StudySessionStore interface {
	// Create appends a completed session record.
	// Returns validation errors from the domain StudySession if data is invalid.
	Create(ctx context.Context, session *domain.StudySession) error

	// ListRecent retrieves up to limit sessions for the user, ordered
	// most-recent-first by completion time. Returns an empty slice when the
	// user has no history.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.StudySession, error)

	// WithTx returns a new StudySessionStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) StudySessionStore
}
