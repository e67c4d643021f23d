package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// PostgresStudySessionStore implements the store.StudySessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStudySessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudySessionStore creates a new PostgreSQL implementation of
// the StudySessionStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresStudySessionStore(db store.DBTX, log *slog.Logger) *PostgresStudySessionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &PostgresStudySessionStore{
		db:     db,
		logger: log.With(slog.String("component", "study_session_store")),
	}
}

// Ensure PostgresStudySessionStore implements store.StudySessionStore
var _ store.StudySessionStore = (*PostgresStudySessionStore)(nil)

// Create implements store.StudySessionStore.Create
func (s *PostgresStudySessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("study session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", session.UserID.String()))
		return err
	}

	query := `
		INSERT INTO study_sessions (id, user_id, score_percentage, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.ScorePercentage,
		session.CompletedAt,
		session.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create study session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()),
			slog.String("user_id", session.UserID.String()))
		return MapError(err)
	}

	log.Debug("study session recorded",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()),
		slog.Float64("score_percentage", session.ScorePercentage))
	return nil
}

// ListRecent implements store.StudySessionStore.ListRecent
func (s *PostgresStudySessionStore) ListRecent(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, user_id, score_percentage, completed_at, created_at
		FROM study_sessions
		WHERE user_id = $1
		ORDER BY completed_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to list recent study sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	sessions := []domain.StudySession{}
	for rows.Next() {
		var session domain.StudySession
		err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.ScorePercentage,
			&session.CompletedAt,
			&session.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan study session row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return sessions, nil
}

// WithTx implements store.StudySessionStore.WithTx
func (s *PostgresStudySessionStore) WithTx(tx *sql.Tx) store.StudySessionStore {
	return &PostgresStudySessionStore{
		db:     tx,
		logger: s.logger,
	}
}
