package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// scheduleColumns is the column list shared by all CardSchedule queries.
const scheduleColumns = `user_id, card_id, book_id, interval_days, ease_factor,
	consecutive_correct, total_reviews, difficulty, mastery,
	next_review_at, last_reviewed_at, created_at, updated_at`

// PostgresCardScheduleStore implements the store.CardScheduleStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardScheduleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardScheduleStore creates a new PostgreSQL implementation of
// the CardScheduleStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardScheduleStore(db store.DBTX, log *slog.Logger) *PostgresCardScheduleStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &PostgresCardScheduleStore{
		db:     db,
		logger: log.With(slog.String("component", "card_schedule_store")),
	}
}

// Ensure PostgresCardScheduleStore implements store.CardScheduleStore
var _ store.CardScheduleStore = (*PostgresCardScheduleStore)(nil)

// Create implements store.CardScheduleStore.Create
func (s *PostgresCardScheduleStore) Create(ctx context.Context, schedule *domain.CardSchedule) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := schedule.Validate(); err != nil {
		log.Warn("card schedule validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", schedule.CardID.String()))
		return err
	}

	query := `
		INSERT INTO card_schedules (` + scheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		schedule.UserID,
		schedule.CardID,
		nullableUUID(schedule.BookID),
		schedule.IntervalDays,
		schedule.EaseFactor,
		schedule.ConsecutiveCorrect,
		schedule.TotalReviews,
		schedule.Difficulty,
		schedule.Mastery,
		nullableTime(schedule.NextReviewAt),
		schedule.LastReviewedAt,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate card schedule",
				slog.String("user_id", schedule.UserID.String()),
				slog.String("card_id", schedule.CardID.String()))
			return fmt.Errorf("%w: %v", store.ErrCardScheduleExists, err)
		}

		log.Error("failed to create card schedule",
			slog.String("error", err.Error()),
			slog.String("user_id", schedule.UserID.String()),
			slog.String("card_id", schedule.CardID.String()))
		return MapError(err)
	}

	log.Debug("card schedule created",
		slog.String("user_id", schedule.UserID.String()),
		slog.String("card_id", schedule.CardID.String()))
	return nil
}

// Get implements store.CardScheduleStore.Get
func (s *PostgresCardScheduleStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.CardSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + scheduleColumns + `
		FROM card_schedules
		WHERE user_id = $1 AND card_id = $2
	`

	schedule, err := scanSchedule(s.db.QueryRowContext(ctx, query, userID, cardID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card schedule not found",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return nil, store.ErrCardScheduleNotFound
		}
		log.Error("failed to get card schedule",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}

	return schedule, nil
}

// Update implements store.CardScheduleStore.Update
func (s *PostgresCardScheduleStore) Update(ctx context.Context, schedule *domain.CardSchedule) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := schedule.Validate(); err != nil {
		log.Warn("card schedule validation failed during update",
			slog.String("error", err.Error()),
			slog.String("card_id", schedule.CardID.String()))
		return err
	}

	query := `
		UPDATE card_schedules
		SET interval_days = $1, ease_factor = $2, consecutive_correct = $3,
			total_reviews = $4, difficulty = $5, mastery = $6,
			next_review_at = $7, last_reviewed_at = $8, updated_at = $9
		WHERE user_id = $10 AND card_id = $11
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		schedule.IntervalDays,
		schedule.EaseFactor,
		schedule.ConsecutiveCorrect,
		schedule.TotalReviews,
		schedule.Difficulty,
		schedule.Mastery,
		nullableTime(schedule.NextReviewAt),
		schedule.LastReviewedAt,
		schedule.UpdatedAt,
		schedule.UserID,
		schedule.CardID,
	)

	if err != nil {
		log.Error("failed to update card schedule",
			slog.String("error", err.Error()),
			slog.String("user_id", schedule.UserID.String()),
			slog.String("card_id", schedule.CardID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCardScheduleNotFound); err != nil {
		log.Debug("card schedule not found for update",
			slog.String("user_id", schedule.UserID.String()),
			slog.String("card_id", schedule.CardID.String()))
		return err
	}

	log.Debug("card schedule updated",
		slog.String("user_id", schedule.UserID.String()),
		slog.String("card_id", schedule.CardID.String()),
		slog.Int("interval_days", schedule.IntervalDays),
		slog.Float64("ease_factor", schedule.EaseFactor))
	return nil
}

// ListDue implements store.CardScheduleStore.ListDue
func (s *PostgresCardScheduleStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	bookID *uuid.UUID,
	now time.Time,
) ([]*domain.CardSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM card_schedules
		WHERE user_id = $1
			AND (next_review_at IS NULL OR next_review_at <= $2)
			AND ($3::uuid IS NULL OR book_id = $3)
		ORDER BY next_review_at ASC NULLS LAST
	`

	return s.queryScheduleList(ctx, "list due cards", query, userID, now, nullableUUID(bookID))
}

// ListUpcoming implements store.CardScheduleStore.ListUpcoming
func (s *PostgresCardScheduleStore) ListUpcoming(
	ctx context.Context,
	userID uuid.UUID,
	bookID *uuid.UUID,
	now time.Time,
	horizon time.Duration,
) ([]*domain.CardSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM card_schedules
		WHERE user_id = $1
			AND next_review_at > $2
			AND next_review_at <= $3
			AND ($4::uuid IS NULL OR book_id = $4)
		ORDER BY next_review_at ASC
	`

	return s.queryScheduleList(
		ctx, "list upcoming cards", query,
		userID, now, now.Add(horizon), nullableUUID(bookID),
	)
}

// CountDue implements store.CardScheduleStore.CountDue
func (s *PostgresCardScheduleStore) CountDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM card_schedules
		WHERE user_id = $1
			AND (next_review_at IS NULL OR next_review_at <= $2)
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, now).Scan(&count); err != nil {
		log.Error("failed to count due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// CountDueWithin implements store.CardScheduleStore.CountDueWithin
func (s *PostgresCardScheduleStore) CountDueWithin(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	days int,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM card_schedules
		WHERE user_id = $1
			AND (next_review_at IS NULL OR next_review_at <= $2)
	`

	var count int
	cutoff := now.AddDate(0, 0, days)
	if err := s.db.QueryRowContext(ctx, query, userID, cutoff).Scan(&count); err != nil {
		log.Error("failed to count cards due within window",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("days", days))
		return 0, MapError(err)
	}

	return count, nil
}

// CountByDifficulty implements store.CardScheduleStore.CountByDifficulty
func (s *PostgresCardScheduleStore) CountByDifficulty(
	ctx context.Context,
	userID uuid.UUID,
	bookID *uuid.UUID,
) (store.DifficultyCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT difficulty, COUNT(*)
		FROM card_schedules
		WHERE user_id = $1
			AND ($2::uuid IS NULL OR book_id = $2)
		GROUP BY difficulty
	`

	rows, err := s.db.QueryContext(ctx, query, userID, nullableUUID(bookID))
	if err != nil {
		log.Error("failed to count cards by difficulty",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return store.DifficultyCounts{}, MapError(err)
	}
	defer closeRows(rows, log)

	var counts store.DifficultyCounts
	for rows.Next() {
		var difficulty string
		var count int
		if err := rows.Scan(&difficulty, &count); err != nil {
			log.Error("failed to scan difficulty count row",
				slog.String("error", err.Error()))
			return store.DifficultyCounts{}, MapError(err)
		}

		switch domain.Difficulty(difficulty) {
		case domain.DifficultyEasy:
			counts.Easy = count
		case domain.DifficultyNormal:
			counts.Normal = count
		case domain.DifficultyHard:
			counts.Hard = count
		case domain.DifficultyVeryHard:
			counts.VeryHard = count
		}
	}

	if err := rows.Err(); err != nil {
		return store.DifficultyCounts{}, MapError(err)
	}

	return counts, nil
}

// WithTx implements store.CardScheduleStore.WithTx
func (s *PostgresCardScheduleStore) WithTx(tx *sql.Tx) store.CardScheduleStore {
	return &PostgresCardScheduleStore{
		db:     tx,
		logger: s.logger,
	}
}

// queryScheduleList runs a multi-row schedule query and scans the results.
func (s *PostgresCardScheduleStore) queryScheduleList(
	ctx context.Context,
	operation string,
	query string,
	args ...any,
) ([]*domain.CardSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to "+operation,
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	schedules := []*domain.CardSchedule{}
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			log.Error("failed to scan card schedule row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return schedules, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSchedule reads one CardSchedule from a row.
func scanSchedule(row rowScanner) (*domain.CardSchedule, error) {
	var schedule domain.CardSchedule
	var bookID uuid.NullUUID
	var nextReviewAt sql.NullTime
	var difficulty, mastery string

	err := row.Scan(
		&schedule.UserID,
		&schedule.CardID,
		&bookID,
		&schedule.IntervalDays,
		&schedule.EaseFactor,
		&schedule.ConsecutiveCorrect,
		&schedule.TotalReviews,
		&difficulty,
		&mastery,
		&nextReviewAt,
		&schedule.LastReviewedAt,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	schedule.Difficulty = domain.Difficulty(difficulty)
	schedule.Mastery = domain.Mastery(mastery)
	if bookID.Valid {
		id := bookID.UUID
		schedule.BookID = &id
	}
	if nextReviewAt.Valid {
		t := nextReviewAt.Time
		schedule.NextReviewAt = &t
	}

	return &schedule, nil
}

// nullableUUID converts an optional uuid into its SQL representation.
func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// nullableTime converts an optional time into its SQL representation.
func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// closeRows closes a result set, logging any close error.
func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
