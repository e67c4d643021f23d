package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/domain/health"
	"github.com/flashdeck/flashdeck-api/internal/domain/srs"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// sessionHistoryLimit is how many recent sessions feed the health analyzer.
const sessionHistoryLimit = 10

// upcomingHorizonDays bounds the upcoming-cards window and the weekly due
// count.
const upcomingHorizonDays = 7

// Verify interface compliance at compile time
var _ SchedulerService = (*schedulerServiceImpl)(nil)

// schedulerServiceImpl implements the SchedulerService interface.
type schedulerServiceImpl struct {
	db            *sql.DB
	scheduleStore store.CardScheduleStore
	sessionStore  store.StudySessionStore
	srsService    srs.Service
	logger        *slog.Logger
	now           func() time.Time
	runTx         func(ctx context.Context, fn store.TxFn) error
}

// NewSchedulerService creates a new SchedulerService implementation.
func NewSchedulerService(
	db *sql.DB,
	scheduleStore store.CardScheduleStore,
	sessionStore store.StudySessionStore,
	srsService srs.Service,
	log *slog.Logger,
) SchedulerService {
	if db == nil {
		panic("db cannot be nil")
	}
	if scheduleStore == nil {
		panic("scheduleStore cannot be nil")
	}
	if sessionStore == nil {
		panic("sessionStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &schedulerServiceImpl{
		db:            db,
		scheduleStore: scheduleStore,
		sessionStore:  sessionStore,
		srsService:    srsService,
		logger:        log.With(slog.String("component", "scheduler_service")),
		now:           time.Now,
		runTx: func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
	}
}

// ProcessReviewBatch implements SchedulerService.ProcessReviewBatch.
func (s *schedulerServiceImpl) ProcessReviewBatch(
	ctx context.Context,
	userID uuid.UUID,
	reviews []ReviewInput,
) (*BatchResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(reviews) == 0 {
		return nil, ErrEmptyBatch
	}

	// Validation errors reject the whole batch up front; partial-success
	// semantics only apply to per-card persistence outcomes.
	for _, review := range reviews {
		if review.Quality < srs.MinQuality || review.Quality > srs.MaxQuality {
			log.Warn("invalid quality rating in batch",
				slog.String("user_id", userID.String()),
				slog.String("card_id", review.CardID.String()),
				slog.Int("quality", review.Quality))
			return nil, fmt.Errorf("%w: got %d", ErrInvalidQuality, review.Quality)
		}
	}

	log.Debug("processing review batch",
		slog.String("user_id", userID.String()),
		slog.Int("batch_size", len(reviews)))

	now := s.now()
	items := make([]ReviewItem, 0, len(reviews))
	updated := 0

	for _, review := range reviews {
		item := s.processReview(ctx, userID, review, now)
		if item.Status == ReviewApplied {
			updated++
		}
		items = append(items, item)
	}

	result := &BatchResult{
		Updated: updated,
		Items:   items,
		Health:  s.analyzeHealth(ctx, userID, now),
	}

	log.Debug("review batch processed",
		slog.String("user_id", userID.String()),
		slog.Int("batch_size", len(reviews)),
		slog.Int("updated", updated))

	return result, nil
}

// processReview applies one review inside its own transaction. Cards are
// disjoint, so a failure here never affects the other entries of the batch.
func (s *schedulerServiceImpl) processReview(
	ctx context.Context,
	userID uuid.UUID,
	review ReviewInput,
	now time.Time,
) ReviewItem {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updatedSchedule *domain.CardSchedule
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		scheduleStore := s.scheduleStore.WithTx(tx)

		schedule, err := scheduleStore.Get(ctx, userID, review.CardID)
		if err != nil {
			return err
		}

		newSchedule, err := s.srsService.ApplyReview(schedule, review.Quality, now)
		if err != nil {
			return fmt.Errorf("failed to compute next review: %w", err)
		}

		if err := scheduleStore.Update(ctx, newSchedule); err != nil {
			return err
		}

		updatedSchedule = newSchedule
		return nil
	})

	if err != nil {
		// A missing schedule row must not block the rest of the batch.
		if errors.Is(err, store.ErrCardScheduleNotFound) {
			log.Warn("no schedule for card, skipping",
				slog.String("user_id", userID.String()),
				slog.String("card_id", review.CardID.String()))
			return ReviewItem{CardID: review.CardID, Status: ReviewSkipped}
		}

		log.Error("failed to process review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", review.CardID.String()))
		return ReviewItem{CardID: review.CardID, Status: ReviewFailed}
	}

	return ReviewItem{
		CardID:       review.CardID,
		Status:       ReviewApplied,
		NextReviewAt: updatedSchedule.NextReviewAt,
		IntervalDays: updatedSchedule.IntervalDays,
		EaseFactor:   updatedSchedule.EaseFactor,
		Difficulty:   updatedSchedule.Difficulty,
		Mastery:      updatedSchedule.Mastery,
	}
}

// analyzeHealth gathers session history and due counts, degrading to empty
// data on persistence errors: the analyzer has defined behavior for empty
// input, so a broken auxiliary read never fails the request.
func (s *schedulerServiceImpl) analyzeHealth(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) health.Health {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sessions, err := s.sessionStore.ListRecent(ctx, userID, sessionHistoryLimit)
	if err != nil {
		log.Warn("failed to load session history, treating as empty",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		sessions = nil
	}

	dueToday, err := s.scheduleStore.CountDue(ctx, userID, now)
	if err != nil {
		log.Warn("failed to count due cards, treating as zero",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		dueToday = 0
	}

	dueThisWeek, err := s.scheduleStore.CountDueWithin(ctx, userID, now, upcomingHorizonDays)
	if err != nil {
		log.Warn("failed to count weekly due cards, treating as zero",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		dueThisWeek = 0
	}

	return health.Analyze(sessions, dueToday, dueThisWeek, now)
}

// GetSchedule implements SchedulerService.GetSchedule.
func (s *schedulerServiceImpl) GetSchedule(
	ctx context.Context,
	userID uuid.UUID,
	bookID *uuid.UUID,
) (*ScheduleOverview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	due, err := s.scheduleStore.ListDue(ctx, userID, bookID, now)
	if err != nil {
		log.Error("failed to list due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list due cards: %w", err)
	}

	upcoming, err := s.scheduleStore.ListUpcoming(
		ctx, userID, bookID, now, upcomingHorizonDays*24*time.Hour,
	)
	if err != nil {
		log.Error("failed to list upcoming cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list upcoming cards: %w", err)
	}

	counts, err := s.scheduleStore.CountByDifficulty(ctx, userID, bookID)
	if err != nil {
		log.Error("failed to count cards by difficulty",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to count cards by difficulty: %w", err)
	}

	prioritized := prioritize(due, now)
	userHealth := s.analyzeHealth(ctx, userID, now)

	overview := &ScheduleOverview{
		DueCards:         due,
		UpcomingCards:    upcoming,
		Prioritized:      prioritized,
		DifficultyCounts: counts,
		Health:           userHealth,
		StudyRecommendation: buildStudyRecommendation(
			userHealth,
			len(prioritized.Overdue),
			counts.Hard+counts.VeryHard,
			len(due),
			len(prioritized.NewCards),
		),
	}

	log.Debug("schedule retrieved",
		slog.String("user_id", userID.String()),
		slog.Int("due", len(due)),
		slog.Int("upcoming", len(upcoming)))

	return overview, nil
}

// RecordSession implements SchedulerService.RecordSession.
func (s *schedulerServiceImpl) RecordSession(
	ctx context.Context,
	userID uuid.UUID,
	scorePercentage float64,
	completedAt time.Time,
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := domain.NewStudySession(userID, scorePercentage, completedAt)
	if err != nil {
		return nil, err
	}

	if err := s.sessionStore.Create(ctx, session); err != nil {
		log.Error("failed to record study session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to record study session: %w", err)
	}

	return session, nil
}

// prioritize partitions the due set by urgency. Overdue and new cards are
// subsets of the due list; DueToday is the entire due set.
func prioritize(due []*domain.CardSchedule, now time.Time) PrioritizedCards {
	prioritized := PrioritizedCards{
		Overdue:  []*domain.CardSchedule{},
		DueToday: due,
		NewCards: []*domain.CardSchedule{},
	}

	for _, schedule := range due {
		switch {
		case schedule.IsNew():
			prioritized.NewCards = append(prioritized.NewCards, schedule)
		case schedule.IsOverdue(now):
			prioritized.Overdue = append(prioritized.Overdue, schedule)
		}
	}

	return prioritized
}

// buildStudyRecommendation derives a single study suggestion from the
// schedule snapshot. Rules are priority-ordered; the first match wins.
func buildStudyRecommendation(
	userHealth health.Health,
	overdueCount int,
	hardCount int,
	dueCount int,
	newCount int,
) string {
	switch {
	case userHealth.Status == health.StatusStruggling:
		return "Your recent scores suggest a reset: review a small batch of familiar cards to rebuild confidence."
	case overdueCount > 10:
		return fmt.Sprintf("You have %d overdue cards. Clear the oldest ones first before they pile up further.", overdueCount)
	case hardCount > 20:
		return fmt.Sprintf("%d of your cards are rated hard or worse. A focused session on those will pay off most.", hardCount)
	case dueCount > 0:
		return fmt.Sprintf("%d cards are due today. A single session will catch you up.", dueCount)
	case newCount > 0:
		return "No reviews due, but you have new cards waiting. Good time to learn something fresh."
	default:
		return "You're all caught up! Check back tomorrow for your next reviews."
	}
}
