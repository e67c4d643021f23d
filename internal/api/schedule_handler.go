// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/domain/health"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/redact"
	"github.com/flashdeck/flashdeck-api/internal/service/scheduler"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// ReviewEntryRequest is one review outcome inside a batch submission.
// Quality is a pointer so that a legitimate rating of 0 survives the
// required check.
type ReviewEntryRequest struct {
	FlashcardID string `json:"flashcard_id" validate:"required,uuid"`
	Quality     *int   `json:"quality"      validate:"required,min=0,max=5"`
}

// ReviewBatchRequest represents the request body for submitting a review
// batch.
type ReviewBatchRequest struct {
	UserID  string               `json:"user_id" validate:"required,uuid"`
	Reviews []ReviewEntryRequest `json:"reviews" validate:"required,min=1,dive"`
}

// ScheduleItemResponse is the per-card outcome of a processed review.
type ScheduleItemResponse struct {
	CardID     string     `json:"card_id"`
	Status     string     `json:"status"`
	NextReview *time.Time `json:"next_review,omitempty"`
	Interval   int        `json:"interval"`
	EaseFactor float64    `json:"ease_factor"`
	Difficulty string     `json:"difficulty"`
	Mastery    string     `json:"mastery"`
}

// ReviewBatchResponse represents the response body for a processed review
// batch.
type ReviewBatchResponse struct {
	Success       bool                   `json:"success"`
	Updated       int                    `json:"updated"`
	Schedule      []ScheduleItemResponse `json:"schedule"`
	SessionHealth health.Health          `json:"session_health"`
}

// CardScheduleResponse represents scheduling state for one card.
type CardScheduleResponse struct {
	CardID             string     `json:"card_id"`
	BookID             *string    `json:"book_id,omitempty"`
	IntervalDays       int        `json:"interval_days"`
	EaseFactor         float64    `json:"ease_factor"`
	ConsecutiveCorrect int        `json:"consecutive_correct"`
	TotalReviews       int        `json:"total_reviews"`
	Difficulty         string     `json:"difficulty"`
	Mastery            string     `json:"mastery"`
	NextReviewAt       *time.Time `json:"next_review_at"`
}

// PrioritizedCardsResponse partitions the due cards by urgency.
type PrioritizedCardsResponse struct {
	Overdue  []CardScheduleResponse `json:"overdue"`
	DueToday []CardScheduleResponse `json:"due_today"`
	NewCards []CardScheduleResponse `json:"new_cards"`
}

// ScheduleResponse represents the response body for a schedule overview.
type ScheduleResponse struct {
	Success             bool                     `json:"success"`
	DueCards            []CardScheduleResponse   `json:"due_cards"`
	UpcomingCards       []CardScheduleResponse   `json:"upcoming_cards"`
	PrioritizedCards    PrioritizedCardsResponse `json:"prioritized_cards"`
	DifficultyCounts    store.DifficultyCounts   `json:"difficulty_counts"`
	SessionHealth       health.Health            `json:"session_health"`
	StudyRecommendation string                   `json:"study_recommendation"`
}

// ScheduleHandler handles review-scheduling HTTP requests.
type ScheduleHandler struct {
	schedulerService scheduler.SchedulerService
	logger           *slog.Logger
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(
	schedulerService scheduler.SchedulerService,
	log *slog.Logger,
) *ScheduleHandler {
	if schedulerService == nil {
		panic("schedulerService cannot be nil for ScheduleHandler")
	}
	if log == nil {
		log = slog.Default()
	}

	return &ScheduleHandler{
		schedulerService: schedulerService,
		logger:           log.With(slog.String("component", "schedule_handler")),
	}
}

// SubmitReviewBatch handles POST /api/schedule/reviews requests. It applies
// a batch of review outcomes and returns the per-card results along with a
// session health summary.
func (h *ScheduleHandler) SubmitReviewBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ReviewBatchRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	// UserID and flashcard IDs already passed uuid format validation.
	userID := uuid.MustParse(req.UserID)
	reviews := make([]scheduler.ReviewInput, 0, len(req.Reviews))
	for _, entry := range req.Reviews {
		reviews = append(reviews, scheduler.ReviewInput{
			CardID:  uuid.MustParse(entry.FlashcardID),
			Quality: *entry.Quality,
		})
	}

	result, err := h.schedulerService.ProcessReviewBatch(r.Context(), userID, reviews)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to process review batch"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("review batch processed",
		slog.String("user_id", userID.String()),
		slog.Int("batch_size", len(reviews)),
		slog.Int("updated", result.Updated))
	shared.RespondWithJSON(w, r, http.StatusOK, batchToResponse(result))
}

// GetSchedule handles GET /api/schedule requests. The user_id query
// parameter is required; book_id optionally narrows the result to one study
// set.
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	rawUserID := r.URL.Query().Get("user_id")
	if rawUserID == "" {
		log.Warn("user_id query parameter missing")
		shared.RespondWithError(w, r, http.StatusBadRequest, "user_id is required")
		return
	}

	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		log.Warn("invalid user_id format", slog.String("user_id", rawUserID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user_id format")
		return
	}

	var bookID *uuid.UUID
	if rawBookID := r.URL.Query().Get("book_id"); rawBookID != "" {
		parsed, err := uuid.Parse(rawBookID)
		if err != nil {
			log.Warn("invalid book_id format", slog.String("book_id", rawBookID))
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid book_id format")
			return
		}
		bookID = &parsed
	}

	overview, err := h.schedulerService.GetSchedule(r.Context(), userID, bookID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to retrieve schedule"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("schedule retrieved",
		slog.String("user_id", userID.String()),
		slog.Int("due", len(overview.DueCards)))
	shared.RespondWithJSON(w, r, http.StatusOK, overviewToResponse(overview))
}

// batchToResponse converts a scheduler.BatchResult to a ReviewBatchResponse.
func batchToResponse(result *scheduler.BatchResult) ReviewBatchResponse {
	items := make([]ScheduleItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, ScheduleItemResponse{
			CardID:     item.CardID.String(),
			Status:     string(item.Status),
			NextReview: item.NextReviewAt,
			Interval:   item.IntervalDays,
			EaseFactor: item.EaseFactor,
			Difficulty: string(item.Difficulty),
			Mastery:    string(item.Mastery),
		})
	}

	return ReviewBatchResponse{
		Success:       true,
		Updated:       result.Updated,
		Schedule:      items,
		SessionHealth: result.Health,
	}
}

// overviewToResponse converts a scheduler.ScheduleOverview to a
// ScheduleResponse.
func overviewToResponse(overview *scheduler.ScheduleOverview) ScheduleResponse {
	return ScheduleResponse{
		Success:       true,
		DueCards:      schedulesToResponse(overview.DueCards),
		UpcomingCards: schedulesToResponse(overview.UpcomingCards),
		PrioritizedCards: PrioritizedCardsResponse{
			Overdue:  schedulesToResponse(overview.Prioritized.Overdue),
			DueToday: schedulesToResponse(overview.Prioritized.DueToday),
			NewCards: schedulesToResponse(overview.Prioritized.NewCards),
		},
		DifficultyCounts:    overview.DifficultyCounts,
		SessionHealth:       overview.Health,
		StudyRecommendation: overview.StudyRecommendation,
	}
}

// schedulesToResponse converts domain schedules to their response form. The
// result is never nil so empty lists serialize as [] rather than null.
func schedulesToResponse(schedules []*domain.CardSchedule) []CardScheduleResponse {
	out := make([]CardScheduleResponse, 0, len(schedules))
	for _, s := range schedules {
		var bookID *string
		if s.BookID != nil {
			id := s.BookID.String()
			bookID = &id
		}

		out = append(out, CardScheduleResponse{
			CardID:             s.CardID.String(),
			BookID:             bookID,
			IntervalDays:       s.IntervalDays,
			EaseFactor:         s.EaseFactor,
			ConsecutiveCorrect: s.ConsecutiveCorrect,
			TotalReviews:       s.TotalReviews,
			Difficulty:         string(s.Difficulty),
			Mastery:            string(s.Mastery),
			NextReviewAt:       s.NextReviewAt,
		})
	}
	return out
}
