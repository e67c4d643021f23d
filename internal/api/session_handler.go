package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/redact"
	"github.com/flashdeck/flashdeck-api/internal/service/scheduler"
)

// RecordSessionRequest represents the request body for recording a completed
// study session. CompletedAt defaults to the server time when omitted.
// ScorePercentage is a pointer so that a score of 0 survives the required
// check.
type RecordSessionRequest struct {
	UserID          string     `json:"user_id"          validate:"required,uuid"`
	ScorePercentage *float64   `json:"score_percentage" validate:"required,min=0,max=100"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// RecordSessionResponse represents the response body for a recorded session.
type RecordSessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

// SessionHandler handles study session HTTP requests.
type SessionHandler struct {
	schedulerService scheduler.SchedulerService
	logger           *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(
	schedulerService scheduler.SchedulerService,
	log *slog.Logger,
) *SessionHandler {
	if schedulerService == nil {
		panic("schedulerService cannot be nil for SessionHandler")
	}
	if log == nil {
		log = slog.Default()
	}

	return &SessionHandler{
		schedulerService: schedulerService,
		logger:           log.With(slog.String("component", "session_handler")),
	}
}

// RecordSession handles POST /api/sessions requests. It appends a completed
// study session to the user's history, which feeds the health analyzer.
func (h *SessionHandler) RecordSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RecordSessionRequest
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

	userID := uuid.MustParse(req.UserID)
	completedAt := time.Now().UTC()
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}

	session, err := h.schedulerService.RecordSession(r.Context(), userID, *req.ScorePercentage, completedAt)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to record study session"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("study session recorded",
		slog.String("user_id", userID.String()),
		slog.String("session_id", session.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, RecordSessionResponse{
		Success:   true,
		SessionID: session.ID.String(),
	})
}
