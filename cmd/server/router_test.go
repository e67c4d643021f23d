package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/service/scheduler"
)

// noopSchedulerService returns empty results for router-level tests.
type noopSchedulerService struct{}

func (noopSchedulerService) ProcessReviewBatch(
	ctx context.Context, userID uuid.UUID, reviews []scheduler.ReviewInput,
) (*scheduler.BatchResult, error) {
	return &scheduler.BatchResult{Items: []scheduler.ReviewItem{}}, nil
}

func (noopSchedulerService) GetSchedule(
	ctx context.Context, userID uuid.UUID, bookID *uuid.UUID,
) (*scheduler.ScheduleOverview, error) {
	return &scheduler.ScheduleOverview{}, nil
}

func (noopSchedulerService) RecordSession(
	ctx context.Context, userID uuid.UUID, scorePercentage float64, completedAt time.Time,
) (*domain.StudySession, error) {
	return &domain.StudySession{ID: uuid.New(), UserID: userID}, nil
}

func newTestApplication() *application {
	return &application{
		config: &config.Config{
			Server: config.ServerConfig{Port: 8080, LogLevel: "info"},
		},
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		schedulerService: noopSchedulerService{},
	}
}

func TestSetupRouterRoutes(t *testing.T) {
	router := newTestApplication().setupRouter()
	userID := uuid.New()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"health check", http.MethodGet, "/health", "", http.StatusOK},
		{
			"get schedule",
			http.MethodGet,
			"/api/schedule?user_id=" + userID.String(),
			"",
			http.StatusOK,
		},
		{
			"submit review batch",
			http.MethodPost,
			"/api/schedule/reviews",
			fmt.Sprintf(`{"user_id":%q,"reviews":[{"flashcard_id":%q,"quality":4}]}`, userID, uuid.New()),
			http.StatusOK,
		},
		{
			"record session",
			http.MethodPost,
			"/api/sessions",
			fmt.Sprintf(`{"user_id":%q,"score_percentage":80}`, userID),
			http.StatusCreated,
		},
		{"unknown route", http.MethodGet, "/api/nothing", "", http.StatusNotFound},
		{"wrong method", http.MethodDelete, "/api/schedule", "", http.StatusMethodNotAllowed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = bytes.NewBufferString(tc.body)
			}

			req := httptest.NewRequest(tc.method, tc.path, body)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
