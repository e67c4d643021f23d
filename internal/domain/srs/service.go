package srs

import (
	"errors"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// Common errors
var (
	ErrNilSchedule    = errors.New("card schedule cannot be nil")
	ErrInvalidQuality = errors.New("quality rating must be between 0 and 5")
)

// MinQuality and MaxQuality bound the recall-quality rating scale:
// 0 is a total blackout, 5 is perfect recall.
const (
	MinQuality = 0
	MaxQuality = 5
)

// Service defines the interface for SM-2 scheduling operations.
type Service interface {
	// ApplyReview computes a new schedule for a card based on a quality
	// rating in [0, 5]. The input schedule is not modified.
	ApplyReview(
		schedule *domain.CardSchedule,
		quality int,
		now time.Time,
	) (*domain.CardSchedule, error)

	// ComputeNextReview runs the raw interval calculation without an
	// entity, for callers that track schedule fields themselves.
	ComputeNextReview(
		intervalDays int,
		easeFactor float64,
		consecutiveCorrect int,
		quality int,
		now time.Time,
	) (Review, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// ApplyReview implements the Service interface.
func (s *defaultService) ApplyReview(
	schedule *domain.CardSchedule,
	quality int,
	now time.Time,
) (*domain.CardSchedule, error) {
	if schedule == nil {
		return nil, ErrNilSchedule
	}

	if !isValidQuality(quality) {
		return nil, ErrInvalidQuality
	}

	return applyReview(schedule, quality, now, s.params), nil
}

// ComputeNextReview implements the Service interface.
func (s *defaultService) ComputeNextReview(
	intervalDays int,
	easeFactor float64,
	consecutiveCorrect int,
	quality int,
	now time.Time,
) (Review, error) {
	if !isValidQuality(quality) {
		return Review{}, ErrInvalidQuality
	}

	return computeNextReview(intervalDays, easeFactor, consecutiveCorrect, quality, now, s.params), nil
}

// isValidQuality checks if the given quality rating is within the scale.
func isValidQuality(quality int) bool {
	return quality >= MinQuality && quality <= MaxQuality
}
