package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		quality  int
		expected float64
	}{
		{
			name:     "Perfect recall should increase ease factor",
			current:  2.5,
			quality:  5,
			expected: 2.6, // 2.5 + 0.1
		},
		{
			name:     "Quality 4 should leave ease factor unchanged",
			current:  2.5,
			quality:  4,
			expected: 2.5, // 0.1 - 1*(0.08 + 1*0.02) = 0
		},
		{
			name:     "Quality 3 should decrease ease factor",
			current:  2.5,
			quality:  3,
			expected: 2.36, // 0.1 - 2*(0.08 + 2*0.02) = -0.14
		},
		{
			name:     "Quality 0 should heavily decrease ease factor",
			current:  2.5,
			quality:  0,
			expected: 1.7, // 0.1 - 5*(0.08 + 5*0.02) = -0.8
		},
		{
			name:     "Minimum ease factor should be enforced",
			current:  1.4,
			quality:  0,
			expected: 1.3, // 1.4 - 0.8 = 0.6, but min is 1.3
		},
		{
			name:     "No upper clamp on ease factor",
			current:  3.4,
			quality:  5,
			expected: 3.5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			newEF := calculateNewEaseFactor(tc.current, tc.quality, params)

			// Use a small epsilon for float comparison
			epsilon := 0.001
			if newEF < tc.expected-epsilon || newEF > tc.expected+epsilon {
				t.Errorf("Expected ease factor %f, got %f", tc.expected, newEF)
			}
		})
	}
}

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  int
		consec   int
		ef       float64
		quality  int
		expected int
	}{
		{
			name:     "Failed recall should reset interval regardless of streak",
			current:  30,
			consec:   5,
			ef:       2.5,
			quality:  2,
			expected: 1,
		},
		{
			name:     "Total blackout should reset interval",
			current:  120,
			consec:   8,
			ef:       2.1,
			quality:  0,
			expected: 1,
		},
		{
			name:     "First success in a streak uses the first step",
			current:  0,
			consec:   0,
			ef:       2.5,
			quality:  4,
			expected: 1,
		},
		{
			name:     "First success after a lapse uses the first step",
			current:  15,
			consec:   0,
			ef:       2.0,
			quality:  5,
			expected: 1,
		},
		{
			name:     "Second consecutive success uses the second step",
			current:  1,
			consec:   1,
			ef:       2.5,
			quality:  4,
			expected: 6,
		},
		{
			name:     "Established streak multiplies by ease factor",
			current:  6,
			consec:   2,
			ef:       2.6,
			quality:  5,
			expected: 16, // round(6 * 2.6) = round(15.6)
		},
		{
			name:     "Interval is capped at one year",
			current:  200,
			consec:   4,
			ef:       2.5,
			quality:  5,
			expected: 365, // round(200 * 2.5) = 500, capped
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			newInterval := calculateNewInterval(tc.current, tc.consec, tc.ef, tc.quality, params)

			if newInterval != tc.expected {
				t.Errorf("Expected interval %d, got %d", tc.expected, newInterval)
			}
		})
	}
}

func TestIntervalAlwaysWithinBounds(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	for quality := MinQuality; quality <= MaxQuality; quality++ {
		for _, current := range []int{0, 1, 6, 50, 365, 400} {
			for _, consec := range []int{0, 1, 2, 10} {
				interval := calculateNewInterval(current, consec, 2.5, quality, params)
				if interval < 1 || interval > params.MaxIntervalDays {
					t.Errorf(
						"interval %d out of bounds for quality=%d current=%d consec=%d",
						interval, quality, current, consec,
					)
				}
			}
		}
	}
}

func TestEaseFactorNeverBelowMinimum(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	for quality := MinQuality; quality <= MaxQuality; quality++ {
		for _, ef := range []float64{1.3, 1.5, 2.0, 2.5, 3.0} {
			newEF := calculateNewEaseFactor(ef, quality, params)
			if newEF < params.MinEaseFactor {
				t.Errorf("ease factor %f below minimum for quality=%d prior=%f",
					newEF, quality, ef)
			}
		}
	}
}

func TestCalculateNextReviewDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 14, 30, 45, 123, time.Local)

	testCases := []struct {
		name     string
		interval int
		expected time.Time
	}{
		{
			name:     "One day interval lands on tomorrow at midnight",
			interval: 1,
			expected: time.Date(2024, 3, 16, 0, 0, 0, 0, time.Local),
		},
		{
			name:     "Six day interval",
			interval: 6,
			expected: time.Date(2024, 3, 21, 0, 0, 0, 0, time.Local),
		},
		{
			name:     "Interval crossing a month boundary",
			interval: 20,
			expected: time.Date(2024, 4, 4, 0, 0, 0, 0, time.Local),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			next := calculateNextReviewDate(tc.interval, now)

			if !next.Equal(tc.expected) {
				t.Errorf("Expected next review %v, got %v", tc.expected, next)
			}
			if next.Hour() != 0 || next.Minute() != 0 || next.Second() != 0 || next.Nanosecond() != 0 {
				t.Errorf("Expected next review normalized to midnight, got %v", next)
			}
		})
	}
}

func TestClassifyDifficulty(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		total    int
		consec   int
		ef       float64
		expected domain.Difficulty
	}{
		{
			name:     "Insufficient history is always normal",
			total:    2,
			consec:   2,
			ef:       1.3,
			expected: domain.DifficultyNormal,
		},
		{
			name:     "High ease and high ratio is easy",
			total:    10,
			consec:   9,
			ef:       2.6,
			expected: domain.DifficultyEasy,
		},
		{
			name:     "Easy requires both thresholds, high ease alone is not enough",
			total:    10,
			consec:   7,
			ef:       2.8,
			expected: domain.DifficultyNormal, // ratio 0.7 fails easy, passes normal
		},
		{
			name:     "Moderate ease and ratio is normal",
			total:    5,
			consec:   3,
			ef:       2.1,
			expected: domain.DifficultyNormal,
		},
		{
			name:     "Decent ease with poor ratio is hard",
			total:    10,
			consec:   1,
			ef:       1.6,
			expected: domain.DifficultyHard,
		},
		{
			name:     "Low ease with decent ratio is still hard",
			total:    10,
			consec:   4,
			ef:       1.3,
			expected: domain.DifficultyHard, // ratio 0.4 meets the OR branch
		},
		{
			name:     "Low ease and low ratio is very hard",
			total:    10,
			consec:   2,
			ef:       1.4,
			expected: domain.DifficultyVeryHard,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyDifficulty(tc.total, tc.consec, tc.ef)
			if got != tc.expected {
				t.Errorf("Expected difficulty %s, got %s", tc.expected, got)
			}

			// Pure function: a second call with identical inputs must agree.
			if again := ClassifyDifficulty(tc.total, tc.consec, tc.ef); again != got {
				t.Errorf("ClassifyDifficulty not deterministic: %s then %s", got, again)
			}
		})
	}
}

func TestDeriveMastery(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		quality  int
		expected domain.Mastery
	}{
		{quality: 0, expected: domain.MasteryNeedsReview},
		{quality: 1, expected: domain.MasteryNeedsReview},
		{quality: 2, expected: domain.MasteryNeedsReview},
		{quality: 3, expected: domain.MasteryUnreviewed},
		{quality: 4, expected: domain.MasteryMastered},
		{quality: 5, expected: domain.MasteryMastered},
	}

	for _, tc := range testCases {
		if got := DeriveMastery(tc.quality); got != tc.expected {
			t.Errorf("quality %d: expected mastery %s, got %s", tc.quality, tc.expected, got)
		}
	}
}

func TestApplyReview(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	userID := uuid.New()
	cardID := uuid.New()
	now := time.Now().UTC()

	schedule, err := domain.NewCardSchedule(userID, cardID)
	if err != nil {
		t.Fatalf("Failed to create schedule: %v", err)
	}

	updated := applyReview(schedule, 4, now, params)

	if updated == nil {
		t.Fatal("applyReview returned nil")
	}

	if updated == schedule {
		t.Fatal("applyReview returned the same object, not a new one")
	}

	if updated.TotalReviews != schedule.TotalReviews+1 {
		t.Errorf("Expected TotalReviews to increment by 1, got %d (from %d)",
			updated.TotalReviews, schedule.TotalReviews)
	}

	if updated.ConsecutiveCorrect != schedule.ConsecutiveCorrect+1 {
		t.Errorf("Expected ConsecutiveCorrect to increment by 1, got %d (from %d)",
			updated.ConsecutiveCorrect, schedule.ConsecutiveCorrect)
	}

	if updated.NextReviewAt == nil {
		t.Fatal("Expected NextReviewAt to be set after a review")
	}

	if !updated.LastReviewedAt.Equal(now) {
		t.Errorf("Expected LastReviewedAt to be %v, got %v", now, updated.LastReviewedAt)
	}

	if updated.Mastery != domain.MasteryMastered {
		t.Errorf("Expected mastery %s after quality 4, got %s",
			domain.MasteryMastered, updated.Mastery)
	}

	// A failed review resets the streak and flags the card.
	schedule.ConsecutiveCorrect = 5
	schedule.IntervalDays = 30
	updated = applyReview(schedule, 0, now, params)

	if updated.ConsecutiveCorrect != 0 {
		t.Errorf("Expected ConsecutiveCorrect to reset to 0 on failure, got %d",
			updated.ConsecutiveCorrect)
	}

	if updated.IntervalDays != 1 {
		t.Errorf("Expected interval to reset to 1 on failure, got %d", updated.IntervalDays)
	}

	if updated.Mastery != domain.MasteryNeedsReview {
		t.Errorf("Expected mastery %s after quality 0, got %s",
			domain.MasteryNeedsReview, updated.Mastery)
	}
}

func TestApplyReviewNeutralQuality(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	schedule, err := domain.NewCardSchedule(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Failed to create schedule: %v", err)
	}
	schedule.Mastery = domain.MasteryMastered

	updated := applyReview(schedule, 3, now, params)

	// Quality 3 is explicitly neutral, not "unchanged from before".
	if updated.Mastery != domain.MasteryUnreviewed {
		t.Errorf("Expected mastery %s after quality 3, got %s",
			domain.MasteryUnreviewed, updated.Mastery)
	}

	if updated.ConsecutiveCorrect != 1 {
		t.Errorf("Expected quality 3 to count as correct, got streak %d",
			updated.ConsecutiveCorrect)
	}
}
