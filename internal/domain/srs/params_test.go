package srs

import "testing"

func TestNewDefaultParams(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	if params.MinEaseFactor != 1.3 {
		t.Errorf("Expected MinEaseFactor 1.3, got %f", params.MinEaseFactor)
	}

	if params.MaxIntervalDays != 365 {
		t.Errorf("Expected MaxIntervalDays 365, got %d", params.MaxIntervalDays)
	}

	if params.FirstStepDays != 1 {
		t.Errorf("Expected FirstStepDays 1, got %d", params.FirstStepDays)
	}

	if params.SecondStepDays != 6 {
		t.Errorf("Expected SecondStepDays 6, got %d", params.SecondStepDays)
	}
}

func TestNewParamsOverrides(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{
		MinEaseFactor:   1.5,
		MaxIntervalDays: 180,
	})

	if params.MinEaseFactor != 1.5 {
		t.Errorf("Expected MinEaseFactor override 1.5, got %f", params.MinEaseFactor)
	}

	if params.MaxIntervalDays != 180 {
		t.Errorf("Expected MaxIntervalDays override 180, got %d", params.MaxIntervalDays)
	}

	// Unset fields keep defaults
	if params.FirstStepDays != 1 || params.SecondStepDays != 6 {
		t.Errorf("Expected default steps, got %d/%d", params.FirstStepDays, params.SecondStepDays)
	}
}
