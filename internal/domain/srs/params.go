package srs

// Params defines all configurable parameters for the SM-2 scheduling
// algorithm.
type Params struct {
	// MinEaseFactor is the lower bound for ease factors. There is no upper
	// bound; well-known cards may grow their ease factor indefinitely.
	MinEaseFactor float64

	// MaxIntervalDays caps how far out any single review can be scheduled.
	MaxIntervalDays int

	// FirstStepDays is the interval after the first successful repetition
	// in a streak, and after any failed review.
	FirstStepDays int

	// SecondStepDays is the interval after the second consecutive
	// successful repetition.
	SecondStepDays int

	// EaseDecimalPlaces controls rounding of the stored ease factor.
	EaseDecimalPlaces int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero-valued fields keep their defaults.
type ParamsConfig struct {
	MinEaseFactor   float64
	MaxIntervalDays int
	FirstStepDays   int
	SecondStepDays  int
}

// NewDefaultParams creates a new Params instance with the standard SM-2
// values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:     1.3,
		MaxIntervalDays:   365,
		FirstStepDays:     1,
		SecondStepDays:    6,
		EaseDecimalPlaces: 2,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxIntervalDays > 0 {
		params.MaxIntervalDays = config.MaxIntervalDays
	}
	if config.FirstStepDays > 0 {
		params.FirstStepDays = config.FirstStepDays
	}
	if config.SecondStepDays > 0 {
		params.SecondStepDays = config.SecondStepDays
	}

	return params
}
