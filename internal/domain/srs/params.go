package srs

// DefaultSessionSize is substituted when a caller requests a non-positive
// number of items for a session.
const DefaultSessionSize = 5

// Params defines all configurable parameters for the review scheduler.
type Params struct {
	// IntervalDays maps a mastery level to the number of days until the
	// next review after a successful practice at that level. Indexed by
	// the item's new mastery level.
	IntervalDays []int

	// PoolFactor controls how many ranked items feed the randomized
	// selection pool: pool size = requested count * PoolFactor, clamped
	// to the corpus size. It is a tunable, not a correctness knob.
	PoolFactor int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		// Level 0 items are due again the same day; a fully mastered
		// item rests for a month.
		IntervalDays: []int{0, 1, 3, 7, 14, 30},
		PoolFactor:   2,
	}
}

// ParamsConfig allows overriding the default parameters.
type ParamsConfig struct {
	IntervalDays []int
	PoolFactor   int
}

// NewParams creates a new Params instance with custom configuration.
// Zero-valued fields keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if len(config.IntervalDays) > 0 {
		params.IntervalDays = config.IntervalDays
	}

	if config.PoolFactor > 0 {
		params.PoolFactor = config.PoolFactor
	}

	return params
}
