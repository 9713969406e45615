package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged random decisions.
// Every chance roll and weighted draw is logged at debug level with its inputs
// and outcome so a battle transcript can explain each decision.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if src == nil {
		panic("dice.NewLoggedRoller: src must not be nil")
	}
	if logger == nil {
		panic("dice.NewLoggedRoller: logger must not be nil")
	}
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness source.
func (r *Roller) Source() Source { return r.src }

// Chance performs one Bernoulli trial: a single uniform draw in [0, 1) that
// passes when it is strictly less than p. Values of p >= 1 always pass and
// values <= 0 never pass, but a draw is consumed either way.
//
// Postcondition: exactly one value is drawn from the Source.
func (r *Roller) Chance(label string, p float64) bool {
	roll := r.src.Float64()
	pass := roll < p
	r.logger.Debug("chance roll",
		zap.String("label", label),
		zap.Float64("probability", p),
		zap.Float64("roll", roll),
		zap.Bool("pass", pass),
	)
	return pass
}

// Pick returns a uniform index in [0, n).
//
// Precondition: n > 0.
func (r *Roller) Pick(n int) int {
	return r.src.Intn(n)
}

// Weighted draws an index with probability proportional to weights[i] using a
// cumulative-weight array and a single uniform draw. Negative weights count as
// zero.
//
// Postcondition: returns (-1, false) without drawing when the total weight is
// not positive; otherwise weights[idx] > 0.
func (r *Roller) Weighted(label string, weights []float64) (int, bool) {
	cumulative := make([]float64, len(weights))
	total := 0.0
	last := -1
	for i, w := range weights {
		if w > 0 {
			total += w
			last = i
		}
		cumulative[i] = total
	}
	if total <= 0 {
		return -1, false
	}

	roll := r.src.Float64() * total
	idx := last
	for i, c := range cumulative {
		if weights[i] > 0 && roll < c {
			idx = i
			break
		}
	}
	r.logger.Debug("weighted draw",
		zap.String("label", label),
		zap.Float64s("weights", weights),
		zap.Float64("roll", roll),
		zap.Int("index", idx),
	)
	return idx, true
}
