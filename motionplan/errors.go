package motionplan

import (
	"github.com/pkg/errors"
)

var (
	// ErrSamplingExhausted is returned when no configuration satisfying the sampling criteria was found within the
	// allowed number of attempts.
	ErrSamplingExhausted = errors.New("sampling exhausted without finding a qualifying configuration")

	// ErrOptimizerNonConvergence flags an optimization result that does not satisfy the clearance constraint or whose
	// solver stopped on an error. The configuration it accompanies must not be trusted as feasible.
	ErrOptimizerNonConvergence = errors.New("optimizer did not converge to a feasible configuration")

	// ErrStartColliding is returned when a planner is handed a start configuration that is in collision.
	ErrStartColliding = errors.New("start configuration is in collision")

	errBadCodecSlots = errors.New("reduced slots must be two distinct joints of the full configuration")
)

// NewSamplingExhaustedError returns an error wrapping ErrSamplingExhausted with the number of attempts made.
func NewSamplingExhaustedError(attempts int) error {
	return errors.Wrapf(ErrSamplingExhausted, "no qualifying configuration after %d attempts", attempts)
}

func newOptimizerNonConvergenceError(status string, margin float64) error {
	return errors.Wrapf(ErrOptimizerNonConvergence, "solver status %s, feasibility margin %.6f", status, margin)
}

// NewStartCollidingError returns an error wrapping ErrStartColliding naming the start.
func NewStartCollidingError(start Reduced) error {
	return errors.Wrapf(ErrStartColliding, "start %v", start)
}
