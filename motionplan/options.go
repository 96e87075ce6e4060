package motionplan

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// default values for planning options.
const (
	// Each reduced coordinate is sampled uniformly from [-defaultSampleRange, defaultSampleRange] radians.
	defaultSampleRange = 3.

	// Number of draws before rejection sampling gives up.
	defaultMaxSampleAttempts = 10000

	// Number of proposals the random descent walker makes.
	defaultDescentIterations = 100

	// Random descent proposals are a uniform sample scaled by this much.
	defaultStepScale = 0.1

	// Sampling near the target accepts configurations closer than this, in meters.
	defaultNearTargetThreshold = 5e-2

	// Solver stopping tolerances.
	defaultFtolRel = 1e-6
	defaultXtolRel = 1e-6

	// Maximum number of objective evaluations the solver may request.
	defaultMaxEvaluations = 500

	// How far below zero the feasibility margin may be for a solver iterate to count as feasible.
	defaultConstraintTolerance = 1e-6

	// Smallest finite difference step tried when estimating gradients.
	defaultJump = 1e-8
)

// Options configure the sampler and both planners. Zero values are replaced with defaults by NewDefaultOptions.
type Options struct {
	// Safety distance subtracted from the minimum clearance
	Threshold float64 `json:"threshold"`

	// Half width of the sampling box for each reduced coordinate, also the optimizer bounds
	SampleRange float64 `json:"sample_range"`

	// Rejection sampling ceiling
	MaxSampleAttempts int `json:"max_sample_attempts"`

	// Random descent budget and step scale
	Iterations int     `json:"iterations"`
	StepScale  float64 `json:"step_scale"`

	// Constrained optimizer settings
	FtolRel             float64 `json:"ftol_rel"`
	XtolRel             float64 `json:"xtol_rel"`
	MaxEvaluations      int     `json:"max_evaluations"`
	ConstraintTolerance float64 `json:"constraint_tolerance"`

	// Seed for the random source of the planners
	Seed int64 `json:"seed"`
}

// NewDefaultOptions returns the options matching the original exploration exercise.
func NewDefaultOptions() *Options {
	return &Options{
		Threshold:           DefaultCollisionThreshold,
		SampleRange:         defaultSampleRange,
		MaxSampleAttempts:   defaultMaxSampleAttempts,
		Iterations:          defaultDescentIterations,
		StepScale:           defaultStepScale,
		FtolRel:             defaultFtolRel,
		XtolRel:             defaultXtolRel,
		MaxEvaluations:      defaultMaxEvaluations,
		ConstraintTolerance: defaultConstraintTolerance,
	}
}

// Validate reports every option that is out of range.
func (opts *Options) Validate() error {
	var err error
	if opts.Threshold < 0 {
		multierr.AppendInto(&err, errors.Errorf("threshold must not be negative, got %v", opts.Threshold))
	}
	if opts.SampleRange <= 0 {
		multierr.AppendInto(&err, errors.Errorf("sample range must be positive, got %v", opts.SampleRange))
	}
	if opts.MaxSampleAttempts < 1 {
		multierr.AppendInto(&err, errors.Errorf("max sample attempts must be at least 1, got %d", opts.MaxSampleAttempts))
	}
	if opts.Iterations < 0 {
		multierr.AppendInto(&err, errors.Errorf("iterations must not be negative, got %d", opts.Iterations))
	}
	if opts.StepScale <= 0 {
		multierr.AppendInto(&err, errors.Errorf("step scale must be positive, got %v", opts.StepScale))
	}
	if opts.MaxEvaluations < 1 {
		multierr.AppendInto(&err, errors.Errorf("max evaluations must be at least 1, got %d", opts.MaxEvaluations))
	}
	if opts.ConstraintTolerance < 0 {
		multierr.AppendInto(&err, errors.Errorf("constraint tolerance must not be negative, got %v", opts.ConstraintTolerance))
	}
	return err
}
