package motionplan

import (
	"context"
	"math/rand"

	"go.viam.com/cspace/logging"
	"go.viam.com/cspace/utils"
)

// OptimizeResult is the outcome of a constrained optimization. Final is only trustworthy as a feasible configuration
// when Converged is true; otherwise Err explains why and wraps ErrOptimizerNonConvergence.
type OptimizeResult struct {
	Start       Reduced
	StartCost   float64
	Final       Reduced
	FinalCost   float64
	FinalMargin float64

	// Objective evaluations requested by the solver, finite difference steps excluded.
	Evaluations int
	// Status string reported by the solver for its last call.
	Status    string
	Converged bool
	Err       error

	Trace *Trace
}

// Optimizer minimizes the target cost subject to a non-negative feasibility margin using sequential least squares
// programming, with gradients estimated by finite differences.
type Optimizer struct {
	problem *Problem
	sampler *Sampler
	opts    *Options
	logger  logging.Logger
}

// NewOptimizer creates an optimizer over the problem. Random starting points are drawn from a source seeded with
// opts.Seed.
func NewOptimizer(problem *Problem, opts *Options, logger logging.Logger) *Optimizer {
	//nolint: gosec
	randseed := rand.New(rand.NewSource(opts.Seed))
	return &Optimizer{
		problem: problem,
		sampler: NewSampler(problem, opts, randseed, logger),
		opts:    opts,
		logger:  logger,
	}
}

// Optimize runs the solver from start, or from a random collision free sample when start is nil. A colliding start
// fails with ErrStartColliding. Every collision
// free configuration the solver evaluates is emitted to the observer. A non-nil error is returned only when the run
// could not be carried out, such as a failed start sample, an engine failure or cancellation; a run that ends
// infeasible is reported through the result.
func (o *Optimizer) Optimize(ctx context.Context, start *Reduced, observer Observer) (*OptimizeResult, error) {
	var q0 Reduced
	if start != nil {
		q0 = *start
	} else {
		var err error
		q0, err = o.sampler.Sample(ctx, true)
		if err != nil {
			return nil, err
		}
	}
	// the solver rejects starting points outside its bounds
	q0 = Reduced{
		utils.Clamp(q0[0], -o.opts.SampleRange, o.opts.SampleRange),
		utils.Clamp(q0[1], -o.opts.SampleRange, o.opts.SampleRange),
	}
	if start != nil {
		if err := o.problem.checkFreeStart(q0); err != nil {
			return nil, err
		}
	}
	startCost, err := o.problem.Cost(q0)
	if err != nil {
		return nil, err
	}

	result := &OptimizeResult{Start: q0, StartCost: startCost, Trace: newTrace("slsqp", observer)}
	o.logger.Debugw("starting constrained optimization", "run", result.Trace.RunID, "start", q0, "cost", startCost)
	if err := o.solve(ctx, q0, result); err != nil {
		return nil, err
	}

	if result.Converged {
		o.logger.Infow("optimization converged",
			"run", result.Trace.RunID,
			"final", result.Final,
			"cost", result.FinalCost,
			"margin", result.FinalMargin,
			"evaluations", result.Evaluations,
		)
	} else {
		o.logger.Warnw("optimization did not converge",
			"run", result.Trace.RunID,
			"status", result.Status,
			"margin", result.FinalMargin,
			"error", result.Err,
		)
	}
	return result, nil
}

// finish evaluates the chosen configuration and decides convergence.
func (o *Optimizer) finish(result *OptimizeResult, final Reduced, solverErr error) error {
	cost, err := o.problem.Cost(final)
	if err != nil {
		return err
	}
	margin, err := o.problem.Margin(final)
	if err != nil {
		return err
	}
	result.Final = final
	result.FinalCost = cost
	result.FinalMargin = margin
	result.Converged = solverErr == nil && margin >= -o.opts.ConstraintTolerance
	if !result.Converged {
		result.Err = newOptimizerNonConvergenceError(result.Status, margin)
	}
	return nil
}
