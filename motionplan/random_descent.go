package motionplan

import (
	"context"
	"math/rand"

	"go.viam.com/cspace/logging"
)

// DescentResult is the outcome of a random descent run.
type DescentResult struct {
	Start     Reduced
	Final     Reduced
	StartCost float64
	FinalCost float64
	// Number of proposals accepted, equal to the number of steps in the trace.
	Accepted int
	Trace    *Trace
}

// RandomDescent is a greedy stochastic walker: it proposes small random moves and keeps those that lower the target
// cost without colliding. It never accepts a worsening move and may stall in a local minimum.
type RandomDescent struct {
	problem *Problem
	sampler *Sampler
	opts    *Options
	logger  logging.Logger
}

// NewRandomDescent creates a walker over the problem. The random source is seeded from opts.Seed.
func NewRandomDescent(problem *Problem, opts *Options, logger logging.Logger) *RandomDescent {
	//nolint: gosec
	randseed := rand.New(rand.NewSource(opts.Seed))
	return &RandomDescent{
		problem: problem,
		sampler: NewSampler(problem, opts, randseed, logger),
		opts:    opts,
		logger:  logger,
	}
}

// Run walks from start, or from a random collision free sample when start is nil, for the configured number of
// iterations. Each accepted configuration is emitted to the observer. A colliding start fails with
// ErrStartColliding.
func (rd *RandomDescent) Run(ctx context.Context, start *Reduced, observer Observer) (*DescentResult, error) {
	var q Reduced
	if start != nil {
		q = *start
		if err := rd.problem.checkFreeStart(q); err != nil {
			return nil, err
		}
	} else {
		var err error
		q, err = rd.sampler.Sample(ctx, true)
		if err != nil {
			return nil, err
		}
	}
	cost, err := rd.problem.Cost(q)
	if err != nil {
		return nil, err
	}

	result := &DescentResult{Start: q, StartCost: cost, Trace: newTrace("random_descent", observer)}
	rd.logger.Debugw("starting random descent", "run", result.Trace.RunID, "start", q, "cost", cost)

	for i := 0; i < rd.opts.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dq, err := rd.sampler.Sample(ctx, false)
		if err != nil {
			return nil, err
		}
		candidate := q.Add(dq.Scale(rd.opts.StepScale))
		candidateCost, err := rd.problem.Cost(candidate)
		if err != nil {
			return nil, err
		}
		if candidateCost >= cost {
			continue
		}
		step, colliding, err := rd.problem.evaluate(candidate)
		if err != nil {
			return nil, err
		}
		if colliding {
			continue
		}
		q, cost = candidate, candidateCost
		result.Trace.emit(step)
		rd.logger.Debugw("accepted step", "run", result.Trace.RunID, "iteration", i, "q", q, "cost", cost, "margin", step.Margin)
	}

	result.Final = q
	result.FinalCost = cost
	result.Accepted = result.Trace.Len()
	rd.logger.Infow("random descent finished",
		"run", result.Trace.RunID,
		"start_cost", result.StartCost,
		"final_cost", result.FinalCost,
		"accepted", result.Accepted,
	)
	return result, nil
}
