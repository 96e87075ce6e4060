//go:build !windows && !no_cgo

package motionplan

import (
	"context"
	"math"

	"github.com/go-nlopt/nlopt"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

const (
	reducedDoF = 2

	// stands in for an infinite margin, which nlopt cannot difference
	unboundedMargin = 1e6

	roundoffLimitedStatus = "ROUNDOFF_LIMITED"
)

type optimizeReturn struct {
	solution []float64
	err      error
}

// bestIterate is the lowest cost configuration seen so far whose margin is within tolerance of feasible.
type bestIterate struct {
	q     Reduced
	cost  float64
	found bool
}

func (o *Optimizer) solve(ctx context.Context, start Reduced, result *OptimizeResult) error {
	opt, err := nlopt.NewNLopt(nlopt.LD_SLSQP, reducedDoF)
	if err != nil {
		return errors.Wrap(err, "nlopt creation error")
	}
	defer opt.Destroy()

	jump, err := o.calcJump(defaultJump, start)
	if err != nil {
		return err
	}

	lower := []float64{-o.opts.SampleRange, -o.opts.SampleRange}
	upper := []float64{o.opts.SampleRange, o.opts.SampleRange}
	tol := o.opts.ConstraintTolerance

	var evalErr error
	abort := func(err error) {
		o.logger.Errorw("error evaluating configuration in nlopt", "error", err)
		evalErr = multierr.Combine(evalErr, err, opt.ForceStop())
	}
	best := bestIterate{cost: math.Inf(1)}

	// x is the reduced configuration.
	// Gradient is, under the hood, an unsafe C structure that we are meant to mutate in place.
	nloptMinFunc := func(x, gradient []float64) float64 {
		q := ReducedFromFloats(x)
		step, colliding, err := o.problem.evaluate(q)
		if err != nil {
			abort(err)
			return 0
		}
		result.Evaluations++
		if !colliding {
			result.Trace.emit(step)
			if step.Margin >= -tol && step.Cost < best.cost {
				best = bestIterate{q: q, cost: step.Cost, found: true}
			}
		}
		if len(gradient) > 0 {
			if err := finiteDifference(q, step.Cost, jump, upper, o.problem.Cost, gradient); err != nil {
				abort(err)
				return 0
			}
		}
		return step.Cost
	}

	// nlopt treats a constraint as satisfied when it is non-positive, so the margin is negated.
	negMargin := func(q Reduced) (float64, error) {
		margin, err := o.problem.Margin(q)
		return -math.Min(margin, unboundedMargin), err
	}
	nloptConstraintFunc := func(x, gradient []float64) float64 {
		q := ReducedFromFloats(x)
		value, err := negMargin(q)
		if err != nil {
			abort(err)
			return 0
		}
		if len(gradient) > 0 {
			if err := finiteDifference(q, value, jump, upper, negMargin, gradient); err != nil {
				abort(err)
				return 0
			}
		}
		return value
	}

	err = multierr.Combine(
		opt.SetLowerBounds(lower),
		opt.SetUpperBounds(upper),
		opt.SetFtolRel(o.opts.FtolRel),
		opt.SetXtolRel(o.opts.XtolRel),
		opt.SetMaxEval(o.opts.MaxEvaluations),
		opt.SetMinObjective(nloptMinFunc),
		opt.AddInequalityConstraint(nloptConstraintFunc, tol),
	)
	if err != nil {
		return errors.Wrap(err, "nlopt setup error")
	}

	solveChan := make(chan *optimizeReturn, 1)
	utils.PanicCapturingGo(func() {
		solution, _, nloptErr := opt.Optimize(start.Floats())
		solveChan <- &optimizeReturn{solution, nloptErr}
	})
	var solution *optimizeReturn
	select {
	case <-ctx.Done():
		stopErr := opt.ForceStop()
		<-solveChan
		return multierr.Combine(ctx.Err(), stopErr)
	case solution = <-solveChan:
	}
	result.Status = opt.LastStatus()
	if evalErr != nil {
		return evalErr
	}

	solverErr := solution.err
	if solverErr != nil && result.Status == roundoffLimitedStatus {
		// progress stopped at floating point resolution; the iterate is still usable
		o.logger.Debugw("solver stopped on roundoff", "run", result.Trace.RunID)
		solverErr = nil
	}

	final := start
	switch {
	case best.found:
		final = best.q
	case solution.solution != nil:
		final = ReducedFromFloats(solution.solution)
	}
	return o.finish(result, final, solverErr)
}

// finiteDifference fills gradient with forward differences of f around q, stepping backwards instead where a forward
// step would cross the upper bound.
func finiteDifference(
	q Reduced,
	fq float64,
	jump, upper []float64,
	f func(Reduced) (float64, error),
	gradient []float64,
) error {
	for i := range gradient {
		stepped := q
		flip := false
		stepped[i] += jump[i]
		if stepped[i] >= upper[i] {
			flip = true
			stepped[i] -= 2 * jump[i]
		}
		fStepped, err := f(stepped)
		if err != nil {
			return err
		}
		gradient[i] = (fStepped - fq) / jump[i]
		if flip {
			gradient[i] *= -1
		}
	}
	return nil
}

// calcJump picks, per coordinate, the smallest finite difference step that changes the cost at the seed, starting
// from testJump and growing by factors of ten.
func (o *Optimizer) calcJump(testJump float64, seed Reduced) ([]float64, error) {
	seedCost, err := o.problem.Cost(seed)
	if err != nil {
		return nil, err
	}
	jump := make([]float64, 0, reducedDoF)
	for i := 0; i < reducedDoF; i++ {
		chosen := testJump
		for jumpVal := testJump; jumpVal < 1; jumpVal *= 10 {
			stepped := seed
			stepped[i] += jumpVal
			if stepped[i] > o.opts.SampleRange {
				stepped[i] = seed[i] - jumpVal
			}
			checkCost, err := o.problem.Cost(stepped)
			if err != nil {
				return nil, err
			}
			if checkCost != seedCost {
				chosen = jumpVal
				break
			}
		}
		jump = append(jump, chosen)
	}
	return jump, nil
}
