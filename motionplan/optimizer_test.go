//go:build !windows && !no_cgo

package motionplan

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/cspace/logging"
	"go.viam.com/cspace/spatialmath"
)

func checkOptimizeResult(t *testing.T, problem *Problem, opts *Options, result *OptimizeResult) {
	t.Helper()
	for _, step := range result.Trace.Steps() {
		colliding, err := problem.IsColliding(step.Reduced)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, colliding, test.ShouldBeFalse)
	}
	if result.Converged {
		test.That(t, result.Err, test.ShouldBeNil)
		test.That(t, result.FinalMargin, test.ShouldBeGreaterThanOrEqualTo, -opts.ConstraintTolerance)
		test.That(t, result.FinalCost, test.ShouldBeLessThanOrEqualTo, result.StartCost)
		colliding, err := problem.IsColliding(result.Final)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, colliding, test.ShouldBeFalse)
	} else {
		test.That(t, errors.Is(result.Err, ErrOptimizerNonConvergence), test.ShouldBeTrue)
	}
}

func TestOptimizeReachesTargetWithoutObstacles(t *testing.T) {
	problem := makeTestProblem(t, nil)
	opts := NewDefaultOptions()
	optimizer := NewOptimizer(problem, opts, logging.NewTestLogger(t))

	var observed int
	start := Reduced{0, 0}
	result, err := optimizer.Optimize(context.Background(), &start, ObserverFunc(func(Step) { observed++ }))
	test.That(t, err, test.ShouldBeNil)
	checkOptimizeResult(t, problem, opts, result)

	test.That(t, result.Converged, test.ShouldBeTrue)
	test.That(t, result.FinalCost, test.ShouldBeLessThan, 1e-3)
	test.That(t, result.Evaluations, test.ShouldBeGreaterThan, 0)
	test.That(t, observed, test.ShouldEqual, result.Evaluations)
	test.That(t, result.Trace.Len(), test.ShouldEqual, result.Evaluations)
	test.That(t, result.Status, test.ShouldNotBeBlank)
}

func TestOptimizeDoesNotTunnel(t *testing.T) {
	start := Reduced{0, 0}
	free := makeTestProblem(t, nil)
	startPos, err := free.Engine.EndEffectorPosition(free.Codec.Expand(start))
	test.That(t, err, test.ShouldBeNil)

	// a ball halfway along the straight line from the starting end effector to the target, thick enough in y to
	// block every link
	mid := r2.Point{X: (startPos.X + testTarget.X) / 2, Y: (startPos.Y + testTarget.Y) / 2}
	ball := makeTestSphere(t, r3.Vector{X: mid.X, Y: 0.06, Z: mid.Y}, 0.08)
	problem := makeTestProblem(t, []spatialmath.Geometry{ball})
	opts := NewDefaultOptions()
	optimizer := NewOptimizer(problem, opts, logging.NewTestLogger(t))

	startMargin, err := problem.Margin(start)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, startMargin, test.ShouldBeGreaterThan, 0)

	result, err := optimizer.Optimize(context.Background(), &start, nil)
	test.That(t, err, test.ShouldBeNil)
	checkOptimizeResult(t, problem, opts, result)

	// the start is feasible, so whatever the solver status the returned configuration is too
	test.That(t, result.FinalMargin, test.ShouldBeGreaterThanOrEqualTo, -opts.ConstraintTolerance)
	colliding, err := problem.IsColliding(result.Final)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, colliding, test.ShouldBeFalse)
	test.That(t, result.FinalCost, test.ShouldBeLessThanOrEqualTo, result.StartCost)
}

func TestOptimizeDefaultEnvironment(t *testing.T) {
	problem := makeTestProblem(t, makeTestObstacles(t))
	for seed := int64(0); seed < 3; seed++ {
		opts := NewDefaultOptions()
		opts.Seed = seed
		optimizer := NewOptimizer(problem, opts, logging.NewTestLogger(t))
		result, err := optimizer.Optimize(context.Background(), nil, nil)
		test.That(t, err, test.ShouldBeNil)

		// a random start is only collision free, the cost guarantee needs a feasible one
		startMargin, err := problem.Margin(result.Start)
		test.That(t, err, test.ShouldBeNil)
		if startMargin >= 0 {
			checkOptimizeResult(t, problem, opts, result)
			continue
		}
		for _, step := range result.Trace.Steps() {
			test.That(t, step.Margin, test.ShouldBeGreaterThanOrEqualTo, -problem.Threshold)
		}
		if result.Converged {
			test.That(t, result.FinalMargin, test.ShouldBeGreaterThanOrEqualTo, -opts.ConstraintTolerance)
		}
	}
}

func TestOptimizeCancellation(t *testing.T) {
	problem := makeTestProblem(t, nil)
	optimizer := NewOptimizer(problem, NewDefaultOptions(), logging.NewTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := optimizer.Optimize(ctx, nil, nil)
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
}

func TestOptimizeMultiStart(t *testing.T) {
	problem := makeTestProblem(t, nil)
	opts := NewDefaultOptions()
	logger, logs := logging.NewObservedTestLogger(t)
	best, all, err := OptimizeMultiStart(context.Background(), problem, opts, 3, logger, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, all, test.ShouldHaveLength, 3)
	finished := logs.FilterMessage("start finished").All()
	test.That(t, finished, test.ShouldHaveLength, 3)
	counts := map[int64]bool{}
	for _, entry := range finished {
		counts[entry.ContextMap()["finished"].(int64)] = true
	}
	test.That(t, counts, test.ShouldResemble, map[int64]bool{1: true, 2: true, 3: true})
	test.That(t, all[0].Start, test.ShouldNotResemble, all[1].Start)
	for _, r := range all {
		test.That(t, best.Converged || !r.Converged, test.ShouldBeTrue)
		if r.Converged == best.Converged {
			test.That(t, best.FinalCost, test.ShouldBeLessThanOrEqualTo, r.FinalCost)
		}
	}

	_, _, err = OptimizeMultiStart(context.Background(), problem, opts, 0, logging.NewTestLogger(t), nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFiniteDifference(t *testing.T) {
	f := func(q Reduced) (float64, error) { return 3*q[0] - 2*q[1], nil }
	q := Reduced{1, 2.9999999}
	fq, _ := f(q)
	gradient := make([]float64, 2)
	err := finiteDifference(q, fq, []float64{1e-6, 1e-6}, []float64{3, 3}, f, gradient)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, gradient[0], test.ShouldAlmostEqual, 3, 1e-6)
	// stepping forward would cross the bound, so the backward difference is used
	test.That(t, gradient[1], test.ShouldAlmostEqual, -2, 1e-6)
}
