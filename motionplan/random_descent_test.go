package motionplan

import (
	"context"
	"errors"
	"testing"

	"go.viam.com/test"

	"go.viam.com/cspace/logging"
)

func TestRandomDescentNeverWorsens(t *testing.T) {
	problem := makeTestProblem(t, makeTestObstacles(t))
	logger := logging.NewTestLogger(t)

	for seed := int64(0); seed < 5; seed++ {
		opts := NewDefaultOptions()
		opts.Seed = seed
		var observed []Step
		rd := NewRandomDescent(problem, opts, logger)
		result, err := rd.Run(context.Background(), nil, ObserverFunc(func(s Step) { observed = append(observed, s) }))
		test.That(t, err, test.ShouldBeNil)

		steps := result.Trace.Steps()
		test.That(t, result.Accepted, test.ShouldEqual, len(steps))
		test.That(t, observed, test.ShouldResemble, steps)
		test.That(t, result.FinalCost, test.ShouldBeLessThanOrEqualTo, result.StartCost)

		previous := result.StartCost
		for _, step := range steps {
			test.That(t, step.Cost, test.ShouldBeLessThan, previous)
			previous = step.Cost
			colliding, err := problem.IsColliding(step.Reduced)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, colliding, test.ShouldBeFalse)
			test.That(t, problem.Codec.Project(step.Full), test.ShouldResemble, step.Reduced)
		}
		if len(steps) > 0 {
			test.That(t, steps[len(steps)-1].Reduced, test.ShouldResemble, result.Final)
		} else {
			test.That(t, result.Final, test.ShouldResemble, result.Start)
		}
	}
}

func TestRandomDescentImprovesWithoutObstacles(t *testing.T) {
	problem := makeTestProblem(t, nil)
	opts := NewDefaultOptions()
	opts.Seed = 11
	rd := NewRandomDescent(problem, opts, logging.NewTestLogger(t))

	start := Reduced{0, 0}
	result, err := rd.Run(context.Background(), &start, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Start, test.ShouldResemble, start)
	test.That(t, result.Accepted, test.ShouldBeGreaterThan, 0)
	test.That(t, result.FinalCost, test.ShouldBeLessThan, result.StartCost)

	costs := result.Trace.Costs()
	test.That(t, costs[len(costs)-1], test.ShouldEqual, result.FinalCost)
}

func TestRandomDescentZeroIterations(t *testing.T) {
	problem := makeTestProblem(t, nil)
	opts := NewDefaultOptions()
	opts.Iterations = 0
	rd := NewRandomDescent(problem, opts, logging.NewTestLogger(t))
	start := Reduced{0.2, 0.1}
	result, err := rd.Run(context.Background(), &start, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Accepted, test.ShouldEqual, 0)
	test.That(t, result.Final, test.ShouldResemble, start)
	test.That(t, result.FinalCost, test.ShouldEqual, result.StartCost)
}

func TestRandomDescentCancellation(t *testing.T) {
	problem := makeTestProblem(t, nil)
	rd := NewRandomDescent(problem, NewDefaultOptions(), logging.NewTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := Reduced{}
	_, err := rd.Run(ctx, &start, nil)
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
}
