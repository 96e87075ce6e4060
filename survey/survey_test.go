package survey

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/cspace/collision"
	"go.viam.com/cspace/components/arm/universalrobots"
	"go.viam.com/cspace/logging"
	"go.viam.com/cspace/motionplan"
	"go.viam.com/cspace/spatialmath"
)

func makeSurvey(t *testing.T, n int) (*motionplan.Problem, []Sample) {
	t.Helper()
	model, err := universalrobots.MakeModelFrame("")
	test.That(t, err, test.ShouldBeNil)
	// a ball just above the shoulder blocks the arm pointing up
	ball, err := spatialmath.NewSphere(spatialmath.NewPoseFromPoint(r3.Vector{Y: 0.05, Z: 0.45}), 0.1, "ball")
	test.That(t, err, test.ShouldBeNil)
	scene, err := collision.NewScene(model, []spatialmath.Geometry{ball})
	test.That(t, err, test.ShouldBeNil)
	problem, err := motionplan.NewProblem(scene, nil, r2.Point{X: 0.5, Y: 0.5}, motionplan.DefaultCollisionThreshold)
	test.That(t, err, test.ShouldBeNil)

	opts := motionplan.NewDefaultOptions()
	//nolint: gosec
	sampler := motionplan.NewSampler(problem, opts, rand.New(rand.NewSource(1)), logging.NewTestLogger(t))
	samples, err := SampleSpace(context.Background(), problem, sampler, n)
	test.That(t, err, test.ShouldBeNil)
	return problem, samples
}

func TestSampleSpace(t *testing.T) {
	problem, samples := makeSurvey(t, 200)
	test.That(t, samples, test.ShouldHaveLength, 200)
	for _, s := range samples {
		test.That(t, s.Cost, test.ShouldBeGreaterThanOrEqualTo, 0)
		if s.Colliding {
			test.That(t, s.Margin, test.ShouldEqual, -problem.Threshold)
		} else {
			test.That(t, s.Margin, test.ShouldBeGreaterThanOrEqualTo, -problem.Threshold)
		}
	}

	summary, err := Summarize(samples)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, summary.Total, test.ShouldEqual, 200)
	test.That(t, summary.Free+summary.Colliding, test.ShouldEqual, 200)
	test.That(t, summary.Free, test.ShouldBeGreaterThan, 0)
	test.That(t, summary.Colliding, test.ShouldBeGreaterThan, 0)
	test.That(t, summary.CostMin, test.ShouldBeLessThanOrEqualTo, summary.CostMedian)
	test.That(t, summary.CostMedian, test.ShouldBeLessThanOrEqualTo, summary.CostMax)
	test.That(t, summary.MarginMin, test.ShouldBeLessThanOrEqualTo, summary.MarginMean)

	_, err = Summarize(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSampleSpaceCancellation(t *testing.T) {
	problem, _ := makeSurvey(t, 0)
	//nolint: gosec
	sampler := motionplan.NewSampler(problem, motionplan.NewDefaultOptions(), rand.New(rand.NewSource(1)), logging.NewTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SampleSpace(ctx, problem, sampler, 10)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestMarginHistogram(t *testing.T) {
	_, samples := makeSurvey(t, 100)
	var buf bytes.Buffer
	test.That(t, FprintMarginHistogram(&buf, samples, 5, 40), test.ShouldBeNil)
	test.That(t, buf.Len(), test.ShouldBeGreaterThan, 0)

	buf.Reset()
	test.That(t, FprintMarginHistogram(&buf, []Sample{{Colliding: true}}, 5, 40), test.ShouldBeNil)
	test.That(t, buf.String(), test.ShouldContainSubstring, "no free samples")
}

func TestPlotScatter(t *testing.T) {
	problem, samples := makeSurvey(t, 50)
	filename := filepath.Join(t.TempDir(), "survey.png")
	test.That(t, PlotScatter(samples, problem.Threshold, filename), test.ShouldBeNil)
	info, err := os.Stat(filename)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)

	test.That(t, PlotScatter(nil, problem.Threshold, filename), test.ShouldNotBeNil)
}

func TestMinMax(t *testing.T) {
	lower, upper := minMax([]float64{2, 2})
	test.That(t, lower, test.ShouldEqual, 2.)
	test.That(t, upper, test.ShouldEqual, 3.)
	lower, upper = minMax([]float64{-1, 4, 0})
	test.That(t, lower, test.ShouldEqual, -1.)
	test.That(t, upper, test.ShouldEqual, 4.)
}
