// Package survey samples the reduced configuration space to show where the arm is free, where it collides, and how
// far from the target each configuration places the end effector.
package survey

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/cspace/motionplan"
)

// Sample is one surveyed configuration.
type Sample struct {
	Q         motionplan.Reduced
	Colliding bool
	Cost      float64
	Margin    float64
}

// SampleSpace draws n unrestricted configurations and evaluates each of them.
func SampleSpace(ctx context.Context, problem *motionplan.Problem, sampler *motionplan.Sampler, n int) ([]Sample, error) {
	samples := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q, err := sampler.Sample(ctx, false)
		if err != nil {
			return nil, err
		}
		colliding, err := problem.IsColliding(q)
		if err != nil {
			return nil, err
		}
		cost, err := problem.Cost(q)
		if err != nil {
			return nil, err
		}
		margin, err := problem.Margin(q)
		if err != nil {
			return nil, err
		}
		samples = append(samples, Sample{Q: q, Colliding: colliding, Cost: cost, Margin: margin})
	}
	return samples, nil
}

// Summary describes a survey.
type Summary struct {
	Total        int
	Free         int
	Colliding    int
	FreeFraction float64

	CostMin, CostMedian, CostMean, CostMax float64
	// Margin statistics over the free samples with a finite margin.
	MarginMin, MarginMean, MarginStdDev float64
}

// Summarize computes the counts and statistics of a survey. Margin statistics are zero when no free sample has a finite
// margin.
func Summarize(samples []Sample) (*Summary, error) {
	if len(samples) == 0 {
		return nil, errors.New("cannot summarize an empty survey")
	}
	free := lo.Filter(samples, func(s Sample, _ int) bool { return !s.Colliding })
	summary := &Summary{
		Total:        len(samples),
		Free:         len(free),
		Colliding:    len(samples) - len(free),
		FreeFraction: float64(len(free)) / float64(len(samples)),
	}

	costs := stats.Float64Data(lo.Map(samples, func(s Sample, _ int) float64 { return s.Cost }))
	var err, e error
	summary.CostMin, e = costs.Min()
	multierr.AppendInto(&err, e)
	summary.CostMedian, e = costs.Median()
	multierr.AppendInto(&err, e)
	summary.CostMean, e = costs.Mean()
	multierr.AppendInto(&err, e)
	summary.CostMax, e = costs.Max()
	multierr.AppendInto(&err, e)

	if margins := stats.Float64Data(freeMargins(samples)); len(margins) > 0 {
		summary.MarginMin, e = margins.Min()
		multierr.AppendInto(&err, e)
		summary.MarginMean, e = margins.Mean()
		multierr.AppendInto(&err, e)
		summary.MarginStdDev, e = margins.StandardDeviation()
		multierr.AppendInto(&err, e)
	}
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func freeMargins(samples []Sample) []float64 {
	return lo.FilterMap(samples, func(s Sample, _ int) (float64, bool) {
		return s.Margin, !s.Colliding && !math.IsInf(s.Margin, 0)
	})
}

// FprintMarginHistogram writes a text histogram of the free samples' feasibility margins.
func FprintMarginHistogram(w io.Writer, samples []Sample, bins, width int) error {
	margins := freeMargins(samples)
	if len(margins) == 0 {
		_, err := fmt.Fprintln(w, "no free samples with a finite margin")
		return err
	}
	return histogram.Fprint(w, histogram.Hist(bins, margins), histogram.Linear(width))
}
