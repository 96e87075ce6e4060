package motionplan

import (
	"context"
	"math/rand"

	"go.viam.com/cspace/logging"
	"go.viam.com/cspace/utils"
)

// Sampler draws reduced configurations uniformly from the sampling box. It owns its random source, so a Sampler
// must not be shared between goroutines.
type Sampler struct {
	problem     *Problem
	randseed    *rand.Rand
	sampleRange float64
	maxAttempts int
	logger      logging.Logger
}

// NewSampler returns a sampler over the problem using the given random source.
func NewSampler(problem *Problem, opts *Options, randseed *rand.Rand, logger logging.Logger) *Sampler {
	return &Sampler{
		problem:     problem,
		randseed:    randseed,
		sampleRange: opts.SampleRange,
		maxAttempts: opts.MaxSampleAttempts,
		logger:      logger,
	}
}

func (s *Sampler) draw() Reduced {
	return Reduced{
		utils.UniformSymmetric(s.randseed, s.sampleRange),
		utils.UniformSymmetric(s.randseed, s.sampleRange),
	}
}

// Sample draws a configuration. With rejectColliding it redraws until the configuration is collision free, giving
// up with ErrSamplingExhausted after the configured number of attempts.
func (s *Sampler) Sample(ctx context.Context, rejectColliding bool) (Reduced, error) {
	if !rejectColliding {
		return s.draw(), nil
	}
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Reduced{}, err
		}
		q := s.draw()
		colliding, err := s.problem.IsColliding(q)
		if err != nil {
			return Reduced{}, err
		}
		if !colliding {
			if attempt > 1 {
				s.logger.Debugw("collision free sample found", "attempts", attempt, "q", q)
			}
			return q, nil
		}
	}
	return Reduced{}, NewSamplingExhaustedError(s.maxAttempts)
}

// SampleNearTarget draws collision free configurations until one has a target cost below thresh. Every collision
// free candidate is reported to the observer, if any, before it is tested against the threshold.
func (s *Sampler) SampleNearTarget(ctx context.Context, thresh float64, maxAttempts int, observer Observer) (Reduced, error) {
	if maxAttempts < 1 {
		maxAttempts = s.maxAttempts
	}
	trace := newTrace("near_target", observer)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Reduced{}, err
		}
		q := s.draw()
		step, colliding, err := s.problem.evaluate(q)
		if err != nil {
			return Reduced{}, err
		}
		if colliding {
			continue
		}
		trace.emit(step)
		if step.Cost < thresh {
			s.logger.Debugw("found configuration near target", "attempts", attempt, "q", q, "cost", step.Cost)
			return q, nil
		}
	}
	return Reduced{}, NewSamplingExhaustedError(maxAttempts)
}
