package motionplan

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"go.viam.com/cspace/logging"
)

var defaultNumThreads = max(runtime.NumCPU()/2, 1)

// OptimizeMultiStart runs starts optimizations from independent random samples in parallel. Each worker gets its own
// clone of the problem's engine and a random source seeded with opts.Seed plus its index, so results are reproducible.
// The observer, if any, is called from several goroutines and must be safe for concurrent use.
// The best converged result is returned, or the lowest cost one when none converged, along with every result in
// start order.
func OptimizeMultiStart(
	ctx context.Context,
	problem *Problem,
	opts *Options,
	starts int,
	logger logging.Logger,
	observer Observer,
) (*OptimizeResult, []*OptimizeResult, error) {
	if starts < 1 {
		return nil, nil, errors.Errorf("at least one start is required, got %d", starts)
	}
	results := make([]*OptimizeResult, starts)
	finished := atomic.NewInt64(0)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultNumThreads)
	for i := 0; i < starts; i++ {
		workerOpts := *opts
		workerOpts.Seed = opts.Seed + int64(i)
		workerLogger := logger.WithFields("start", i, "seed", workerOpts.Seed)
		worker := NewOptimizer(problem.Clone(), &workerOpts, workerLogger)
		g.Go(func() error {
			result, err := worker.Optimize(gctx, nil, observer)
			if err != nil {
				return errors.Wrapf(err, "start %d", i)
			}
			results[i] = result
			workerLogger.Debugw("start finished",
				"finished", finished.Inc(),
				"of", starts,
				"cost", result.FinalCost,
				"converged", result.Converged,
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return bestResult(results), results, nil
}

func bestResult(results []*OptimizeResult) *OptimizeResult {
	var best *OptimizeResult
	for _, r := range results {
		switch {
		case best == nil:
			best = r
		case r.Converged && !best.Converged:
			best = r
		case r.Converged == best.Converged && r.FinalCost < best.FinalCost:
			best = r
		}
	}
	return best
}
