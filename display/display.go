// Package display contains observers that show planner steps as they are emitted.
package display

import (
	"context"
	"sync"
	"time"

	goutils "go.viam.com/utils"

	"go.viam.com/cspace/logging"
	"go.viam.com/cspace/motionplan"
)

// LoggingSink logs every step it receives and then waits for delay, pacing the planner so a viewer can follow it.
// The wait ends early once ctx is done.
type LoggingSink struct {
	ctx    context.Context
	logger logging.Logger
	delay  time.Duration
}

// NewLoggingSink returns a sink logging to logger at debug level.
func NewLoggingSink(ctx context.Context, logger logging.Logger, delay time.Duration) *LoggingSink {
	return &LoggingSink{ctx: ctx, logger: logger, delay: delay}
}

// OnStep implements motionplan.Observer.
func (ls *LoggingSink) OnStep(step motionplan.Step) {
	ls.logger.Debugw("configuration",
		"index", step.Index,
		"q", step.Reduced,
		"cost", step.Cost,
		"margin", step.Margin,
	)
	if ls.delay > 0 {
		goutils.SelectContextOrWait(ls.ctx, ls.delay)
	}
}

// Recorder keeps every step it receives. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	steps []motionplan.Step
}

// OnStep implements motionplan.Observer.
func (r *Recorder) OnStep(step motionplan.Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, step)
}

// Steps returns a copy of the recorded steps.
func (r *Recorder) Steps() []motionplan.Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]motionplan.Step(nil), r.steps...)
}

// Len returns how many steps were recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.steps)
}

// Fanout forwards each step to every observer in order.
type Fanout []motionplan.Observer

// OnStep implements motionplan.Observer.
func (f Fanout) OnStep(step motionplan.Step) {
	for _, o := range f {
		o.OnStep(step)
	}
}
