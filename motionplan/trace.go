package motionplan

import (
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"go.viam.com/cspace/referenceframe"
)

// Step is one configuration emitted by a planner. Every emitted step has passed the collision test.
type Step struct {
	Index   int
	Reduced Reduced
	Full    []referenceframe.Input
	Cost    float64
	Margin  float64
}

// Observer receives planner steps as they are emitted, typically to display them. OnStep must return promptly.
type Observer interface {
	OnStep(step Step)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(step Step)

// OnStep calls f(step).
func (f ObserverFunc) OnStep(step Step) {
	f(step)
}

// Trace is the append only record of the steps a planner run emitted.
type Trace struct {
	RunID   uuid.UUID
	Planner string

	mu       sync.Mutex
	steps    []Step
	observer Observer
}

func newTrace(planner string, observer Observer) *Trace {
	return &Trace{RunID: uuid.New(), Planner: planner, observer: observer}
}

// emit appends the step, numbering it, and forwards it to the observer.
func (t *Trace) emit(step Step) {
	t.mu.Lock()
	step.Index = len(t.steps)
	t.steps = append(t.steps, step)
	t.mu.Unlock()
	if t.observer != nil {
		t.observer.OnStep(step)
	}
}

// Steps returns a copy of the emitted steps in order.
func (t *Trace) Steps() []Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Step(nil), t.steps...)
}

// Len returns the number of emitted steps.
func (t *Trace) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.steps)
}

// Costs returns the cost of each emitted step.
func (t *Trace) Costs() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return lo.Map(t.steps, func(s Step, _ int) float64 { return s.Cost })
}
