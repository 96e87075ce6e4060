package motionplan

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/cspace/collision"
)

// Problem bundles what every planner evaluates against: the engine, how reduced configurations expand onto it, the
// target, and the clearance threshold. The engine is single owner; use Clone to hand a Problem to another goroutine.
type Problem struct {
	Engine    collision.Engine
	Codec     *Codec
	Target    r2.Point
	Threshold float64
}

// NewProblem checks that the codec fits the engine and returns the problem.
func NewProblem(engine collision.Engine, codec *Codec, target r2.Point, threshold float64) (*Problem, error) {
	if engine == nil {
		return nil, errors.New("a collision engine is required")
	}
	if codec == nil {
		codec = DefaultCodec()
	}
	if codec.DoF() != engine.DoF() {
		return nil, errors.Errorf("codec expands to %d joints but the engine takes %d", codec.DoF(), engine.DoF())
	}
	if threshold < 0 {
		return nil, errors.Errorf("threshold must not be negative, got %v", threshold)
	}
	return &Problem{Engine: engine, Codec: codec, Target: target, Threshold: threshold}, nil
}

// Clone returns a problem sharing everything but the engine placement state.
func (p *Problem) Clone() *Problem {
	return &Problem{Engine: p.Engine.Clone(), Codec: p.Codec, Target: p.Target, Threshold: p.Threshold}
}

// Cost returns the target cost of a reduced configuration.
func (p *Problem) Cost(q Reduced) (float64, error) {
	return TargetCost(p.Engine, p.Target, p.Codec.Expand(q))
}

// Margin returns the feasibility margin of a reduced configuration.
func (p *Problem) Margin(q Reduced) (float64, error) {
	return Clearance(p.Engine, p.Codec.Expand(q), p.Threshold)
}

// IsColliding runs the boolean collision test on a reduced configuration.
func (p *Problem) IsColliding(q Reduced) (bool, error) {
	return p.Engine.IsColliding(p.Codec.Expand(q))
}

// checkFreeStart fails with ErrStartColliding when q collides. Planners only start from free configurations.
func (p *Problem) checkFreeStart(q Reduced) error {
	colliding, err := p.IsColliding(q)
	if err != nil {
		return err
	}
	if colliding {
		return NewStartCollidingError(q)
	}
	return nil
}

// evaluate computes everything a trace step records about q.
func (p *Problem) evaluate(q Reduced) (Step, bool, error) {
	full := p.Codec.Expand(q)
	colliding, err := p.Engine.IsColliding(full)
	if err != nil {
		return Step{}, false, err
	}
	cost, err := TargetCost(p.Engine, p.Target, full)
	if err != nil {
		return Step{}, false, err
	}
	margin, err := Clearance(p.Engine, full, p.Threshold)
	if err != nil {
		return Step{}, false, err
	}
	return Step{Reduced: q, Full: full, Cost: cost, Margin: margin}, colliding, nil
}
