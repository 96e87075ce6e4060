package motionplan

import (
	"github.com/golang/geo/r2"

	"go.viam.com/cspace/collision"
	"go.viam.com/cspace/referenceframe"
)

// TargetCost is the planar distance between the end effector and the target.
func TargetCost(engine collision.Engine, target r2.Point, full []referenceframe.Input) (float64, error) {
	pos, err := engine.EndEffectorPosition(full)
	if err != nil {
		return 0, err
	}
	return pos.Sub(target).Norm(), nil
}
