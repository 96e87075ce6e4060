package motionplan

import (
	"go.viam.com/cspace/collision"
	"go.viam.com/cspace/referenceframe"
)

// DefaultCollisionThreshold is the safety distance subtracted from the minimum clearance, in meters.
const DefaultCollisionThreshold = 1e-2

// Clearance turns the engine's collision test and distance query into a signed feasibility margin.
// A colliding configuration scores exactly -threshold; otherwise the margin is the minimum clearance less the
// threshold. The distance query is never made for a colliding configuration.
func Clearance(engine collision.Engine, full []referenceframe.Input, threshold float64) (float64, error) {
	colliding, err := engine.IsColliding(full)
	if err != nil {
		return 0, err
	}
	if colliding {
		return -threshold, nil
	}
	dist, err := engine.MinClearance(full)
	if err != nil {
		return 0, err
	}
	return dist - threshold, nil
}
