package motionplan

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/cspace/collision"
	"go.viam.com/cspace/components/arm/universalrobots"
	"go.viam.com/cspace/referenceframe"
	"go.viam.com/cspace/spatialmath"
)

var testTarget = r2.Point{X: 0.5, Y: 0.5}

// capsules lying along y, as in the default environment.
func makeTestObstacles(t *testing.T) []spatialmath.Geometry {
	t.Helper()
	alongY := &spatialmath.R4AA{Theta: math.Pi / 2, RX: 1}
	centers := []r2.Point{{X: 0.40, Y: 0.30}, {X: -0.08, Y: 0.75}, {X: 0.23, Y: 0.04}, {X: -0.32, Y: -0.08}}
	obstacles := make([]spatialmath.Geometry, 0, len(centers))
	for _, c := range centers {
		pose := spatialmath.NewPose(r3.Vector{X: c.X, Y: 0.06, Z: c.Y}, alongY)
		capsule, err := spatialmath.NewCapsule(pose, 0.05, 0.6, "")
		test.That(t, err, test.ShouldBeNil)
		obstacles = append(obstacles, capsule)
	}
	return obstacles
}

func makeTestProblem(t *testing.T, obstacles []spatialmath.Geometry) *Problem {
	t.Helper()
	model, err := universalrobots.MakeModelFrame("")
	test.That(t, err, test.ShouldBeNil)
	scene, err := collision.NewScene(model, obstacles)
	test.That(t, err, test.ShouldBeNil)
	problem, err := NewProblem(scene, DefaultCodec(), testTarget, DefaultCollisionThreshold)
	test.That(t, err, test.ShouldBeNil)
	return problem
}

func makeTestSphere(t *testing.T, pt r3.Vector, radius float64) spatialmath.Geometry {
	t.Helper()
	sphere, err := spatialmath.NewSphere(spatialmath.NewPoseFromPoint(pt), radius, "sphere")
	test.That(t, err, test.ShouldBeNil)
	return sphere
}

// fakeEngine reports fixed answers and counts distance queries.
type fakeEngine struct {
	colliding            bool
	clearance            float64
	minClearanceCalls    int
	collidingOnClearance bool
}

func (fe *fakeEngine) EndEffectorPosition(full []referenceframe.Input) (r2.Point, error) {
	return r2.Point{X: full[1].Value, Y: full[2].Value}, nil
}

func (fe *fakeEngine) IsColliding(full []referenceframe.Input) (bool, error) {
	return fe.colliding, nil
}

func (fe *fakeEngine) MinClearance(full []referenceframe.Input) (float64, error) {
	fe.minClearanceCalls++
	if fe.colliding {
		fe.collidingOnClearance = true
		return 0, collision.ErrInfeasiblePrecondition
	}
	return fe.clearance, nil
}

func (fe *fakeEngine) DoF() int {
	return 6
}

func (fe *fakeEngine) Clone() collision.Engine {
	clone := *fe
	return &clone
}
