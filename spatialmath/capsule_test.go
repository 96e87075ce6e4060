package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func makeTestCapsule(o Orientation, pt r3.Vector, radius, length float64) Geometry {
	c, _ := NewCapsule(NewPose(pt, o), radius, length, "")
	return c
}

func TestCapsuleConstruction(t *testing.T) {
	c := makeTestCapsule(NewZeroOrientation(), r3.Vector{X: 0, Y: 0, Z: 0.1}, 1, 6.75).(*capsule)
	test.That(t, R3VectorAlmostEqual(c.segA, r3.Vector{X: 0, Y: 0, Z: -2.275}, 1e-9), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(c.segB, r3.Vector{X: 0, Y: 0, Z: 2.475}, 1e-9), test.ShouldBeTrue)

	_, err := NewCapsule(NewZeroPose(), 1, 1, "")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewCapsule(NewZeroPose(), -1, 4, "")
	test.That(t, err, test.ShouldNotBeNil)

	// degenerate capsules are spheres
	g, err := NewCapsule(NewZeroPose(), 1, 2, "ball")
	test.That(t, err, test.ShouldBeNil)
	_, ok := g.(*sphere)
	test.That(t, ok, test.ShouldBeTrue)
}

func TestCapsuleVsCapsule(t *testing.T) {
	a := makeTestCapsule(NewZeroOrientation(), r3.Vector{}, 1, 6)
	b := makeTestCapsule(NewZeroOrientation(), r3.Vector{X: 3}, 1, 6)

	dist, err := a.DistanceFrom(b)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dist, test.ShouldAlmostEqual, 1.)
	col, err := a.CollidesWith(b)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, col, test.ShouldBeFalse)

	// a capsule lying along X through the middle of a
	crossing := makeTestCapsule(&R4AA{Theta: math.Pi / 2, RY: 1}, r3.Vector{}, 1, 6)
	dist, err = a.DistanceFrom(crossing)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dist, test.ShouldAlmostEqual, -2.)
	col, err = a.CollidesWith(crossing)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, col, test.ShouldBeTrue)

	// end to end along the shared axis
	above := makeTestCapsule(NewZeroOrientation(), r3.Vector{Z: 7}, 1, 6)
	dist, err = a.DistanceFrom(above)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dist, test.ShouldAlmostEqual, 1.)
}

func TestCapsuleTransform(t *testing.T) {
	c := makeTestCapsule(NewZeroOrientation(), r3.Vector{Z: 1}, 0.5, 2)
	moved := c.Transform(NewPoseFromOrientation(&R4AA{Theta: math.Pi / 2, RY: 1})).(*capsule)
	test.That(t, R3VectorAlmostEqual(moved.Pose().Point(), r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(moved.segA, r3.Vector{X: 0.5}, 1e-9), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(moved.segB, r3.Vector{X: 1.5}, 1e-9), test.ShouldBeTrue)
	test.That(t, moved.AlmostEqual(c), test.ShouldBeFalse)
	test.That(t, c.Transform(NewZeroPose()).AlmostEqual(c), test.ShouldBeTrue)
}
