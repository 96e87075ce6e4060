package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestCompose(t *testing.T) {
	rotZ := NewPoseFromOrientation(&R4AA{Theta: math.Pi / 2, RZ: 1})
	moved := Compose(rotZ, NewPoseFromPoint(r3.Vector{X: 1}))
	test.That(t, R3VectorAlmostEqual(moved.Point(), r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)

	// translation then rotation
	p := Compose(NewPoseFromPoint(r3.Vector{X: 1, Y: 2, Z: 3}), rotZ)
	test.That(t, R3VectorAlmostEqual(p.Point(), r3.Vector{X: 1, Y: 2, Z: 3}, 1e-9), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(NewPoseFromOrientation(p.Orientation()), rotZ), test.ShouldBeTrue)
}

func TestPoseInverse(t *testing.T) {
	p := NewPose(r3.Vector{X: 0.3, Y: -0.2, Z: 1.1}, &R4AA{Theta: 0.7, RX: 1, RY: 1})
	test.That(t, PoseAlmostEqual(Compose(p, PoseInverse(p)), NewZeroPose()), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(Compose(PoseInverse(p), p), NewZeroPose()), test.ShouldBeTrue)
}

func TestRotationAboutY(t *testing.T) {
	// a quarter turn about +Y takes +Z onto +X
	rotY := NewPoseFromOrientation(&R4AA{Theta: math.Pi / 2, RY: 1})
	test.That(t, R3VectorAlmostEqual(TransformPoint(rotY, r3.Vector{Z: 1}), r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(TransformPoint(rotY, r3.Vector{X: 1}), r3.Vector{Z: -1}, 1e-9), test.ShouldBeTrue)
}

func TestR4AAQuaternion(t *testing.T) {
	aa := &R4AA{Theta: 1.2, RX: 0, RY: 0, RZ: 3}
	q := aa.Quaternion()
	test.That(t, q.Real, test.ShouldAlmostEqual, math.Cos(0.6))
	test.That(t, q.Kmag, test.ShouldAlmostEqual, math.Sin(0.6))
	// the receiver is left untouched
	test.That(t, aa.RZ, test.ShouldEqual, 3.)

	back := quatToR4AA(q)
	test.That(t, back.Theta, test.ShouldAlmostEqual, 1.2)
	test.That(t, back.RZ, test.ShouldAlmostEqual, 1.)
}
