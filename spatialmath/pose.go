// Package spatialmath defines the poses, orientations and collision geometries used to place an arm and its
// environment in 3D space. Distances are expressed in metres and angles in radians.
package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/cspace/utils"
)

// Pose represents a 6dof pose in space: a point and the orientation at that point.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// basePose stores the rotation as a unit quaternion so that composition stays cheap.
type basePose struct {
	point r3.Vector
	rot   quat.Number
}

// NewZeroPose returns a pose at (0,0,0) with the identity orientation.
func NewZeroPose() Pose {
	return &basePose{rot: quat.Number{Real: 1}}
}

// NewPose returns a pose at point with the given orientation. A nil orientation is the identity.
func NewPose(point r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(point)
	}
	return &basePose{point: point, rot: normalizeQuat(o.Quaternion())}
}

// NewPoseFromPoint returns a pose with the given translation and no rotation.
func NewPoseFromPoint(point r3.Vector) Pose {
	return &basePose{point: point, rot: quat.Number{Real: 1}}
}

// NewPoseFromOrientation returns a pose at the origin with the given orientation.
func NewPoseFromOrientation(o Orientation) Pose {
	return NewPose(r3.Vector{}, o)
}

func (p *basePose) Point() r3.Vector {
	return p.point
}

func (p *basePose) Orientation() Orientation {
	q := Quaternion(p.rot)
	return &q
}

func (p *basePose) String() string {
	return fmt.Sprintf("{X:%.4f Y:%.4f Z:%.4f Q:%v}", p.point.X, p.point.Y, p.point.Z, p.rot)
}

// Compose returns the pose b expressed in the frame that a is expressed in, i.e. a * b.
func Compose(a, b Pose) Pose {
	qa := normalizeQuat(a.Orientation().Quaternion())
	qb := normalizeQuat(b.Orientation().Quaternion())
	return &basePose{
		point: a.Point().Add(rotateVector(qa, b.Point())),
		rot:   normalizeQuat(quat.Mul(qa, qb)),
	}
}

// PoseInverse returns the pose which, composed with p, yields the zero pose.
func PoseInverse(p Pose) Pose {
	inv := quat.Conj(normalizeQuat(p.Orientation().Quaternion()))
	return &basePose{
		point: rotateVector(inv, p.Point()).Mul(-1),
		rot:   inv,
	}
}

// TransformPoint moves pt, expressed in the frame of p, into the frame p is expressed in.
func TransformPoint(p Pose, pt r3.Vector) r3.Vector {
	return p.Point().Add(rotateVector(normalizeQuat(p.Orientation().Quaternion()), pt))
}

// PoseAlmostEqual returns whether two poses are the same up to a small tolerance.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps returns whether two poses are the same up to epsilon, in both translation and rotation.
// q and -q represent the same rotation so both are accepted.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	if !R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) {
		return false
	}
	qa := normalizeQuat(a.Orientation().Quaternion())
	qb := normalizeQuat(b.Orientation().Quaternion())
	return quatAlmostEqual(qa, qb, epsilon) || quatAlmostEqual(qa, quat.Scale(-1, qb), epsilon)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if they are all within epsilon of each other.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return utils.Float64AlmostEqual(a.X, b.X, epsilon) &&
		utils.Float64AlmostEqual(a.Y, b.Y, epsilon) &&
		utils.Float64AlmostEqual(a.Z, b.Z, epsilon)
}

func quatAlmostEqual(a, b quat.Number, epsilon float64) bool {
	return utils.Float64AlmostEqual(a.Real, b.Real, epsilon) &&
		utils.Float64AlmostEqual(a.Imag, b.Imag, epsilon) &&
		utils.Float64AlmostEqual(a.Jmag, b.Jmag, epsilon) &&
		utils.Float64AlmostEqual(a.Kmag, b.Kmag, epsilon)
}

// rotateVector computes q * v * q' for a unit quaternion q.
func rotateVector(q quat.Number, v r3.Vector) r3.Vector {
	rotated := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: rotated.Imag, Y: rotated.Jmag, Z: rotated.Kmag}
}

func normalizeQuat(q quat.Number) quat.Number {
	norm := quat.Abs(q)
	if norm == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/norm, q)
}
