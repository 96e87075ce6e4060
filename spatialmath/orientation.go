package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Orientation is an interface used to express the different parameterizations of the orientation of a rigid object
// in 3D space. Every parameterization converts to a unit quaternion.
type Orientation interface {
	Quaternion() quat.Number
}

// NewZeroOrientation returns the identity orientation.
func NewZeroOrientation() Orientation {
	return &Quaternion{Real: 1}
}

// Quaternion is an orientation expressed directly as a quaternion.
type Quaternion quat.Number

// Quaternion returns the orientation as a quaternion.
func (q *Quaternion) Quaternion() quat.Number {
	return quat.Number(*q)
}

// R4AA represents an R4 axis angle: a rotation of Theta radians about the axis (RX, RY, RZ).
type R4AA struct {
	Theta float64 `json:"th"`
	RX    float64 `json:"x"`
	RY    float64 `json:"y"`
	RZ    float64 `json:"z"`
}

// NewR4AA creates an R4AA with the identity rotation about +Z.
func NewR4AA() *R4AA {
	return &R4AA{0, 0, 0, 1}
}

// Normalize scales the axis to unit length. A zero axis becomes +Z.
func (r4 *R4AA) Normalize() {
	norm := math.Sqrt(r4.RX*r4.RX + r4.RY*r4.RY + r4.RZ*r4.RZ)
	if norm == 0 {
		r4.RX, r4.RY, r4.RZ = 0, 0, 1
		return
	}
	r4.RX /= norm
	r4.RY /= norm
	r4.RZ /= norm
}

// Axis returns the rotation axis as a vector.
func (r4 *R4AA) Axis() r3.Vector {
	return r3.Vector{X: r4.RX, Y: r4.RY, Z: r4.RZ}
}

// Quaternion returns the orientation as a quaternion. The receiver is not modified.
func (r4 *R4AA) Quaternion() quat.Number {
	aa := *r4
	aa.Normalize()
	sinA := math.Sin(aa.Theta / 2)
	return quat.Number{
		Real: math.Cos(aa.Theta / 2),
		Imag: aa.RX * sinA,
		Jmag: aa.RY * sinA,
		Kmag: aa.RZ * sinA,
	}
}

// quatToR4AA converts a quaternion back to the axis angle form used in configuration files.
func quatToR4AA(q quat.Number) *R4AA {
	q = normalizeQuat(q)
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	s := math.Sqrt(1 - q.Real*q.Real)
	if s < 1e-12 {
		return NewR4AA()
	}
	return &R4AA{
		Theta: 2 * math.Acos(math.Min(q.Real, 1)),
		RX:    q.Imag / s,
		RY:    q.Jmag / s,
		RZ:    q.Kmag / s,
	}
}
