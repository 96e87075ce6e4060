package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/cspace/utils"
)

// capsule is a collision geometry that represents a capsule, it has a pose and a radius that fully define it.
//
// ....___________________
// .../                   \
// .x|  |-------O-------|  |x
// ...\___________________/
//
// Length is the distance between the x's, or internal segment length + 2*radius. The capsule axis is the Z axis of
// its pose, centered on the pose's point.
type capsule struct {
	pose   Pose
	radius float64
	length float64
	label  string

	// segment endpoints, computed at creation time
	segA r3.Vector
	segB r3.Vector
}

// NewCapsule instantiates a new capsule Geometry.
func NewCapsule(offset Pose, radius, length float64, label string) (Geometry, error) {
	if radius <= 0 || length <= 0 {
		return nil, newBadGeometryDimensionsError(&capsule{})
	}
	if length < radius*2 {
		return nil, newBadCapsuleLengthError(length, radius)
	}
	if length == radius*2 {
		return NewSphere(offset, radius, label)
	}
	return newCapsuleWithSegPoints(offset, radius, length, label), nil
}

func newCapsuleWithSegPoints(offset Pose, radius, length float64, label string) *capsule {
	half := length/2 - radius
	return &capsule{
		pose:   offset,
		radius: radius,
		length: length,
		label:  label,
		segA:   TransformPoint(offset, r3.Vector{Z: -half}),
		segB:   TransformPoint(offset, r3.Vector{Z: half}),
	}
}

func (c *capsule) MarshalJSON() ([]byte, error) {
	return geometryMarshal(c)
}

// String returns a human readable string that represents the capsule.
func (c *capsule) String() string {
	return fmt.Sprintf("Type: Capsule, Radius: %.3f, Length: %.3f", c.radius, c.length)
}

func (c *capsule) Label() string {
	return c.label
}

func (c *capsule) SetLabel(label string) {
	c.label = label
}

func (c *capsule) Pose() Pose {
	return c.pose
}

func (c *capsule) AlmostEqual(g Geometry) bool {
	other, ok := g.(*capsule)
	if !ok {
		return false
	}
	return PoseAlmostEqualEps(c.pose, other.pose, 1e-6) &&
		utils.Float64AlmostEqual(c.radius, other.radius, 1e-8) &&
		utils.Float64AlmostEqual(c.length, other.length, 1e-8)
}

// Transform premultiplies the capsule pose with a transform, allowing the capsule to be moved in space.
func (c *capsule) Transform(toPremultiply Pose) Geometry {
	return newCapsuleWithSegPoints(Compose(toPremultiply, c.pose), c.radius, c.length, c.label)
}

func (c *capsule) CollidesWith(g Geometry) (bool, error) {
	dist, err := c.DistanceFrom(g)
	if err != nil {
		return true, err
	}
	return dist <= CollisionBuffer, nil
}

func (c *capsule) DistanceFrom(g Geometry) (float64, error) {
	switch other := g.(type) {
	case *capsule:
		return capsuleVsCapsuleDistance(c, other), nil
	case *sphere:
		return capsuleVsSphereDistance(c, other), nil
	default:
		return 0, newCollisionTypeUnsupportedError(c, g)
	}
}

func capsuleVsSphereDistance(c *capsule, other *sphere) float64 {
	return DistToLineSegment(c.segA, c.segB, other.pose.Point()) - (c.radius + other.radius)
}

func capsuleVsCapsuleDistance(c, other *capsule) float64 {
	return SegmentDistanceToSegment(c.segA, c.segB, other.segA, other.segB) - (c.radius + other.radius)
}
