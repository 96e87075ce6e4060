package spatialmath

import (
	"github.com/golang/geo/r3"

	"go.viam.com/cspace/utils"
)

const floatEpsilon = 1e-12

// ClosestPointSegmentPoint takes a line segment and a point, and returns the point on the segment closest to the point.
func ClosestPointSegmentPoint(segA, segB, pt r3.Vector) r3.Vector {
	ab := segB.Sub(segA)
	denom := ab.Norm2()
	if denom < floatEpsilon {
		return segA
	}
	t := utils.Clamp(pt.Sub(segA).Dot(ab)/denom, 0, 1)
	return segA.Add(ab.Mul(t))
}

// DistToLineSegment takes a line segment and a point and returns the shortest distance between them.
func DistToLineSegment(segA, segB, pt r3.Vector) float64 {
	return pt.Sub(ClosestPointSegmentPoint(segA, segB, pt)).Norm()
}

// SegmentDistanceToSegment returns the minimum distance between two line segments.
func SegmentDistanceToSegment(ap1, ap2, bp1, bp2 r3.Vector) float64 {
	c1, c2 := closestPointsSegmentSegment(ap1, ap2, bp1, bp2)
	return c1.Sub(c2).Norm()
}

// closestPointsSegmentSegment returns the pair of closest points between segments [p1,q1] and [p2,q2].
// See Ericson, Real-Time Collision Detection, 5.1.9.
func closestPointsSegmentSegment(p1, q1, p2, q2 r3.Vector) (r3.Vector, r3.Vector) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Norm2()
	e := d2.Norm2()
	f := d2.Dot(r)

	if a <= floatEpsilon && e <= floatEpsilon {
		return p1, p2
	}
	var s, t float64
	switch {
	case a <= floatEpsilon:
		t = utils.Clamp(f/e, 0, 1)
	case e <= floatEpsilon:
		s = utils.Clamp(-d1.Dot(r)/a, 0, 1)
	default:
		c := d1.Dot(r)
		b := d1.Dot(d2)
		denom := a*e - b*b
		if denom > floatEpsilon {
			s = utils.Clamp((b*f-c*e)/denom, 0, 1)
		}
		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = utils.Clamp(-c/a, 0, 1)
		} else if t > 1 {
			t = 1
			s = utils.Clamp((b-c)/a, 0, 1)
		}
	}
	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}
