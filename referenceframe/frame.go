// Package referenceframe defines the api and does the math of placing the links of a serial kinematic chain in
// space for a given set of joint inputs.
package referenceframe

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	spatial "go.viam.com/cspace/spatialmath"
	"go.viam.com/cspace/utils"
)

// OOBErrString is a string that all OOB errors should contain, so that they can be checked for distinct from other
// Transform errors.
const OOBErrString = "input out of bounds"

// Limit is the range of motion of one joint, in radians.
type Limit struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the limit, bounds included.
func (l Limit) Contains(v float64) bool {
	return v >= l.Min && v <= l.Max
}

func (l Limit) almostEqual(other Limit) bool {
	const epsilon = 1e-5
	return utils.Float64AlmostEqual(l.Min, other.Min, epsilon) && utils.Float64AlmostEqual(l.Max, other.Max, epsilon)
}

// Frame is one element of a kinematic chain: a fixed link or a moving joint.
type Frame interface {
	Name() string

	// Transform is the pose (rotation and translation) that goes FROM current frame TO parent's referenceframe.
	Transform([]Input) (spatial.Pose, error)

	// Geometries returns the collision geometries of the frame, keyed by name, placed for the given inputs.
	Geometries([]Input) (map[string]spatial.Geometry, error)

	// DoF returns one limit per degree of freedom. Fixed frames return an empty slice.
	DoF() []Limit

	// AlmostEquals returns whether the frames differ only by floating point imprecision.
	AlmostEquals(otherFrame Frame) bool
}

// link is a fixed offset from its parent that may carry a collision geometry.
type link struct {
	name     string
	offset   spatial.Pose
	geometry spatial.Geometry
}

// NewStaticFrame creates a fixed frame at pose relative to its parent.
func NewStaticFrame(name string, pose spatial.Pose) (Frame, error) {
	return NewStaticFrameWithGeometry(name, pose, nil)
}

// NewStaticFrameWithGeometry creates a fixed frame at pose relative to its parent. The geometry, if any, is
// expressed in the frame itself and is placed by the frame's pose.
func NewStaticFrameWithGeometry(name string, pose spatial.Pose, geometry spatial.Geometry) (Frame, error) {
	if pose == nil {
		return nil, errors.Errorf("link %q has no pose", name)
	}
	return &link{name: name, offset: pose, geometry: geometry}, nil
}

func (l *link) Name() string {
	return l.name
}

func (l *link) Transform(input []Input) (spatial.Pose, error) {
	if len(input) != 0 {
		return nil, NewIncorrectDoFError(len(input), 0)
	}
	return l.offset, nil
}

func (l *link) Geometries(input []Input) (map[string]spatial.Geometry, error) {
	if len(input) != 0 {
		return nil, NewIncorrectDoFError(len(input), 0)
	}
	if l.geometry == nil {
		return map[string]spatial.Geometry{}, nil
	}
	placed := l.geometry.Transform(l.offset)
	placed.SetLabel(l.name)
	return map[string]spatial.Geometry{l.name: placed}, nil
}

func (l *link) DoF() []Limit {
	return []Limit{}
}

func (l *link) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*link)
	if !ok || l.name != other.name || !spatial.PoseAlmostEqual(l.offset, other.offset) {
		return false
	}
	if l.geometry == nil || other.geometry == nil {
		return l.geometry == other.geometry
	}
	return l.geometry.AlmostEqual(other.geometry)
}

func (l *link) String() string {
	return fmt.Sprintf("link %s", l.name)
}

// revoluteJoint rotates about a fixed unit axis by its single input.
type revoluteJoint struct {
	name  string
	axis  r3.Vector
	limit Limit
}

// NewRotationalFrame creates a revolute joint turning about axis. Only the axis direction of the R4AA is used.
func NewRotationalFrame(name string, axis spatial.R4AA, limit Limit) (Frame, error) {
	if limit.Min > limit.Max {
		return nil, errors.Errorf("joint %q has min limit %.4f above max limit %.4f", name, limit.Min, limit.Max)
	}
	axis.Normalize()
	return &revoluteJoint{name: name, axis: axis.Axis(), limit: limit}, nil
}

// Transform returns the rotation for input. Inputs outside the joint limit still produce a pose, returned alongside
// an OOB error.
func (j *revoluteJoint) Transform(input []Input) (spatial.Pose, error) {
	if len(input) != 1 {
		return nil, NewIncorrectDoFError(len(input), 1)
	}
	var err error
	if !j.limit.Contains(input[0].Value) {
		err = fmt.Errorf("joint %s: %.5f %s %v", j.name, input[0].Value, OOBErrString, j.limit)
	}
	rotation := &spatial.R4AA{Theta: input[0].Value, RX: j.axis.X, RY: j.axis.Y, RZ: j.axis.Z}
	return spatial.NewPoseFromOrientation(rotation), err
}

// Geometries is always empty: joints have no extent, the links between them do.
func (j *revoluteJoint) Geometries(input []Input) (map[string]spatial.Geometry, error) {
	return map[string]spatial.Geometry{}, nil
}

func (j *revoluteJoint) DoF() []Limit {
	return []Limit{j.limit}
}

func (j *revoluteJoint) Name() string {
	return j.name
}

func (j *revoluteJoint) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*revoluteJoint)
	return ok && j.name == other.name &&
		spatial.R3VectorAlmostEqual(j.axis, other.axis, 1e-8) &&
		j.limit.almostEqual(other.limit)
}
