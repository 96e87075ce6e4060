package referenceframe

import (
	"strings"

	"go.uber.org/multierr"

	"go.viam.com/cspace/spatialmath"
)

// A Model represents a serial kinematic chain that can change its name.
type Model interface {
	Frame
	ChangeName(name string)
	// LinkPoses returns the pose of every frame of the chain, ordered from base to end effector.
	LinkPoses([]Input) ([]spatialmath.Pose, error)
}

// SimpleModel is a serial chain of frames. Generally speaking, a joint attaches a link to a frame, and a link
// attaches a frame to a joint.
type SimpleModel struct {
	name string
	// OrdTransforms is the list of transforms ordered from base to end effector
	OrdTransforms []Frame
	limits        []Limit
}

// NewSimpleModel constructs a new model.
func NewSimpleModel(name string) *SimpleModel {
	return &SimpleModel{name: name}
}

func (m *SimpleModel) setOrdTransforms(ot []Frame) {
	m.OrdTransforms = ot
	limits := make([]Limit, 0, len(ot))
	for _, transform := range ot {
		limits = append(limits, transform.DoF()...)
	}
	m.limits = limits
}

func (m *SimpleModel) Name() string {
	return m.name
}

// ChangeName changes the name of this model.
func (m *SimpleModel) ChangeName(name string) {
	m.name = name
}

// Transform takes a model and a list of joint angles in radians and computes the pose of the end effector.
// Out of bounds inputs still produce a pose alongside the OOB error.
func (m *SimpleModel) Transform(inputs []Input) (spatialmath.Pose, error) {
	poses, err := m.LinkPoses(inputs)
	if poses == nil {
		return nil, err
	}
	return poses[len(poses)-1], err
}

// LinkPoses computes the composed pose of each transform of the chain.
func (m *SimpleModel) LinkPoses(inputs []Input) ([]spatialmath.Pose, error) {
	if len(inputs) != len(m.DoF()) {
		return nil, NewIncorrectDoFError(len(inputs), len(m.DoF()))
	}
	var err error
	poses := make([]spatialmath.Pose, 0, len(m.OrdTransforms))
	composed := spatialmath.NewZeroPose()
	posIdx := 0
	for _, transform := range m.OrdTransforms {
		dof := len(transform.DoF()) + posIdx
		input := inputs[posIdx:dof]
		posIdx = dof

		pose, errNew := transform.Transform(input)
		// Fail if inputs are incorrect and pose is nil, but allow querying out-of-bounds positions
		if pose == nil {
			return nil, errNew
		}
		multierr.AppendInto(&err, errNew)
		composed = spatialmath.Compose(composed, pose)
		poses = append(poses, composed)
	}
	if len(poses) == 0 {
		poses = append(poses, composed)
	}
	return poses, err
}

// Geometries returns the geometries of every link placed for the given inputs, keyed "model:link".
func (m *SimpleModel) Geometries(inputs []Input) (map[string]spatialmath.Geometry, error) {
	poses, err := m.LinkPoses(inputs)
	if poses == nil {
		return nil, err
	}
	geometries := make(map[string]spatialmath.Geometry)
	for i, transform := range m.OrdTransforms {
		l, ok := transform.(*link)
		if !ok || l.geometry == nil {
			continue
		}
		placed := l.geometry.Transform(poses[i])
		name := m.name + ":" + l.name
		placed.SetLabel(name)
		geometries[name] = placed
	}
	return geometries, err
}

// DoF returns the limits of the joints of the model, base first.
func (m *SimpleModel) DoF() []Limit {
	return m.limits
}

// AreJointPositionsValid reports whether there is one position per joint and each is within its joint's limit.
func (m *SimpleModel) AreJointPositionsValid(pos []float64) bool {
	if len(pos) != len(m.limits) {
		return false
	}
	for i, limit := range m.limits {
		if !limit.Contains(pos[i]) {
			return false
		}
	}
	return true
}

// AlmostEquals returns true if the only difference between this model and another is floating point inprecision.
func (m *SimpleModel) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*SimpleModel)
	if !ok || m.name != other.name || len(m.OrdTransforms) != len(other.OrdTransforms) {
		return false
	}
	for idx, f := range m.OrdTransforms {
		if !f.AlmostEquals(other.OrdTransforms[idx]) {
			return false
		}
	}
	return true
}

// IsOOBError returns whether err only reports out of bounds inputs, which still yield a usable pose.
func IsOOBError(err error) bool {
	if err == nil {
		return false
	}
	for _, e := range multierr.Errors(err) {
		if !strings.Contains(e.Error(), OOBErrString) {
			return false
		}
	}
	return true
}
