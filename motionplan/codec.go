package motionplan

import (
	"fmt"

	"go.viam.com/cspace/referenceframe"
)

// Default slot layout for the UR5: shoulder lift and elbow move, every other joint is locked at zero.
const (
	defaultFullDoF    = 6
	defaultFirstSlot  = 1
	defaultSecondSlot = 2
)

// Reduced is the two dimensional search variable of the planners.
type Reduced [2]float64

// Add returns the componentwise sum of two reduced configurations.
func (q Reduced) Add(other Reduced) Reduced {
	return Reduced{q[0] + other[0], q[1] + other[1]}
}

// Scale multiplies both coordinates by s.
func (q Reduced) Scale(s float64) Reduced {
	return Reduced{q[0] * s, q[1] * s}
}

// Floats returns the coordinates as a slice, the form the numerical optimizer works with.
func (q Reduced) Floats() []float64 {
	return []float64{q[0], q[1]}
}

func (q Reduced) String() string {
	return fmt.Sprintf("[%.4f, %.4f]", q[0], q[1])
}

// ReducedFromFloats builds a Reduced from the first two values of x.
func ReducedFromFloats(x []float64) Reduced {
	return Reduced{x[0], x[1]}
}

// Codec maps reduced configurations onto full joint vectors and back.
type Codec struct {
	dof   int
	slots [2]int
}

// NewCodec returns a codec for a model with dof joints whose reduced values live at the two given slots.
func NewCodec(dof, first, second int) (*Codec, error) {
	if first == second || first < 0 || second < 0 || first >= dof || second >= dof {
		return nil, errBadCodecSlots
	}
	return &Codec{dof: dof, slots: [2]int{first, second}}, nil
}

// DefaultCodec returns the codec of the UR5 reduction: six joints, shoulder lift and elbow free.
func DefaultCodec() *Codec {
	return &Codec{dof: defaultFullDoF, slots: [2]int{defaultFirstSlot, defaultSecondSlot}}
}

// DoF returns the length of the full configurations produced by Expand.
func (c *Codec) DoF() int {
	return c.dof
}

// Slots returns the joint indices holding the reduced values.
func (c *Codec) Slots() [2]int {
	return c.slots
}

// Expand writes the reduced values into a zero full configuration.
func (c *Codec) Expand(q Reduced) []referenceframe.Input {
	full := make([]referenceframe.Input, c.dof)
	full[c.slots[0]].Value = q[0]
	full[c.slots[1]].Value = q[1]
	return full
}

// Project reads the reduced values back out of a full configuration of length DoF. Values in other slots are ignored.
func (c *Codec) Project(full []referenceframe.Input) Reduced {
	return Reduced{full[c.slots[0]].Value, full[c.slots[1]].Value}
}
