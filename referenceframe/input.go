package referenceframe

import (
	"fmt"
	"strings"

	"go.viam.com/cspace/utils"
)

// Input is the position of one degree of freedom of a kinematic chain. Revolute inputs are in radians.
type Input struct {
	Value float64
}

// FloatsToInputs wraps a slice of floats in Inputs.
func FloatsToInputs(floats []float64) []Input {
	inputs := make([]Input, len(floats))
	for i, f := range floats {
		inputs[i] = Input{f}
	}
	return inputs
}

// InputsToFloats unwraps Inputs to raw floats.
func InputsToFloats(inputs []Input) []float64 {
	floats := make([]float64, len(inputs))
	for i, in := range inputs {
		floats[i] = in.Value
	}
	return floats
}

// InputsString formats revolute inputs in degrees, e.g. "[0.0 -90.0 45.0]".
func InputsString(inputs []Input) string {
	parts := make([]string, len(inputs))
	for i, in := range inputs {
		parts[i] = fmt.Sprintf("%.1f", utils.RadToDeg(in.Value))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
