package referenceframe

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestInputConversions(t *testing.T) {
	floats := []float64{0.1, -2, 3}
	test.That(t, InputsToFloats(FloatsToInputs(floats)), test.ShouldResemble, floats)
	test.That(t, FloatsToInputs(nil), test.ShouldBeEmpty)
}

func TestInputsString(t *testing.T) {
	test.That(t, InputsString(FloatsToInputs([]float64{0, -math.Pi / 2, math.Pi / 4})), test.ShouldEqual, "[0.0 -90.0 45.0]")
	test.That(t, InputsString(nil), test.ShouldEqual, "[]")
}
