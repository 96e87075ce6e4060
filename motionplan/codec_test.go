package motionplan

import (
	"math/rand"
	"testing"

	"go.viam.com/test"

	"go.viam.com/cspace/referenceframe"
)

func TestCodecRoundTrip(t *testing.T) {
	codec := DefaultCodec()
	//nolint: gosec
	randseed := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		q := Reduced{randseed.NormFloat64() * 10, randseed.NormFloat64() * 10}
		full := codec.Expand(q)
		test.That(t, len(full), test.ShouldEqual, 6)
		test.That(t, codec.Project(full), test.ShouldResemble, q)
	}
}

func TestExpandLocksOtherJoints(t *testing.T) {
	full := DefaultCodec().Expand(Reduced{0.3, -1.2})
	test.That(t, referenceframe.InputsToFloats(full), test.ShouldResemble, []float64{0, 0.3, -1.2, 0, 0, 0})

	codec, err := NewCodec(4, 3, 0)
	test.That(t, err, test.ShouldBeNil)
	full = codec.Expand(Reduced{1, 2})
	test.That(t, referenceframe.InputsToFloats(full), test.ShouldResemble, []float64{2, 0, 0, 1})
	test.That(t, codec.Project(full), test.ShouldResemble, Reduced{1, 2})
}

func TestNewCodecRejectsBadSlots(t *testing.T) {
	for _, tc := range []struct {
		name               string
		dof, first, second int
	}{
		{"same slot", 6, 2, 2},
		{"negative", 6, -1, 2},
		{"past end", 6, 1, 6},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCodec(tc.dof, tc.first, tc.second)
			test.That(t, err, test.ShouldBeError, errBadCodecSlots)
		})
	}
}

func TestReducedArithmetic(t *testing.T) {
	q := Reduced{1, -2}
	test.That(t, q.Add(Reduced{0.5, 0.5}), test.ShouldResemble, Reduced{1.5, -1.5})
	test.That(t, q.Scale(0.1), test.ShouldResemble, Reduced{0.1, -0.2})
	test.That(t, ReducedFromFloats(q.Floats()), test.ShouldResemble, q)
	test.That(t, q.String(), test.ShouldEqual, "[1.0000, -2.0000]")
}
