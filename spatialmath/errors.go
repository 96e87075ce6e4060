package spatialmath

import (
	"fmt"

	"github.com/pkg/errors"
)

func newBadGeometryDimensionsError(g Geometry) error {
	return fmt.Errorf("invalid dimension(s) for Geometry type %T", g)
}

func newBadCapsuleLengthError(length, radius float64) error {
	return fmt.Errorf("capsule dimensions invalid: length %.4f must be at least twice the radius %.4f", length, radius)
}

func newCollisionTypeUnsupportedError(g1, g2 Geometry) error {
	return errors.Errorf("collisions between %T and %T are not supported", g1, g2)
}

func newGeometryTypeUnsupportedError(gType string) error {
	return errors.Errorf("geometry type %q is unsupported", gType)
}
