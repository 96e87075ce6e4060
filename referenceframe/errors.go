package referenceframe

import (
	"fmt"

	"github.com/pkg/errors"
)

// World is the reserved name of the root frame every model hangs from.
const World = "world"

var (
	// ErrNeedOneEndEffector is returned when a kinematics file does not describe exactly one chain end.
	ErrNeedOneEndEffector = errors.New("need exactly one end effector")
	// ErrCircularReference is returned when the parent links of a kinematics file loop.
	ErrCircularReference = errors.New("infinite loop finding path from end effector to world")
	// ErrNoModelInformation is used when there is no model information.
	ErrNoModelInformation = errors.New("no model information")
)

// NewIncorrectDoFError returns an error indicating that the number of inputs does not match the degrees of freedom.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match frame DoF, expected %d but got %d", expected, actual)
}

// NewFrameNotInListOfTransformsError returns an error indicating a parent that was never defined as a link or joint.
func NewFrameNotInListOfTransformsError(frameName string) error {
	return errors.Errorf("frame named '%s' not in the list of transforms", frameName)
}

// NewParentFrameNotInMapOfParentsError returns an error for a frame whose parent is unknown.
func NewParentFrameNotInMapOfParentsError(frameName string) error {
	return errors.Errorf("parent frame named '%s' not found in the map of parents", frameName)
}

// NewReservedWordError returns an error for a link or joint that uses a reserved name.
func NewReservedWordError(configType, reservedWord string) error {
	return errors.Errorf("reserved word: cannot name a %s '%s'", configType, reservedWord)
}

// NewUnsupportedJointTypeError returns an error for a joint type that cannot be built.
func NewUnsupportedJointTypeError(jointType string) error {
	return fmt.Errorf("unsupported joint type detected: %q", jointType)
}
