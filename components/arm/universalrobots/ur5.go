// Package universalrobots carries the kinematics of the Universal Robots UR5 arm.
package universalrobots

import (
	// for embedding model file.
	_ "embed"

	"go.viam.com/cspace/referenceframe"
)

// ModelName is the name given to the UR5 model when no other name is requested.
const ModelName = "ur5"

//go:embed ur5.json
var ur5modeljson []byte

// MakeModelFrame returns the kinematics model of the ur5 arm, also has all Frame information.
func MakeModelFrame(name string) (referenceframe.Model, error) {
	if name == "" {
		name = ModelName
	}
	return referenceframe.UnmarshalModelJSON(ur5modeljson, name)
}
