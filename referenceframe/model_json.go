package referenceframe

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ModelConfigJSON represents all supported fields in a kinematics JSON file.
type ModelConfigJSON struct {
	Name         string        `json:"name"`
	KinParamType string        `json:"kinematic_param_type,omitempty"`
	Links        []LinkConfig  `json:"links,omitempty"`
	Joints       []JointConfig `json:"joints,omitempty"`
}

// UnmarshalModelJSON will parse the given JSON data into a kinematics model. modelName sets the name of the model,
// will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (Model, error) {
	// empty data probably means that the robot component has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	m := &ModelConfigJSON{}
	if err := json.Unmarshal(jsonData, m); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	return m.ParseConfig(modelName)
}

// ParseConfig converts the ModelConfig struct into a full Model with the name modelName.
func (cfg *ModelConfigJSON) ParseConfig(modelName string) (Model, error) {
	if modelName == "" {
		modelName = cfg.Name
	}
	if cfg.KinParamType != "" && cfg.KinParamType != "SVA" {
		return nil, errors.Errorf("unsupported param type: %s, supported params are SVA", cfg.KinParamType)
	}

	transforms := map[string]Frame{}
	// parents are resolved once every frame is known, so links and joints may be listed in any order
	parents := map[string]string{}
	add := func(kind, id, parent string, build func() (Frame, error)) error {
		if id == World {
			return NewReservedWordError(kind, World)
		}
		if _, ok := transforms[id]; ok {
			return errors.Errorf("duplicate frame name %q in kinematics", id)
		}
		frame, err := build()
		if err != nil {
			return errors.Wrapf(err, "%s %q", kind, id)
		}
		transforms[id] = frame
		parents[id] = parent
		return nil
	}
	for i := range cfg.Links {
		lc := &cfg.Links[i]
		if err := add("link", lc.ID, lc.Parent, lc.ToStaticFrame); err != nil {
			return nil, err
		}
	}
	for i := range cfg.Joints {
		jc := &cfg.Joints[i]
		if err := add("joint", jc.ID, jc.Parent, jc.ToFrame); err != nil {
			return nil, err
		}
	}

	ot, err := sortTransforms(transforms, parents)
	if err != nil {
		return nil, err
	}
	model := NewSimpleModel(modelName)
	model.setOrdTransforms(ot)
	return model, nil
}

// ParseModelJSONFile will read a given file and then parse the contained JSON data.
func ParseModelJSONFile(filename, modelName string) (Model, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}

// sortTransforms walks from the single frame that is nobody's parent back to the world, and returns the frames
// base first.
func sortTransforms(transforms map[string]Frame, parents map[string]string) ([]Frame, error) {
	isParent := lo.SliceToMap(lo.Values(parents), func(p string) (string, bool) { return p, true })
	ends := lo.Filter(lo.Keys(parents), func(child string, _ int) bool { return !isParent[child] })
	if len(ends) != 1 {
		sort.Strings(ends)
		return nil, fmt.Errorf("%w, have %v", ErrNeedOneEndEffector, ends)
	}

	curr := ends[0]
	seen := map[string]bool{curr: true}
	ordered := make([]Frame, 0, len(transforms))
	for {
		frame, ok := transforms[curr]
		if !ok {
			return nil, NewFrameNotInListOfTransformsError(curr)
		}
		ordered = append(ordered, frame)

		parent, ok := parents[curr]
		if !ok {
			return nil, NewParentFrameNotInMapOfParentsError(curr)
		}
		if parent == World || parent == "" {
			break
		}
		if seen[parent] {
			return nil, ErrCircularReference
		}
		seen[parent] = true
		curr = parent
	}
	if len(ordered) != len(transforms) {
		return nil, errors.Errorf("kinematics contain %d frames not connected to the end effector",
			len(transforms)-len(ordered))
	}
	return lo.Reverse(ordered), nil
}
