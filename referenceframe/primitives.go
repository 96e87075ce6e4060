package referenceframe

import (
	"math"
	"strings"

	"github.com/golang/geo/r3"

	spatial "go.viam.com/cspace/spatialmath"
	"go.viam.com/cspace/utils"
)

// LinkConfig is a StaticFrame that also has a specified parent.
type LinkConfig struct {
	ID          string                  `json:"id"`
	Translation r3.Vector               `json:"translation"`
	Orientation *spatial.R4AA           `json:"orientation,omitempty"`
	Geometry    *spatial.GeometryConfig `json:"geometry,omitempty"`
	Parent      string                  `json:"parent,omitempty"`
}

// JointConfig is a frame with nonzero DOF. Supports rotational only. Limits are given in degrees.
type JointConfig struct {
	ID     string       `json:"id"`
	Type   string       `json:"type"`
	Parent string       `json:"parent"`
	Axis   spatial.R4AA `json:"axis"`
	Max    float64      `json:"max"` // in mm or degs
	Min    float64      `json:"min"` // in mm or degs
}

// Pose returns the fixed pose of the link relative to its parent.
func (cfg *LinkConfig) Pose() spatial.Pose {
	if cfg.Orientation == nil {
		return spatial.NewPoseFromPoint(cfg.Translation)
	}
	return spatial.NewPose(cfg.Translation, cfg.Orientation)
}

// ToStaticFrame converts a LinkConfig into a fixed link frame.
func (cfg *LinkConfig) ToStaticFrame() (Frame, error) {
	if cfg.Geometry == nil {
		return NewStaticFrame(cfg.ID, cfg.Pose())
	}
	geometry, err := cfg.Geometry.ParseConfig()
	if err != nil {
		return nil, err
	}
	return NewStaticFrameWithGeometry(cfg.ID, cfg.Pose(), geometry)
}

// ToFrame converts a JointConfig into a joint frame.
func (cfg *JointConfig) ToFrame() (Frame, error) {
	switch strings.ToLower(cfg.Type) {
	case "revolute":
		// JSON files with no limits specified get full turn limits
		limit := Limit{Min: utils.DegToRad(cfg.Min), Max: utils.DegToRad(cfg.Max)}
		if cfg.Min == 0 && cfg.Max == 0 {
			limit = Limit{Min: -2 * math.Pi, Max: 2 * math.Pi}
		}
		return NewRotationalFrame(cfg.ID, cfg.Axis, limit)
	default:
		return nil, NewUnsupportedJointTypeError(cfg.Type)
	}
}
