package spatialmath

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// CollisionBuffer is the distance at or below which two geometries are considered to be in collision.
const CollisionBuffer = 1e-8

// Geometry is an entity that can be located in 3D space and checked against other geometries for collision and
// separation distance.
type Geometry interface {
	Pose() Pose
	Label() string
	SetLabel(string)
	// Transform premultiplies the geometry pose, moving it into the frame toPremultiply is expressed in.
	Transform(toPremultiply Pose) Geometry
	CollidesWith(Geometry) (bool, error)
	// DistanceFrom returns the separation distance to the other geometry, negative when interpenetrating.
	DistanceFrom(Geometry) (float64, error)
	AlmostEqual(Geometry) bool
	fmt.Stringer
	json.Marshaler
}

// GeometryType is the name of a supported geometry shape.
type GeometryType string

// The geometry types that can be built from a GeometryConfig.
const (
	SphereType  = GeometryType("sphere")
	CapsuleType = GeometryType("capsule")
)

// GeometryConfig specifies the format of geometries in JSON configuration. Translation and orientation place the
// geometry relative to the frame it is attached to.
type GeometryConfig struct {
	Type GeometryType `json:"type"`

	// parameters used for defining a sphere / capsule's radius and a capsule's tip to tip length
	R float64 `json:"r,omitempty"`
	L float64 `json:"l,omitempty"`

	TranslationOffset r3.Vector `json:"translation,omitempty"`
	OrientationOffset *R4AA     `json:"orientation,omitempty"`

	Label string `json:"label,omitempty"`
}

// NewGeometryConfig returns a config describing the given geometry.
func NewGeometryConfig(g Geometry) (*GeometryConfig, error) {
	config := GeometryConfig{Label: g.Label(), TranslationOffset: g.Pose().Point()}
	config.OrientationOffset = quatToR4AA(g.Pose().Orientation().Quaternion())
	switch gType := g.(type) {
	case *sphere:
		config.Type = SphereType
		config.R = gType.radius
	case *capsule:
		config.Type = CapsuleType
		config.R = gType.radius
		config.L = gType.length
	default:
		return nil, newGeometryTypeUnsupportedError(fmt.Sprintf("%T", gType))
	}
	return &config, nil
}

// ParseConfig converts a GeometryConfig into a Geometry.
func (config *GeometryConfig) ParseConfig() (Geometry, error) {
	var o Orientation = NewZeroOrientation()
	if config.OrientationOffset != nil {
		o = config.OrientationOffset
	}
	offset := NewPose(config.TranslationOffset, o)

	switch GeometryType(strings.ToLower(string(config.Type))) {
	case SphereType:
		return NewSphere(offset, config.R, config.Label)
	case CapsuleType:
		return NewCapsule(offset, config.R, config.L, config.Label)
	case "":
		return nil, errors.New("geometry config is missing a type")
	default:
		return nil, newGeometryTypeUnsupportedError(string(config.Type))
	}
}

func geometryMarshal(g Geometry) ([]byte, error) {
	config, err := NewGeometryConfig(g)
	if err != nil {
		return nil, err
	}
	return json.Marshal(config)
}

// Core returns the segment swept by a geometry's center along with its radius: every point of the geometry lies
// within radius of the segment from a to b. A sphere's segment is a single point.
func Core(g Geometry) (a, b r3.Vector, radius float64, err error) {
	switch gType := g.(type) {
	case *sphere:
		center := gType.pose.Point()
		return center, center, gType.radius, nil
	case *capsule:
		return gType.segA, gType.segB, gType.radius, nil
	default:
		return r3.Vector{}, r3.Vector{}, 0, newGeometryTypeUnsupportedError(fmt.Sprintf("%T", gType))
	}
}
