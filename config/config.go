// Package config defines the run configuration: the environment the arm explores and how the planners search it.
package config

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/cspace/collision"
	"go.viam.com/cspace/components/arm/universalrobots"
	"go.viam.com/cspace/motionplan"
	"go.viam.com/cspace/referenceframe"
	"go.viam.com/cspace/spatialmath"
)

// default values for the parts of a run that are not planner options.
const (
	defaultNearTargetThreshold = 5e-2
	defaultMultiStart          = 4
	defaultSurveySamples       = 500
	defaultDisplayDelayMs      = 0
)

// Target is the point the end effector is driven toward, in the x/z plane of the world.
type Target struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Point returns the target as a planar point.
func (t Target) Point() r2.Point {
	return r2.Point{X: t.X, Y: t.Z}
}

// Config describes a run.
type Config struct {
	// ModelFile is an SVA kinematics JSON file. The embedded UR5 model is used when empty.
	ModelFile string `json:"model_file,omitempty"`

	Target    Target                         `json:"target"`
	Obstacles []*spatialmath.GeometryConfig `json:"obstacles"`

	Planning motionplan.Options `json:"planning"`

	// Cost below which sampling near the target stops
	NearTargetThreshold float64 `json:"near_target_threshold"`
	// Number of parallel starts used by the multi start optimizer
	MultiStart int `json:"multi_start"`
	// Number of configurations drawn by a survey
	SurveySamples int `json:"survey_samples"`
	// Pause after displaying each configuration, in milliseconds
	DisplayDelayMs int `json:"display_delay_ms"`
}

// Default returns the exploration exercise environment: four capsule obstacles lying along y around the target
// (0.5, 0.5).
func Default() *Config {
	alongY := func() *spatialmath.R4AA { return &spatialmath.R4AA{Theta: math.Pi / 2, RX: 1} }
	obstacle := func(label string, x, z float64) *spatialmath.GeometryConfig {
		cfg := &spatialmath.GeometryConfig{
			Type:              spatialmath.CapsuleType,
			R:                 0.05,
			L:                 0.6,
			OrientationOffset: alongY(),
			Label:             label,
		}
		cfg.TranslationOffset.X = x
		cfg.TranslationOffset.Y = 0.06
		cfg.TranslationOffset.Z = z
		return cfg
	}
	cfg := withDefaults()
	cfg.Target = Target{X: 0.5, Z: 0.5}
	cfg.Obstacles = []*spatialmath.GeometryConfig{
		obstacle("obstacle_a", 0.40, 0.30),
		obstacle("obstacle_b", -0.08, 0.75),
		obstacle("obstacle_c", 0.23, 0.04),
		obstacle("obstacle_d", -0.32, -0.08),
	}
	return cfg
}

// withDefaults returns a config holding every default and no environment. Documents are decoded onto it, so a
// field the document leaves out keeps its default while an explicit value, zero included, replaces it.
func withDefaults() *Config {
	return &Config{
		Planning:            *motionplan.NewDefaultOptions(),
		NearTargetThreshold: defaultNearTargetThreshold,
		MultiStart:          defaultMultiStart,
		SurveySamples:       defaultSurveySamples,
		DisplayDelayMs:      defaultDisplayDelayMs,
	}
}

// Validate reports every problem with the configuration.
func (c *Config) Validate() error {
	var err error
	if math.IsNaN(c.Target.X) || math.IsNaN(c.Target.Z) {
		multierr.AppendInto(&err, errors.New("target: coordinates must be numbers"))
	}
	labels := map[string]int{}
	for idx, obs := range c.Obstacles {
		path := fmt.Sprintf("obstacles.%d", idx)
		if obs == nil {
			multierr.AppendInto(&err, errors.Errorf("%s: obstacle is empty", path))
			continue
		}
		if _, geomErr := obs.ParseConfig(); geomErr != nil {
			multierr.AppendInto(&err, errors.Wrap(geomErr, path))
		}
		if obs.Label != "" {
			if prev, ok := labels[obs.Label]; ok {
				multierr.AppendInto(&err, errors.Errorf("%s: label %q already used by obstacles.%d", path, obs.Label, prev))
			}
			labels[obs.Label] = idx
		}
	}
	if planErr := c.Planning.Validate(); planErr != nil {
		for _, e := range multierr.Errors(planErr) {
			multierr.AppendInto(&err, errors.Wrap(e, "planning"))
		}
	}
	if c.NearTargetThreshold <= 0 {
		multierr.AppendInto(&err, errors.Errorf("near_target_threshold must be positive, got %v", c.NearTargetThreshold))
	}
	if c.MultiStart < 1 {
		multierr.AppendInto(&err, errors.Errorf("multi_start must be at least 1, got %d", c.MultiStart))
	}
	if c.SurveySamples < 1 {
		multierr.AppendInto(&err, errors.Errorf("survey_samples must be at least 1, got %d", c.SurveySamples))
	}
	if c.DisplayDelayMs < 0 {
		multierr.AppendInto(&err, errors.Errorf("display_delay_ms must not be negative, got %d", c.DisplayDelayMs))
	}
	return err
}

// Model loads the kinematics of the arm.
func (c *Config) Model() (referenceframe.Model, error) {
	if c.ModelFile == "" {
		return universalrobots.MakeModelFrame("")
	}
	return referenceframe.ParseModelJSONFile(c.ModelFile, "")
}

// ObstacleGeometries builds the obstacles in the world frame.
func (c *Config) ObstacleGeometries() ([]spatialmath.Geometry, error) {
	geometries := make([]spatialmath.Geometry, 0, len(c.Obstacles))
	for idx, obs := range c.Obstacles {
		g, err := obs.ParseConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "obstacles.%d", idx)
		}
		geometries = append(geometries, g)
	}
	return geometries, nil
}

// Scene builds the collision engine for the configured arm and obstacles.
func (c *Config) Scene() (*collision.Scene, error) {
	model, err := c.Model()
	if err != nil {
		return nil, err
	}
	obstacles, err := c.ObstacleGeometries()
	if err != nil {
		return nil, err
	}
	return collision.NewScene(model, obstacles)
}

// Problem builds the planning problem: the scene, the UR5 reduction codec and the target.
func (c *Config) Problem() (*motionplan.Problem, error) {
	scene, err := c.Scene()
	if err != nil {
		return nil, err
	}
	codec, err := motionplan.NewCodec(scene.DoF(), 1, 2)
	if err != nil {
		return nil, err
	}
	return motionplan.NewProblem(scene, codec, c.Target.Point(), c.Planning.Threshold)
}
