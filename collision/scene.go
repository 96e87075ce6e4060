// Package collision answers kinematic and collision queries about an arm placed among static obstacles.
package collision

import (
	"fmt"
	"slices"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/cspace/referenceframe"
	"go.viam.com/cspace/spatialmath"
)

// ErrInfeasiblePrecondition is returned when a minimum clearance is requested for a configuration that is in collision.
var ErrInfeasiblePrecondition = errors.New("minimum clearance is undefined for a configuration in collision")

// Engine is the kinematic and collision backend used by the planners. Configurations are full joint vectors of
// length DoF.
type Engine interface {
	// EndEffectorPosition returns the x/z projection of the end effector position.
	EndEffectorPosition(full []referenceframe.Input) (r2.Point, error)
	IsColliding(full []referenceframe.Input) (bool, error)
	// MinClearance returns the smallest distance between any robot link and any obstacle. It must only be called on
	// configurations that are not colliding, and returns ErrInfeasiblePrecondition otherwise.
	MinClearance(full []referenceframe.Input) (float64, error)
	// DoF is the length of the full configurations this engine accepts.
	DoF() int
	// Clone returns an engine sharing the read only model and obstacles but with its own placement state.
	Clone() Engine
}

// placement is the robot geometry placed for one configuration, along with whatever has been computed about it.
type placement struct {
	inputs []float64
	robot  *collisionEntities
	eePose spatialmath.Pose

	colliding *bool
	clearance *collisionGraph
}

// Scene is an Engine over a kinematic model and a fixed set of obstacles. It caches the placement of the last
// configuration it was queried with. A Scene must be used from one goroutine at a time; use Clone for others.
type Scene struct {
	model     referenceframe.Model
	obstacles *collisionEntities

	last *placement
}

// NewScene creates a Scene for the model among the given obstacles. Obstacles are expressed in the world frame and
// must have unique labels; unlabeled obstacles are named by their position in the list.
func NewScene(model referenceframe.Model, obstacles []spatialmath.Geometry) (*Scene, error) {
	if model == nil {
		return nil, referenceframe.ErrNoModelInformation
	}
	if len(model.DoF()) == 0 {
		return nil, errors.Errorf("model %q has no degrees of freedom", model.Name())
	}
	entities, err := newCollisionEntitiesFromList(obstacles)
	if err != nil {
		return nil, err
	}
	return &Scene{model: model, obstacles: entities}, nil
}

func unnamedObstacleLabel(i int) string {
	return fmt.Sprintf("obstacle_%d", i)
}

// Model returns the kinematic model of the scene.
func (s *Scene) Model() referenceframe.Model {
	return s.model
}

// Obstacles returns the obstacles of the scene, sorted by label.
func (s *Scene) Obstacles() []spatialmath.Geometry {
	geometries := make([]spatialmath.Geometry, 0, s.obstacles.count())
	for _, entity := range s.obstacles.entities {
		geometries = append(geometries, entity.geometry)
	}
	return geometries
}

// DoF returns the number of joints of the model.
func (s *Scene) DoF() int {
	return len(s.model.DoF())
}

// Clone returns a new Scene over the same model and obstacles with an empty cache.
func (s *Scene) Clone() Engine {
	return &Scene{model: s.model, obstacles: s.obstacles}
}

// place returns the placement for the inputs, reusing the cached one when the inputs have not changed.
func (s *Scene) place(full []referenceframe.Input) (*placement, error) {
	floats := referenceframe.InputsToFloats(full)
	if s.last != nil && slices.Equal(s.last.inputs, floats) {
		return s.last, nil
	}
	poses, err := s.model.LinkPoses(full)
	if err != nil && !referenceframe.IsOOBError(err) {
		return nil, err
	}
	// joint limits do not constrain the search; out of bounds inputs are still placed
	geometries, err := s.model.Geometries(full)
	if err != nil && !referenceframe.IsOOBError(err) {
		return nil, err
	}
	s.last = &placement{
		inputs: floats,
		robot:  newCollisionEntities(geometries),
		eePose: poses[len(poses)-1],
	}
	return s.last, nil
}

// EndEffectorPosition returns the x and z coordinates of the end effector.
func (s *Scene) EndEffectorPosition(full []referenceframe.Input) (r2.Point, error) {
	p, err := s.place(full)
	if err != nil {
		return r2.Point{}, err
	}
	pt := p.eePose.Point()
	return r2.Point{X: pt.X, Y: pt.Z}, nil
}

// IsColliding reports whether any link of the robot touches any obstacle.
func (s *Scene) IsColliding(full []referenceframe.Input) (bool, error) {
	p, err := s.place(full)
	if err != nil {
		return false, err
	}
	if p.colliding != nil {
		return *p.colliding, nil
	}
	var colliding bool
	if p.clearance != nil {
		colliding = len(p.clearance.collisions()) > 0
	} else {
		cg, err := newCollisionGraph(p.robot, s.obstacles, false)
		if err != nil {
			return false, err
		}
		colliding = len(cg.collisions()) > 0
	}
	p.colliding = &colliding
	return colliding, nil
}

// MinClearance returns the minimum distance between the robot and the obstacles, +Inf for a scene without obstacles.
func (s *Scene) MinClearance(full []referenceframe.Input) (float64, error) {
	p, err := s.place(full)
	if err != nil {
		return 0, err
	}
	if p.colliding != nil && *p.colliding {
		return 0, ErrInfeasiblePrecondition
	}
	if p.clearance == nil {
		cg, err := newCollisionGraph(p.robot, s.obstacles, true)
		if err != nil {
			return 0, err
		}
		p.clearance = cg
	}
	dist, robotName, obstacleName := p.clearance.minDistance()
	if dist <= spatialmath.CollisionBuffer {
		return 0, errors.Wrapf(ErrInfeasiblePrecondition, "%s touches %s", robotName, obstacleName)
	}
	return dist, nil
}

// Collisions returns every robot/obstacle pair in contact for the configuration.
func (s *Scene) Collisions(full []referenceframe.Input) ([]Collision, error) {
	p, err := s.place(full)
	if err != nil {
		return nil, err
	}
	if p.clearance == nil {
		cg, err := newCollisionGraph(p.robot, s.obstacles, true)
		if err != nil {
			return nil, err
		}
		p.clearance = cg
	}
	return p.clearance.collisions(), nil
}
