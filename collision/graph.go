package collision

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	spatial "go.viam.com/cspace/spatialmath"
)

// Collision is a pair of strings corresponding to names of Geometry objects in collision, and a penetrationDepth describing the
// Euclidean distance a Geometry would have to be moved to resolve the Collision.
type Collision struct {
	Name1, Name2     string
	PenetrationDepth float64
}

// collisionEntity is an object that is used in collision checking and contains a named geometry.
type collisionEntity struct {
	name     string
	geometry spatial.Geometry
}

// collisionEntities is a set of named geometries ordered by name.
type collisionEntities struct {
	entities []*collisionEntity
}

func newCollisionEntities(geometries map[string]spatial.Geometry) *collisionEntities {
	// map iteration order is random; sort so distance ties resolve the same way every call
	names := lo.Keys(geometries)
	sort.Strings(names)
	entities := make([]*collisionEntity, 0, len(names))
	for _, name := range names {
		entities = append(entities, &collisionEntity{name, geometries[name]})
	}
	return &collisionEntities{entities}
}

func newCollisionEntitiesFromList(geometries []spatial.Geometry) (*collisionEntities, error) {
	named := make(map[string]spatial.Geometry, len(geometries))
	for i, geometry := range geometries {
		name := geometry.Label()
		if name == "" {
			name = unnamedObstacleLabel(i)
		}
		if _, ok := named[name]; ok {
			return nil, errors.Errorf("error creating collision entities, found geometry with duplicate name: %s", name)
		}
		named[name] = geometry
	}
	return newCollisionEntities(named), nil
}

// count returns the number of collisionEntities in a CollisionEntities class.
func (ce *collisionEntities) count() int {
	return len(ce.entities)
}

// entityFromIndex returns the entity that corresponds to the given index.
func (ce *collisionEntities) entityFromIndex(index int) *collisionEntity {
	return ce.entities[index]
}

// collisionGraph stores the pairwise distance (or a collision indicator) between every entity of x and every entity of y.
// Unevaluated pairs hold NaN.
type collisionGraph struct {
	x, y *collisionEntities

	distances [][]float64

	reportDistances bool
}

// newCollisionGraph instantiates a collisionGraph object and checks for collisions between the two sets of entities.
// When reportDistances is false the check stops at the first collision found, and only that collision is reported.
func newCollisionGraph(x, y *collisionEntities, reportDistances bool) (*collisionGraph, error) {
	cg := &collisionGraph{x: x, y: y, reportDistances: reportDistances}
	cg.distances = make([][]float64, x.count())
	for i := range cg.distances {
		cg.distances[i] = make([]float64, y.count())
		for j := range cg.distances[i] {
			cg.distances[i][j] = math.NaN()
		}
	}

	for i := range cg.distances {
		xi := x.entityFromIndex(i)
		for j := range cg.distances[i] {
			yj := y.entityFromIndex(j)
			dist, err := cg.checkCollision(xi, yj)
			if err != nil {
				return nil, err
			}
			cg.distances[i][j] = dist
			if !reportDistances && dist <= spatial.CollisionBuffer {
				return cg, nil
			}
		}
	}
	return cg, nil
}

func (cg *collisionGraph) checkCollision(x, y *collisionEntity) (float64, error) {
	if cg.reportDistances {
		return x.geometry.DistanceFrom(y.geometry)
	}
	col, err := x.geometry.CollidesWith(y.geometry)
	if col {
		return -1, err
	}
	return 1, err
}

// collisions returns a list of all the Collisions found. NaN entries never compare as collisions.
func (cg *collisionGraph) collisions() []Collision {
	var collisions []Collision
	for i := range cg.distances {
		for j := range cg.distances[i] {
			if cg.distances[i][j] <= spatial.CollisionBuffer {
				collisions = append(collisions, Collision{
					cg.x.entityFromIndex(i).name,
					cg.y.entityFromIndex(j).name,
					cg.distances[i][j],
				})
			}
		}
	}
	return collisions
}

// minDistance returns the smallest evaluated distance in the graph and the pair it belongs to.
func (cg *collisionGraph) minDistance() (float64, string, string) {
	best := math.Inf(1)
	var xName, yName string
	for i := range cg.distances {
		for j, dist := range cg.distances[i] {
			if dist < best {
				best = dist
				xName = cg.x.entityFromIndex(i).name
				yName = cg.y.entityFromIndex(j).name
			}
		}
	}
	return best, xName, yName
}
