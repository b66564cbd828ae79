package simulation

import (
	"time"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/topology"
)

// Dataset is the outcome of one RunBatch call.
type Dataset struct {
	RunID     uuid.UUID
	Config    Config
	Instances []Trajectory
	Edges     *topology.InfluenceMatrix // nil unless Config.SaveEdges
	Stats     Stats
	Elapsed   time.Duration
}

// TrajectoryShape is (instances, steps, particles, 2).
func (ds *Dataset) TrajectoryShape() []int {
	return []int{len(ds.Instances), ds.Config.Steps, ds.Config.NumParticles, 2}
}

// EdgeShape is (instances, particles, particles).
func (ds *Dataset) EdgeShape() []int {
	return []int{len(ds.Instances), ds.Config.NumParticles, ds.Config.NumParticles}
}

// FlatPositions returns the positions in row-major TrajectoryShape order.
func (ds *Dataset) FlatPositions() []float64 {
	return ds.flatten(func(t Trajectory) [][]geometry.Vector2D { return t.Positions })
}

// FlatVelocities returns the velocities in row-major TrajectoryShape order.
func (ds *Dataset) FlatVelocities() []float64 {
	return ds.flatten(func(t Trajectory) [][]geometry.Vector2D { return t.Velocities })
}

// FlatEdges returns the influence matrix replicated once per instance, or nil.
func (ds *Dataset) FlatEdges() []int {
	if ds.Edges == nil {
		return nil
	}
	return topology.Replicate(*ds.Edges, len(ds.Instances))
}

func (ds *Dataset) flatten(pick func(Trajectory) [][]geometry.Vector2D) []float64 {
	out := make([]float64, 0, len(ds.Instances)*ds.Config.Steps*ds.Config.NumParticles*2)
	for _, traj := range ds.Instances {
		for _, step := range pick(traj) {
			for _, v := range step {
				out = append(out, v.X, v.Y)
			}
		}
	}
	return out
}
