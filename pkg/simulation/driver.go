package simulation

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/kinematics"
	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/topology"
)

// Trajectory is one simulation instance, indexed [step][particle].
// Each entry is the state a particle had before that step was applied.
type Trajectory struct {
	Positions  [][]geometry.Vector2D
	Velocities [][]geometry.Vector2D
}

// InstanceRNG returns the generator of one instance. It depends only on the
// batch seed and the instance index, never on which worker runs it.
func InstanceRNG(seed uint64, instance int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(instance)))
}

// Simulate builds a fresh chaser ring from rng and steps it cfg.Steps times.
// cfg is expected to have passed Validate; an unknown update mode falls back to
// simultaneous.
func Simulate(cfg *Config, rng *rand.Rand) Trajectory {
	mode, _ := cfg.Mode()
	particles := topology.NewChasers(rng, cfg.NumParticles, cfg.ChaserParams)

	traj := Trajectory{
		Positions:  make([][]geometry.Vector2D, cfg.Steps),
		Velocities: make([][]geometry.Vector2D, cfg.Steps),
	}
	for step := 0; step < cfg.Steps; step++ {
		traj.Positions[step], traj.Velocities[step] = snapshot(particles)
		kinematics.Step(particles, cfg.Dt, mode)
	}
	return traj
}

func snapshot(particles []*kinematics.Particle) ([]geometry.Vector2D, []geometry.Vector2D) {
	pos := make([]geometry.Vector2D, len(particles))
	vel := make([]geometry.Vector2D, len(particles))
	for i, p := range particles {
		pos[i] = p.Pos
		vel[i] = p.Vel
	}
	return pos, vel
}
