// Package topology builds particle collections and the influence matrices that
// describe who affects whom inside them.
package topology

import (
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/kinematics"
)

// ChaserParams sets the spawn circle and the physical caps of a chaser ring.
type ChaserParams struct {
	Radius       float64 `json:"radius"`       // spawn circle radius
	MaxInitSpeed float64 `json:"maxInitSpeed"` // initial velocity components drawn in [-MaxInitSpeed, MaxInitSpeed]
	MaxSpeed     float64 `json:"maxSpeed"`
	MaxAccel     float64 `json:"maxAccel"`
}

func DefaultChaserParams() ChaserParams {
	return ChaserParams{
		Radius:       20,
		MaxInitSpeed: 2,
		MaxSpeed:     10,
		MaxAccel:     10,
	}
}

// NewChasers spawns n chasers at random angles on the spawn circle.
// Particle i pursues particle i-1 and particle 0 pursues the last one, closing
// the ring; a single chaser pursues itself. Draw order per particle is angle,
// then vx, then vy, so a seeded rng always yields the same ring.
func NewChasers(rng *rand.Rand, n int, params ChaserParams) []*kinematics.Particle {
	if n <= 0 {
		return []*kinematics.Particle{}
	}

	particles := make([]*kinematics.Particle, 0, n)
	var prev *kinematics.Particle
	for i := 0; i < n; i++ {
		theta := rng.Float64() * 2 * math.Pi
		pos := geometry.NewVector(params.Radius*math.Cos(theta), params.Radius*math.Sin(theta))
		vel := geometry.NewVector(
			uniform(rng, -params.MaxInitSpeed, params.MaxInitSpeed),
			uniform(rng, -params.MaxInitSpeed, params.MaxInitSpeed),
		)

		p := kinematics.NewParticle(i, pos, vel, params.MaxSpeed, params.MaxAccel)
		p.Target = prev
		particles = append(particles, p)
		prev = p
	}
	particles[0].Target = prev

	return particles
}

func uniform(rng *rand.Rand, low, high float64) float64 {
	return low + (high-low)*rng.Float64()
}
