// Package kinematics holds the physical state of a single chaser and the
// bounded pursuit rule that advances it in time.
package kinematics

import (
	"fmt"
	"strings"

	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/geometry"
)

// Particle is a point mass that pursues a single Target.
// Target is a non-owning reference into the same collection and may be nil
// (the particle then coasts) or the particle itself (acceleration is zero).
type Particle struct {
	ID       int
	Pos      geometry.Vector2D
	Vel      geometry.Vector2D
	MaxSpeed float64
	MaxAccel float64
	Target   *Particle
}

// NewParticle creates a particle without target.
func NewParticle(id int, pos, vel geometry.Vector2D, maxSpeed, maxAccel float64) *Particle {
	return &Particle{
		ID:       id,
		Pos:      pos,
		Vel:      vel,
		MaxSpeed: maxSpeed,
		MaxAccel: maxAccel,
	}
}

func (p *Particle) String() string {
	target := "none"
	if p.Target != nil {
		target = fmt.Sprintf("%d", p.Target.ID)
	}
	return fmt.Sprintf("#%d pos:%s vel:%s -> %s", p.ID, p.Pos, p.Vel, target)
}

// Acceleration returns the pursuit acceleration toward targetPos, capped at MaxAccel.
func (p *Particle) Acceleration(targetPos geometry.Vector2D) geometry.Vector2D {
	return targetPos.Sub(p.Pos).ClampLen(p.MaxAccel)
}

// Update advances the particle by dt toward the current position of its target
// and returns the new position and velocity.
func (p *Particle) Update(dt float64) (geometry.Vector2D, geometry.Vector2D) {
	if p.Target == nil {
		return p.advance(geometry.Zero, dt)
	}
	return p.UpdateToward(p.Target.Pos, dt)
}

// UpdateToward is Update with the target position given explicitly, which lets a
// caller feed positions from a snapshot taken before the step started.
func (p *Particle) UpdateToward(targetPos geometry.Vector2D, dt float64) (geometry.Vector2D, geometry.Vector2D) {
	return p.advance(p.Acceleration(targetPos), dt)
}

func (p *Particle) advance(accel geometry.Vector2D, dt float64) (geometry.Vector2D, geometry.Vector2D) {
	p.Vel = p.Vel.Add(accel.Mul(dt)).ClampLen(p.MaxSpeed)
	p.Pos = p.Pos.Add(p.Vel.Mul(dt))
	return p.Pos, p.Vel
}

// UpdateMode selects how particles sharing a time step see each other.
type UpdateMode int

const (
	// Simultaneous reads every target at its start-of-step position.
	Simultaneous UpdateMode = iota
	// Sequential updates in slice order, so a target handled earlier in the
	// same step is seen at its new position.
	Sequential
)

func (m UpdateMode) String() string {
	switch m {
	case Simultaneous:
		return "simultaneous"
	case Sequential:
		return "sequential"
	default:
		return fmt.Sprintf("UpdateMode(%d)", int(m))
	}
}

// ParseUpdateMode maps a config string to an UpdateMode, the empty string
// meaning Simultaneous.
func ParseUpdateMode(s string) (UpdateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "simultaneous":
		return Simultaneous, nil
	case "sequential":
		return Sequential, nil
	}
	return Simultaneous, fmt.Errorf("unknown update mode %q", s)
}

// Step advances every particle by dt.
func Step(particles []*Particle, dt float64, mode UpdateMode) {
	if mode == Sequential {
		for _, p := range particles {
			p.Update(dt)
		}
		return
	}

	// Snapshot first: targets must not move before everyone has read them.
	targets := make([]geometry.Vector2D, len(particles))
	for i, p := range particles {
		if p.Target != nil {
			targets[i] = p.Target.Pos
		}
	}
	for i, p := range particles {
		if p.Target == nil {
			p.Update(dt)
			continue
		}
		p.UpdateToward(targets[i], dt)
	}
}
