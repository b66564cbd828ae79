package kinematics

import (
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/geometry"
)

const eps = 1e-9

func TestParticle_Update(t *testing.T) {
	tests := []struct {
		name      string
		pos, vel  geometry.Vector2D
		targetPos *geometry.Vector2D
		dt        float64
		wantPos   geometry.Vector2D
		wantVel   geometry.Vector2D
	}{
		{
			name:    "No target coasts",
			pos:     geometry.Vector2D{}, vel: geometry.Vector2D{X: 1},
			dt:      0.5,
			wantPos: geometry.Vector2D{X: 0.5}, wantVel: geometry.Vector2D{X: 1},
		},
		{
			name:      "Far target is capped at max accel",
			targetPos: &geometry.Vector2D{X: 100},
			dt:        0.3,
			wantPos:   geometry.Vector2D{X: 0.9}, wantVel: geometry.Vector2D{X: 3},
		},
		{
			name:      "Near target under the cap",
			targetPos: &geometry.Vector2D{X: 1},
			dt:        0.3,
			wantPos:   geometry.Vector2D{X: 0.09}, wantVel: geometry.Vector2D{X: 0.3},
		},
		{
			name:      "Velocity is capped at max speed",
			vel:       geometry.Vector2D{X: 9},
			targetPos: &geometry.Vector2D{X: 50},
			dt:        1,
			wantPos:   geometry.Vector2D{X: 10}, wantVel: geometry.Vector2D{X: 10},
		},
		{
			name:      "Target on top of particle gives zero acceleration",
			pos:       geometry.Vector2D{X: 2, Y: 2}, vel: geometry.Vector2D{Y: -1},
			targetPos: &geometry.Vector2D{X: 2, Y: 2},
			dt:        1,
			wantPos:   geometry.Vector2D{X: 2, Y: 1}, wantVel: geometry.Vector2D{Y: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParticle(0, tt.pos, tt.vel, 10, 10)
			if tt.targetPos != nil {
				p.Target = NewParticle(1, *tt.targetPos, geometry.Zero, 10, 10)
			}
			gotPos, gotVel := p.Update(tt.dt)
			if !gotPos.Eq(tt.wantPos) || !gotVel.Eq(tt.wantVel) {
				t.Errorf("Update(%v) = %v, %v; want %v, %v", tt.dt, gotPos, gotVel, tt.wantPos, tt.wantVel)
			}
			if p.Pos != gotPos || p.Vel != gotVel {
				t.Errorf("Update did not mutate the particle in place: %v", p)
			}
		})
	}
}

func TestParticle_SelfTargetStaysFinite(t *testing.T) {
	p := NewParticle(0, geometry.Vector2D{X: 20}, geometry.Vector2D{X: 1, Y: -1}, 10, 10)
	p.Target = p
	for i := 0; i < 10; i++ {
		p.Update(0.3)
	}
	if !p.Pos.IsFinite() || !p.Vel.IsFinite() {
		t.Fatalf("self-targeting particle went non finite: %v", p)
	}
	if !p.Vel.Eq(geometry.Vector2D{X: 1, Y: -1}) {
		t.Errorf("self-targeting particle changed velocity: %v", p.Vel)
	}
}

func TestParticle_BoundsHoldUnderRandomPursuit(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	const maxSpeed, maxAccel, dt = 10.0, 10.0, 0.3

	particles := make([]*Particle, 8)
	for i := range particles {
		pos := geometry.Vector2D{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
		vel := geometry.Vector2D{X: rng.Float64()*4 - 2, Y: rng.Float64()*4 - 2}
		particles[i] = NewParticle(i, pos, vel, maxSpeed, maxAccel)
	}
	for i, p := range particles {
		p.Target = particles[(i+3)%len(particles)]
	}

	for _, mode := range []UpdateMode{Simultaneous, Sequential} {
		for step := 0; step < 200; step++ {
			before := make([]geometry.Vector2D, len(particles))
			for i, p := range particles {
				before[i] = p.Vel
			}
			Step(particles, dt, mode)
			for i, p := range particles {
				if p.Vel.Len() > maxSpeed+eps {
					t.Fatalf("%s step %d: speed %v exceeds %v", mode, step, p.Vel.Len(), maxSpeed)
				}
				implied := p.Vel.Sub(before[i]).Len() / dt
				if implied > maxAccel+eps {
					t.Fatalf("%s step %d: implied accel %v exceeds %v", mode, step, implied, maxAccel)
				}
			}
		}
	}
}

func TestStep_Modes(t *testing.T) {
	build := func() []*Particle {
		a := NewParticle(0, geometry.Vector2D{}, geometry.Zero, 100, 100)
		b := NewParticle(1, geometry.Vector2D{X: 10}, geometry.Zero, 100, 100)
		a.Target, b.Target = b, a
		return []*Particle{a, b}
	}

	t.Run("Simultaneous reads start-of-step positions", func(t *testing.T) {
		ps := build()
		Step(ps, 1, Simultaneous)
		if !ps[0].Pos.Eq(geometry.Vector2D{X: 10}) {
			t.Errorf("a.Pos = %v; want (10, 0)", ps[0].Pos)
		}
		if !ps[1].Pos.Eq(geometry.Vector2D{}) {
			t.Errorf("b.Pos = %v; want (0, 0)", ps[1].Pos)
		}
	})

	t.Run("Sequential sees targets already moved", func(t *testing.T) {
		ps := build()
		Step(ps, 1, Sequential)
		if !ps[0].Pos.Eq(geometry.Vector2D{X: 10}) {
			t.Errorf("a.Pos = %v; want (10, 0)", ps[0].Pos)
		}
		if !ps[1].Pos.Eq(geometry.Vector2D{X: 10}) || !ps[1].Vel.Eq(geometry.Zero) {
			t.Errorf("b = %v; want resting at (10, 0)", ps[1])
		}
	})

	t.Run("Empty collection", func(t *testing.T) {
		Step(nil, 1, Simultaneous)
		Step([]*Particle{}, 1, Sequential)
	})
}

func TestParseUpdateMode(t *testing.T) {
	tests := []struct {
		in      string
		want    UpdateMode
		wantErr bool
	}{
		{"", Simultaneous, false},
		{"simultaneous", Simultaneous, false},
		{" Sequential ", Sequential, false},
		{"cascade", Simultaneous, true},
	}
	for _, tt := range tests {
		got, err := ParseUpdateMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUpdateMode(%q) error = %v; wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseUpdateMode(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
	if s := Sequential.String(); s != "sequential" {
		t.Errorf("Sequential.String() = %q", s)
	}
}

func BenchmarkStep(b *testing.B) {
	particles := make([]*Particle, 64)
	for i := range particles {
		particles[i] = NewParticle(i, geometry.NewVectorPolar(20, float64(i)), geometry.Zero, 10, 10)
	}
	for i, p := range particles {
		p.Target = particles[(i+len(particles)-1)%len(particles)]
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Step(particles, 0.3, Simultaneous)
	}
}
