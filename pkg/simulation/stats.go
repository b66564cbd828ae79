package simulation

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises every recorded particle state of a dataset.
type Stats struct {
	Samples    int     `json:"samples"`
	MeanSpeed  float64 `json:"meanSpeed"`
	StdSpeed   float64 `json:"stdSpeed"`
	MaxSpeed   float64 `json:"maxSpeed"`
	MeanRadius float64 `json:"meanRadius"` // distance to the origin
	MaxRadius  float64 `json:"maxRadius"`
}

func (s Stats) String() string {
	return fmt.Sprintf("samples=%d speed(mean=%.3f std=%.3f max=%.3f) radius(mean=%.3f max=%.3f)",
		s.Samples, s.MeanSpeed, s.StdSpeed, s.MaxSpeed, s.MeanRadius, s.MaxRadius)
}

// Summarize computes Stats over all instances, steps and particles.
func Summarize(ds *Dataset) Stats {
	var speeds, radii []float64
	for _, traj := range ds.Instances {
		for step := range traj.Positions {
			for i, pos := range traj.Positions[step] {
				radii = append(radii, pos.Len())
				speeds = append(speeds, traj.Velocities[step][i].Len())
			}
		}
	}
	if len(speeds) == 0 {
		return Stats{}
	}

	mean, std := stat.MeanStdDev(speeds, nil)
	s := Stats{
		Samples:    len(speeds),
		MeanSpeed:  mean,
		MaxSpeed:   floats.Max(speeds),
		MeanRadius: stat.Mean(radii, nil),
		MaxRadius:  floats.Max(radii),
	}
	if len(speeds) > 1 {
		s.StdSpeed = std
	}
	return s
}
