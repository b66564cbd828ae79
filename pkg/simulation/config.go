package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/kinematics"
	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/topology"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// Batch
	NumParticles int     `json:"numParticles"`
	Instances    int     `json:"instances"`
	Steps        int     `json:"steps"`
	Dt           float64 `json:"dt"`
	Seed         uint64  `json:"seed"`

	// Execution
	Workers       int    `json:"workers"`       // <= 1 runs in the calling goroutine
	UpdateMode    string `json:"updateMode"`    // "simultaneous" or "sequential"
	ProgressEvery int    `json:"progressEvery"` // 0 disables progress lines

	// Output
	SaveDir   string `json:"saveDir"`
	Prefix    string `json:"prefix"`
	SaveEdges bool   `json:"saveEdges"`

	// Swarm influence graph
	Obstacles int `json:"obstacles"`
	Boids     int `json:"boids"`
	Vicseks   int `json:"vicseks"`

	// Chaser physics
	topology.ChaserParams
}

func DefaultConfig() *Config {
	return &Config{
		NumParticles:  5,
		Instances:     1000,
		Steps:         50,
		Dt:            0.3,
		Workers:       1,
		UpdateMode:    kinematics.Simultaneous.String(),
		ProgressEvery: 1000,
		SaveDir:       "data",
		ChaserParams:  topology.DefaultChaserParams(),
	}
}

// Mode returns the parsed UpdateMode.
func (c *Config) Mode() (kinematics.UpdateMode, error) {
	return kinematics.ParseUpdateMode(c.UpdateMode)
}

// Validate checks the ranges the engine relies on.
func (c *Config) Validate() error {
	counts := []struct {
		name  string
		value int
	}{
		{"numParticles", c.NumParticles},
		{"instances", c.Instances},
		{"steps", c.Steps},
		{"obstacles", c.Obstacles},
		{"boids", c.Boids},
		{"vicseks", c.Vicseks},
		{"progressEvery", c.ProgressEvery},
	}
	for _, cnt := range counts {
		if cnt.value < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %d", ErrInvalidConfig, cnt.name, cnt.value)
		}
	}

	reals := []struct {
		name  string
		value float64
	}{
		{"dt", c.Dt},
		{"radius", c.Radius},
		{"maxInitSpeed", c.MaxInitSpeed},
		{"maxSpeed", c.MaxSpeed},
		{"maxAccel", c.MaxAccel},
	}
	for _, r := range reals {
		if math.IsNaN(r.value) || math.IsInf(r.value, 0) || r.value < 0 {
			return fmt.Errorf("%w: %s must be a finite non-negative number, got %v", ErrInvalidConfig, r.name, r.value)
		}
	}

	if _, err := c.Mode(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig loads configuration from a JSON file and validates it against the schema.
// Fields missing from the file keep their DefaultConfig value.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	sch, err := jsonschema.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
