package simulation

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const schemaFile = "../../configs/config.schema.json"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.NumParticles != 5 || cfg.Instances != 1000 || cfg.Steps != 50 || cfg.Dt != 0.3 {
		t.Errorf("unexpected batch defaults: %+v", cfg)
	}
	if cfg.Radius != 20 || cfg.MaxInitSpeed != 2 || cfg.MaxSpeed != 10 || cfg.MaxAccel != 10 {
		t.Errorf("unexpected chaser defaults: %+v", cfg.ChaserParams)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Negative particles", func(c *Config) { c.NumParticles = -1 }},
		{"Negative instances", func(c *Config) { c.Instances = -3 }},
		{"Negative steps", func(c *Config) { c.Steps = -1 }},
		{"Negative vicseks", func(c *Config) { c.Vicseks = -2 }},
		{"NaN dt", func(c *Config) { c.Dt = math.NaN() }},
		{"Infinite max speed", func(c *Config) { c.MaxSpeed = math.Inf(1) }},
		{"Unknown mode", func(c *Config) { c.UpdateMode = "cascade" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v; want ErrInvalidConfig", err)
			}
		})
	}

	t.Run("Zero counts are fine", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.NumParticles, cfg.Instances, cfg.Steps = 0, 0, 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v; want nil", err)
		}
	})
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("Shipped config", func(t *testing.T) {
		cfg, err := LoadConfig("../../configs/config.json", schemaFile)
		if err != nil {
			t.Fatalf("LoadConfig() = %v", err)
		}
		if cfg.Prefix != "train" || !cfg.SaveEdges || cfg.Workers != 4 {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("Missing fields keep defaults", func(t *testing.T) {
		path := writeFile(t, `{"numParticles": 3, "updateMode": "sequential"}`)
		cfg, err := LoadConfig(path, schemaFile)
		if err != nil {
			t.Fatalf("LoadConfig() = %v", err)
		}
		if cfg.NumParticles != 3 || cfg.Steps != 50 || cfg.MaxAccel != 10 {
			t.Errorf("defaults not kept: %+v", cfg)
		}
		if cfg.UpdateMode != "sequential" {
			t.Errorf("UpdateMode = %q; want sequential", cfg.UpdateMode)
		}
	})

	t.Run("Schema rejects negative steps", func(t *testing.T) {
		path := writeFile(t, `{"steps": -1}`)
		if _, err := LoadConfig(path, schemaFile); err == nil {
			t.Error("LoadConfig() accepted negative steps")
		}
	})

	t.Run("Schema rejects unknown fields", func(t *testing.T) {
		path := writeFile(t, `{"numParticle": 5}`)
		if _, err := LoadConfig(path, schemaFile); err == nil {
			t.Error("LoadConfig() accepted a misspelled field")
		}
	})

	t.Run("Broken json", func(t *testing.T) {
		path := writeFile(t, `{"steps": `)
		if _, err := LoadConfig(path, schemaFile); err == nil {
			t.Error("LoadConfig() accepted broken json")
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"), schemaFile); err == nil {
			t.Error("LoadConfig() accepted a missing file")
		}
	})
}
