package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/export"
	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/simulation"
	"github.com/tochemey/goakt/v3/log"
)

const defaultSchema = "configs/config.schema.json"

func main() {
	cfg := simulation.DefaultConfig()

	configFile := flag.String("config", "", "JSON config file, flags given explicitly override it")
	schemaFile := flag.String("schema", defaultSchema, "JSON schema used to validate -config")
	verbose := flag.Bool("v", false, "debug logging")

	flag.IntVar(&cfg.NumParticles, "n", cfg.NumParticles, "number of particles")
	flag.IntVar(&cfg.NumParticles, "num-particles", cfg.NumParticles, "number of particles")
	flag.IntVar(&cfg.Instances, "instances", cfg.Instances, "number of instances to run")
	flag.IntVar(&cfg.Steps, "steps", cfg.Steps, "number of time steps per simulation")
	flag.Float64Var(&cfg.Dt, "dt", cfg.Dt, "unit time step")
	flag.StringVar(&cfg.SaveDir, "save-dir", cfg.SaveDir, "name of the save directory")
	flag.StringVar(&cfg.Prefix, "prefix", cfg.Prefix, "prefix for save files")
	flag.BoolVar(&cfg.SaveEdges, "save-edges", cfg.SaveEdges, "also save the influence matrices")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "batch random seed")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of worker actors, 1 runs inline")
	flag.StringVar(&cfg.UpdateMode, "mode", cfg.UpdateMode, "per-step update mode: simultaneous or sequential")
	flag.IntVar(&cfg.ProgressEvery, "progress-every", cfg.ProgressEvery, "log progress every N instances, 0 disables")
	flag.Parse()

	level := log.InfoLevel
	if *verbose {
		level = log.DebugLevel
	}
	logger := log.New(level, os.Stdout)

	if *configFile != "" {
		fileCfg, err := simulation.LoadConfig(*configFile, *schemaFile)
		if err != nil {
			logger.Fatalf("loading %s: %v", *configFile, err)
		}
		// Explicit flags win over the file.
		flagged := *cfg
		*cfg = *fileCfg
		flag.Visit(func(f *flag.Flag) { applyFlag(cfg, &flagged, f.Name) })
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := simulation.RunBatch(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("batch failed: %v", err)
	}

	paths, err := export.Save(cfg.SaveDir, cfg.Prefix, ds)
	if err != nil {
		logger.Fatalf("saving dataset: %v", err)
	}
	logger.Infof("saved %s and %s (%v)", paths.Positions, paths.Velocities, ds.TrajectoryShape())
	if paths.Edges != "" {
		logger.Infof("saved %s (%v)", paths.Edges, ds.EdgeShape())
	}
	logger.Infof("stats: %s", ds.Stats)
}

func applyFlag(dst, src *simulation.Config, name string) {
	switch name {
	case "n", "num-particles":
		dst.NumParticles = src.NumParticles
	case "instances":
		dst.Instances = src.Instances
	case "steps":
		dst.Steps = src.Steps
	case "dt":
		dst.Dt = src.Dt
	case "save-dir":
		dst.SaveDir = src.SaveDir
	case "prefix":
		dst.Prefix = src.Prefix
	case "save-edges":
		dst.SaveEdges = src.SaveEdges
	case "seed":
		dst.Seed = src.Seed
	case "workers":
		dst.Workers = src.Workers
	case "mode":
		dst.UpdateMode = src.UpdateMode
	case "progress-every":
		dst.ProgressEvery = src.ProgressEvery
	}
}
