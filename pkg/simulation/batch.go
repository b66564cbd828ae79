package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/topology"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// RunBatch runs cfg.Instances independent simulations and collects them in a Dataset.
// With cfg.Workers > 1 the instances are spread over a pool of InstanceWorker
// actors; the dataset is identical either way.
func RunBatch(ctx context.Context, cfg *Config, logger log.Logger) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.DiscardLogger
	}

	ds := &Dataset{
		RunID:     uuid.New(),
		Config:    *cfg,
		Instances: make([]Trajectory, cfg.Instances),
	}
	logger.Infof("run %s: %d instances, %d chasers, %d steps, dt=%g, mode=%s, workers=%d",
		ds.RunID, cfg.Instances, cfg.NumParticles, cfg.Steps, cfg.Dt, cfg.UpdateMode, max(cfg.Workers, 1))

	start := time.Now()
	prog := newProgress(cfg.Instances, cfg.ProgressEvery, logger)

	var err error
	if cfg.Workers <= 1 {
		err = runSequential(ctx, cfg, ds, prog)
	} else {
		err = runPool(ctx, cfg, ds, prog, logger)
	}
	if err != nil {
		return nil, err
	}
	ds.Elapsed = time.Since(start)
	logger.Infof("Simulations %d/%d completed in %s.", cfg.Instances, cfg.Instances, ds.Elapsed.Round(time.Millisecond))

	if cfg.SaveEdges {
		edges := topology.ChaserEdges(cfg.NumParticles)
		ds.Edges = &edges
	}
	ds.Stats = Summarize(ds)
	logger.Debugf("run %s stats: %s", ds.RunID, ds.Stats)

	return ds, nil
}

func runSequential(ctx context.Context, cfg *Config, ds *Dataset, prog *progress) error {
	for i := range ds.Instances {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("batch interrupted at instance %d: %w", i, err)
		}
		prog.report(i)
		ds.Instances[i] = Simulate(cfg, InstanceRNG(cfg.Seed, i))
	}
	return nil
}

// runPool starts a private actor system, spawns cfg.Workers workers, deals the
// instance indexes round-robin and waits for every completion.
func runPool(ctx context.Context, cfg *Config, ds *Dataset, prog *progress, logger log.Logger) error {
	system, err := actor.NewActorSystem("ChaserBatch", actor.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return fmt.Errorf("failed to start actor system: %w", err)
	}
	defer func() {
		if err := system.Stop(context.Background()); err != nil {
			logger.Warnf("actor system stop: %v", err)
		}
	}()

	// Sized so that no worker ever blocks on a report, even after we stop listening.
	done := make(chan instanceDone, cfg.Instances)

	pids := make([]*actor.PID, cfg.Workers)
	for i := range pids {
		name := fmt.Sprintf("worker-%03d", i)
		pid, err := system.Spawn(ctx, name, newInstanceWorker(cfg, ds.Instances, done))
		if err != nil {
			return fmt.Errorf("failed to spawn %s: %w", name, err)
		}
		pids[i] = pid
	}

	prog.report(0)
	for i := 0; i < cfg.Instances; i++ {
		if err := actor.Tell(ctx, pids[i%len(pids)], wrapperspb.UInt64(uint64(i))); err != nil {
			return fmt.Errorf("failed to dispatch instance %d: %w", i, err)
		}
	}

	for completed := 0; completed < cfg.Instances; {
		select {
		case <-ctx.Done():
			return fmt.Errorf("batch interrupted after %d/%d instances: %w", completed, cfg.Instances, ctx.Err())
		case d := <-done:
			if d.err != nil {
				return fmt.Errorf("instance %d failed: %w", d.instance, d.err)
			}
			completed++
			if completed < cfg.Instances {
				prog.report(completed)
			}
		}
	}
	return nil
}

// progress logs elapsed time every `every` instances.
type progress struct {
	total  int
	every  int
	last   time.Time
	logger log.Logger
}

func newProgress(total, every int, logger log.Logger) *progress {
	return &progress{total: total, every: every, last: time.Now(), logger: logger}
}

func (p *progress) report(i int) {
	if p.every <= 0 || i%p.every != 0 {
		return
	}
	p.logger.Infof("Simulation %d/%d... %.1fs", i, p.total, time.Since(p.last).Seconds())
	p.last = time.Now()
}
