package simulation

import (
	"fmt"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// instanceDone is what a worker reports back once an instance slot is filled.
type instanceDone struct {
	worker   string
	instance uint64
	err      error
}

// InstanceWorker is an actor that runs simulation instances on request.
// A request is a *wrapperspb.UInt64Value carrying the instance index; the
// result goes straight into slots[index], a slot no other worker touches.
type InstanceWorker struct {
	name  string
	cfg   *Config
	slots []Trajectory
	done  chan<- instanceDone
	runs  int
}

var _ actor.Actor = (*InstanceWorker)(nil)

func newInstanceWorker(cfg *Config, slots []Trajectory, done chan<- instanceDone) *InstanceWorker {
	return &InstanceWorker{
		cfg:   cfg,
		slots: slots,
		done:  done,
	}
}

func (w *InstanceWorker) PreStart(ctx *actor.Context) error {
	w.name = ctx.ActorName()
	return nil
}

func (w *InstanceWorker) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Debugf("%s started", ctx.Self().Name())

	case *wrapperspb.UInt64Value:
		w.done <- w.run(msg.GetValue())

	default:
		ctx.Unhandled()
	}
}

func (w *InstanceWorker) run(instance uint64) instanceDone {
	if instance >= uint64(len(w.slots)) {
		return instanceDone{
			worker:   w.name,
			instance: instance,
			err:      fmt.Errorf("%s: instance %d out of range [0, %d)", w.name, instance, len(w.slots)),
		}
	}
	w.slots[instance] = Simulate(w.cfg, InstanceRNG(w.cfg.Seed, int(instance)))
	w.runs++
	return instanceDone{worker: w.name, instance: instance}
}

func (w *InstanceWorker) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Debugf("%s stopped after %d instances", w.name, w.runs)
	return nil
}
