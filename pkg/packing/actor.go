// Package packing routes pack batches through a single actor so that
// concurrent admin requests are processed one batch at a time. The
// per-order idempotence still comes from the storage guard; the actor
// only removes needless lock contention between batches.
package packing

import (
	"context"
	"fmt"
	"time"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/lifecycle"
	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// Messages
type PackBatch struct {
	OrderIDs []string
}

type BatchResult struct {
	Results []lifecycle.PackResult
}

// PackingActor owns the packing pipeline.
type PackingActor struct {
	service *lifecycle.Service
	logger  *zap.Logger
}

func (a *PackingActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *PackBatch:
		a.logger.Info("Packing batch",
			zap.Int("order_count", len(msg.OrderIDs)))

		results := a.service.PackOrders(context.Background(), msg.OrderIDs)

		failed := 0
		for _, r := range results {
			if !r.Success {
				failed++
			}
		}
		a.logger.Info("Packing batch done",
			zap.Int("ok", len(results)-failed),
			zap.Int("failed", failed))

		ctx.Respond(&BatchResult{Results: results})

	case *actor.Started:
		a.logger.Info("Packing actor started")

	case *actor.Stopping:
		a.logger.Info("Packing actor stopping")

	case *actor.Stopped:
		a.logger.Info("Packing actor stopped")
	}
}

// Dispatcher is the gateway-facing handle to the packing actor.
type Dispatcher struct {
	system  *actor.ActorSystem
	pid     *actor.PID
	timeout time.Duration
}

func NewDispatcher(service *lifecycle.Service, logger *zap.Logger) (*Dispatcher, error) {
	system := actor.NewActorSystem()

	props := actor.PropsFromProducer(func() actor.Actor {
		return &PackingActor{service: service, logger: logger.Named("packing-actor")}
	})
	pid, err := system.Root.SpawnNamed(props, "packing-actor")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn packing actor: %w", err)
	}

	return &Dispatcher{
		system:  system,
		pid:     pid,
		timeout: 60 * time.Second,
	}, nil
}

// Pack submits a batch and waits for the per-order results. An aborted
// request stops waiting; the batch itself still runs to completion in
// the actor.
func (d *Dispatcher) Pack(ctx context.Context, orderIDs []string) ([]lifecycle.PackResult, error) {
	future := d.system.Root.RequestFuture(d.pid, &PackBatch{OrderIDs: orderIDs}, d.timeout)

	type outcome struct {
		result interface{}
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := future.Result()
		done <- outcome{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("packing request failed: %w", out.err)
		}
		batch, ok := out.result.(*BatchResult)
		if !ok {
			return nil, fmt.Errorf("unexpected packing response %T", out.result)
		}
		return batch.Results, nil
	}
}

func (d *Dispatcher) Shutdown() {
	d.system.Root.Stop(d.pid)
	d.system.Shutdown()
}
