package sweep

import (
	"context"
	"errors"
	"net/netip"
	"sync"

	"golang.org/x/sync/semaphore"

	"lan-monitor/internal/models"
)

// ErrPoolStopped is returned when submitting to a pool that has been stopped
var ErrPoolStopped = errors.New("worker pool stopped")

// WorkerPool bounds how many probes run at once. One pool is shared by every sweep.
type WorkerPool struct {
	prober models.Prober
	size   int
	sem    *semaphore.Weighted

	stopCtx  context.Context
	stop     context.CancelFunc
	stopOnce sync.Once
}

// NewWorkerPool creates a pool allowing size concurrent probes
func NewWorkerPool(prober models.Prober, size int) *WorkerPool {
	if size < 1 {
		size = 1
	}

	stopCtx, stop := context.WithCancel(context.Background())
	return &WorkerPool{
		prober:  prober,
		size:    size,
		sem:     semaphore.NewWeighted(int64(size)),
		stopCtx: stopCtx,
		stop:    stop,
	}
}

// Submit probes addr as soon as a slot is free, blocking while all of them are
// busy. The result is delivered on results, which must have room for it.
func (p *WorkerPool) Submit(ctx context.Context, addr netip.Addr, results chan<- models.ProbeResult) error {
	acquireCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	unhook := context.AfterFunc(p.stopCtx, cancel)
	defer unhook()

	if err := p.sem.Acquire(acquireCtx, 1); err != nil {
		if p.stopCtx.Err() != nil {
			return ErrPoolStopped
		}
		return err
	}
	if p.stopCtx.Err() != nil {
		p.sem.Release(1)
		return ErrPoolStopped
	}

	go func() {
		defer p.sem.Release(1)
		results <- p.run(ctx, addr)
	}()
	return nil
}

func (p *WorkerPool) run(ctx context.Context, addr netip.Addr) models.ProbeResult {
	if ctx.Err() != nil {
		return models.ProbeResult{Addr: addr}
	}
	return p.prober.Probe(ctx, addr)
}

// Size returns the number of concurrent probes allowed
func (p *WorkerPool) Size() int {
	return p.size
}

// Stop refuses new probes and waits for the running ones to finish
func (p *WorkerPool) Stop() {
	p.stopOnce.Do(func() {
		p.stop()
		// holding every slot means nothing is in flight; they are never given back
		_ = p.sem.Acquire(context.Background(), int64(p.size))
	})
}
