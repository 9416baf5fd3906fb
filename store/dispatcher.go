package store

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the number of storage calls allowed to run at once.
const DefaultConcurrency = 4

// Dispatcher runs store tasks off the calling goroutine on a bounded pool.
// Tasks are never cancelled once accepted; Stop only gives up waiting on them.
type Dispatcher struct {
	sem    *semaphore.Weighted
	logger *slog.Logger

	// tasks run with ctx; it is only cancelled when Stop times out
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	inflight int
	idle     chan struct{} // closed while inflight == 0
	stopped  bool
}

// NewDispatcher creates a dispatcher that accepts tasks immediately
func NewDispatcher(concurrency int, logger *slog.Logger) *Dispatcher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}

	idle := make(chan struct{})
	close(idle)

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		sem:    semaphore.NewWeighted(int64(concurrency)),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		idle:   idle,
	}
}

// Go schedules task and returns without waiting for it.
// It returns false if the dispatcher has been stopped.
func (d *Dispatcher) Go(name string, task func(ctx context.Context)) bool {
	return d.GoOrDrop(name, task, nil)
}

// GoOrDrop is Go with a hook for tasks that are accepted but never run
// because a forced stop cancelled them while they waited for a slot.
func (d *Dispatcher) GoOrDrop(name string, task func(ctx context.Context), onDrop func()) bool {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		d.logger.Warn("task rejected, dispatcher stopped", "task", name)
		return false
	}
	if d.inflight == 0 {
		d.idle = make(chan struct{})
	}
	d.inflight++
	d.mu.Unlock()

	go d.run(name, task, onDrop)
	return true
}

func (d *Dispatcher) run(name string, task func(ctx context.Context), onDrop func()) {
	defer d.finish()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("task panicked", "task", name, "panic", r)
		}
	}()

	// Acquire only fails once ctx is cancelled by a forced stop
	if err := d.sem.Acquire(d.ctx, 1); err != nil {
		d.logger.Error("task dropped", "task", name, "error", err)
		if onDrop != nil {
			onDrop()
		}
		return
	}
	defer d.sem.Release(1)

	task(d.ctx)
}

func (d *Dispatcher) finish() {
	d.mu.Lock()
	d.inflight--
	if d.inflight == 0 {
		close(d.idle)
	}
	d.mu.Unlock()
}

// Drain blocks until every task accepted so far has finished or ctx is done.
// New tasks may still be accepted while draining.
func (d *Dispatcher) Drain(ctx context.Context) error {
	d.mu.Lock()
	idle := d.idle
	d.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop rejects new tasks and waits for the accepted ones.
// If ctx expires first, tasks still waiting for a slot are dropped.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return d.Drain(ctx)
	}
	d.stopped = true
	d.mu.Unlock()

	d.logger.Info("stopping dispatcher")

	if err := d.Drain(ctx); err != nil {
		d.logger.Warn("dispatcher stop timed out, dropping queued tasks", "error", err)
		d.cancel()
		return err
	}
	d.cancel()
	return nil
}
