package store

import (
	"context"
	"sync"
)

// Deliverer runs callbacks on a designated execution context.
// Post reports false when the callback will never run.
type Deliverer interface {
	Post(fn func()) bool
}

// Loop is a single goroutine execution context. Callbacks posted to it run
// one at a time in the order they were posted, on whatever goroutine calls Run.
type Loop struct {
	tasks chan func()
	quit  chan struct{}
	once  sync.Once
}

func NewLoop(buffer int) *Loop {
	if buffer < 0 {
		buffer = 0
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		quit:  make(chan struct{}),
	}
}

// Post queues fn. It blocks while the buffer is full and Run is busy.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.quit:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.quit:
		return false
	}
}

// Run executes posted callbacks until Stop is called or ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.quit:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop makes Run return. Callbacks still queued are discarded.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.quit) })
}
