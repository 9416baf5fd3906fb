package store

import "context"

// Pending is the future result of a store read.
// It is resolved exactly once, by the worker that ran the query or
// with ErrClosed when the query never ran.
type Pending[T any] struct {
	done     chan struct{}
	val      T
	err      error
	delivery Deliverer
}

func newPending[T any](delivery Deliverer) *Pending[T] {
	return &Pending[T]{
		done:     make(chan struct{}),
		delivery: delivery,
	}
}

// Resolved returns a Pending that is already complete.
func Resolved[T any](val T, err error) *Pending[T] {
	p := newPending[T](nil)
	p.resolve(val, err)
	return p
}

func (p *Pending[T]) resolve(val T, err error) {
	p.val, p.err = val, err
	close(p.done)
}

// Done is closed once the result is available
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the result is available or ctx is done.
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.val, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then redelivers the result to fn on the store's main context.
// Without a main context fn runs on its own goroutine. If the main
// context has shut down, fn is never called.
func (p *Pending[T]) Then(fn func(T, error)) {
	go func() {
		<-p.done
		deliver := func() { fn(p.val, p.err) }
		if p.delivery == nil {
			deliver()
			return
		}
		p.delivery.Post(deliver)
	}()
}
