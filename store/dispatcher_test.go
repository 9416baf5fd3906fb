package store

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcherBoundsConcurrency(t *testing.T) {
	d := NewDispatcher(2, discardLogger())

	var running, peak atomic.Int32
	release := make(chan struct{})
	for i := 0; i < 6; i++ {
		ok := d.Go("blocking", func(ctx context.Context) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			<-release
			running.Add(-1)
		})
		require.True(t, ok)
	}

	// give the workers a moment to pile up on the semaphore
	time.Sleep(50 * time.Millisecond)
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Drain(ctx))
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestDispatcherGoDoesNotBlock(t *testing.T) {
	d := NewDispatcher(1, discardLogger())
	release := make(chan struct{})
	defer close(release)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Go("slow", func(ctx context.Context) { <-release })
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Go blocked the caller")
	}
}

func TestDispatcherDrainOnIdle(t *testing.T) {
	d := NewDispatcher(1, discardLogger())
	assert.NoError(t, d.Drain(context.Background()))
}

func TestDispatcherRecoversPanics(t *testing.T) {
	d := NewDispatcher(1, discardLogger())

	d.Go("boom", func(ctx context.Context) { panic("storage fault") })

	var ran atomic.Bool
	d.Go("after", func(ctx context.Context) { ran.Store(true) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Drain(ctx))
	assert.True(t, ran.Load())
}

func TestDispatcherStop(t *testing.T) {
	t.Run("Waits for accepted tasks", func(t *testing.T) {
		d := NewDispatcher(1, discardLogger())
		var finished atomic.Bool
		d.Go("work", func(ctx context.Context) {
			time.Sleep(20 * time.Millisecond)
			finished.Store(true)
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, d.Stop(ctx))
		assert.True(t, finished.Load())
		assert.False(t, d.Go("late", func(ctx context.Context) {}))
	})

	t.Run("Times out and drops queued tasks", func(t *testing.T) {
		d := NewDispatcher(1, discardLogger())
		release := make(chan struct{})
		var queuedRan atomic.Bool

		started := make(chan struct{})
		d.Go("holder", func(ctx context.Context) {
			close(started)
			<-release
		})
		<-started
		d.Go("queued", func(ctx context.Context) { queuedRan.Store(true) })

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, d.Stop(ctx), context.DeadlineExceeded)

		close(release)
		require.NoError(t, d.Drain(context.Background()))
		assert.False(t, queuedRan.Load())
	})

	t.Run("Runs the drop hook for cancelled tasks", func(t *testing.T) {
		d := NewDispatcher(1, discardLogger())
		release := make(chan struct{})
		dropped := make(chan struct{})

		started := make(chan struct{})
		d.Go("holder", func(ctx context.Context) {
			close(started)
			<-release
		})
		<-started
		accepted := d.GoOrDrop("queued", func(ctx context.Context) {
			t.Error("queued task should not run")
		}, func() { close(dropped) })
		require.True(t, accepted)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, d.Stop(ctx), context.DeadlineExceeded)

		select {
		case <-dropped:
		case <-time.After(5 * time.Second):
			t.Fatal("drop hook was not called")
		}

		close(release)
		require.NoError(t, d.Drain(context.Background()))
	})
}
