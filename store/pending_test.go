package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDeliverer struct {
	posted chan func()
	accept bool
}

func (d *recordingDeliverer) Post(fn func()) bool {
	if !d.accept {
		return false
	}
	d.posted <- fn
	return true
}

func TestPendingWait(t *testing.T) {
	t.Run("Resolved value", func(t *testing.T) {
		val, err := Resolved(42, nil).Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, val)
	})

	t.Run("Resolved error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Resolved("", boom).Wait(context.Background())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Context expires first", func(t *testing.T) {
		p := newPending[int](nil)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := p.Wait(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		select {
		case <-p.Done():
			t.Fatal("pending resolved unexpectedly")
		default:
		}
	})
}

func TestPendingThen(t *testing.T) {
	t.Run("Goes through the deliverer", func(t *testing.T) {
		d := &recordingDeliverer{posted: make(chan func(), 1), accept: true}
		p := newPending[string](d)

		got := make(chan string, 1)
		p.Then(func(s string, err error) { got <- s })
		p.resolve("hello", nil)

		select {
		case fn := <-d.posted:
			assert.Empty(t, got, "callback ran before delivery")
			fn()
		case <-time.After(time.Second):
			t.Fatal("nothing was posted")
		}
		assert.Equal(t, "hello", <-got)
	})

	t.Run("Without deliverer runs directly", func(t *testing.T) {
		p := Resolved(7, nil)
		got := make(chan int, 1)
		p.Then(func(v int, err error) { got <- v })

		select {
		case v := <-got:
			assert.Equal(t, 7, v)
		case <-time.After(time.Second):
			t.Fatal("callback not called")
		}
	})
}
