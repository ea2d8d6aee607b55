package relay

import (
	"context"
	"sync"
)

// Stream is a read-only view of a reactive value. Holders can read and
// subscribe but cannot set.
type Stream[T any] interface {
	// Get returns the current value.
	Get() T

	// Subscribe calls fn with the current value before returning, then
	// with every later value until the Subscription is cancelled.
	Subscribe(fn func(T)) *Subscription
}

type cellStream[T any] struct {
	c *Cell[T]
}

func (s cellStream[T]) Get() T {
	return s.c.Get()
}

func (s cellStream[T]) Subscribe(fn func(T)) *Subscription {
	return s.c.Subscribe(fn)
}

// Map derives a Stream whose values are fn applied to the values of src.
// fn runs once per delivery and once per Get; it should be cheap and pure.
//
// Example:
//
//	label := relay.Map(count.Stream(), func(n int) string {
//	    return fmt.Sprintf("%d items", n)
//	})
func Map[T, U any](src Stream[T], fn func(T) U) Stream[U] {
	return mappedStream[T, U]{src: src, fn: fn}
}

type mappedStream[T, U any] struct {
	src Stream[T]
	fn  func(T) U
}

func (s mappedStream[T, U]) Get() U {
	return s.fn(s.src.Get())
}

func (s mappedStream[T, U]) Subscribe(fn func(U)) *Subscription {
	if fn == nil {
		return s.src.Subscribe(nil)
	}
	return s.src.Subscribe(func(v T) {
		fn(s.fn(v))
	})
}

// Values delivers a stream's values on a channel. The first value is the
// current one. A slow receiver does not hold up the cell: values it has
// not taken yet are replaced by the latest one.
//
// The channel is closed, and the underlying subscription cancelled, when
// ctx is done.
func Values[T any](ctx context.Context, src Stream[T]) <-chan T {
	out := make(chan T)
	wake := make(chan struct{}, 1)

	var (
		mu     sync.Mutex
		latest T
		has    bool
	)

	sub := src.Subscribe(func(v T) {
		mu.Lock()
		latest, has = v, true
		mu.Unlock()

		select {
		case wake <- struct{}{}:
		default:
		}
	})

	go func() {
		defer close(out)
		defer sub.Cancel()

		for {
			select {
			case <-ctx.Done():
				return
			case <-wake:
			}

			mu.Lock()
			v, ok := latest, has
			var zero T
			latest, has = zero, false
			mu.Unlock()

			if !ok {
				continue
			}

			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
