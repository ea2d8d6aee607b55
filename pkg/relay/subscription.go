package relay

import (
	"sync"
	"sync/atomic"
)

// Subscription is one subscriber's registration with a cell. It is owned by
// whoever called Subscribe and is released with Cancel.
type Subscription struct {
	id     uint64
	active atomic.Bool
	once   sync.Once

	// detach removes the registration from its cell. nil for subscriptions
	// that were never registered.
	detach func()
}

func newSubscription() *Subscription {
	return &Subscription{id: nextID()}
}

// ID returns the unique identifier for this subscription.
func (s *Subscription) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Active reports whether the subscription is still registered.
func (s *Subscription) Active() bool {
	return s != nil && s.active.Load()
}

// Cancel removes the callback from its cell. Once Cancel returns, the
// callback is not invoked again. Cancelling twice, or cancelling a nil
// Subscription, is a no-op.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.detach != nil {
			s.detach()
		}
		s.active.Store(false)
	})
}

// DisposedBy hands the subscription to owner, which cancels it on Dispose.
// Returns s for chaining after Subscribe.
func (s *Subscription) DisposedBy(owner *Owner) *Subscription {
	owner.Add(s)
	return s
}
