package relay

import (
	"fmt"
	"sync"
)

// subscriber is a registered callback plus the sequence number of the value
// it was replayed on subscription. Values at or below that sequence are
// never delivered to it again.
type subscriber[T any] struct {
	sub  *Subscription
	fn   func(T)
	from uint64
}

// entry is an accepted value waiting to be fanned out.
type entry[T any] struct {
	seq   uint64
	value T
}

// Cell is a reactive value holder with replay-one subscriptions.
//
// A Cell always has a current value. Set replaces it and synchronously
// notifies observers, then every subscriber in registration order. A new
// subscriber receives the current value before Subscribe returns and every
// later value until it cancels. Equal values are delivered like any other;
// there is no deduplication.
//
// A Cell is safe for concurrent use. Accept-and-notify sequences are
// serialized per cell, so all subscribers see values in accept order.
type Cell[T any] struct {
	id        uint64
	name      string
	observers Observers

	// value is the current value, readable without taking the turn.
	value T
	mu    sync.RWMutex

	subs   []subscriber[T]
	closed bool
	subMu  sync.Mutex

	// turn serializes Set, Update, Subscribe and Close.
	turn turn

	// seq and pending are only touched while holding turn.
	seq     uint64
	pending []entry[T]
}

// New creates a Cell holding initial.
func New[T any](initial T, opts ...Option) *Cell[T] {
	options := applyOptions(opts)
	c := &Cell[T]{
		id:        nextID(),
		name:      options.name,
		observers: options.observers,
		value:     initial,
	}
	if c.name == "" {
		c.name = fmt.Sprintf("cell-%d", c.id)
	}
	return c
}

// ID returns the unique identifier for this cell.
func (c *Cell[T]) ID() uint64 {
	return c.id
}

// Name returns the name reported to observers.
func (c *Cell[T]) Name() string {
	return c.name
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the current value and notifies observers, then subscribers.
//
// Called from inside one of this cell's callbacks, Set takes effect
// immediately but its notification is queued behind the fan-out in
// progress.
func (c *Cell[T]) Set(value T) {
	c.run(func() {
		c.accept(value)
	})
}

// Update replaces the current value with fn(current). No other Set or
// Update on this cell can interleave between the read and the write.
func (c *Cell[T]) Update(fn func(T) T) {
	c.run(func() {
		c.accept(fn(c.Get()))
	})
}

// Subscribe registers fn. fn is called with the current value before
// Subscribe returns, then with every value accepted afterwards.
//
// On a closed cell fn still receives the current value once, and the
// returned Subscription is already inactive. A nil fn yields an inactive
// Subscription.
func (c *Cell[T]) Subscribe(fn func(T)) *Subscription {
	sub := newSubscription()
	if fn == nil {
		return sub
	}

	c.run(func() {
		from := c.seq
		fn(c.Get())

		c.subMu.Lock()
		defer c.subMu.Unlock()
		if c.closed {
			return
		}
		sub.detach = func() { c.detach(sub) }
		sub.active.Store(true)
		c.subs = append(c.subs, subscriber[T]{sub: sub, fn: fn, from: from})
	})
	return sub
}

// Stream returns a read-only view of the cell.
func (c *Cell[T]) Stream() Stream[T] {
	return cellStream[T]{c: c}
}

// Len returns the number of registered subscribers.
func (c *Cell[T]) Len() int {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	return len(c.subs)
}

// Close cancels every subscriber. Afterwards Set still updates the value
// but notifies no one. Close is idempotent.
func (c *Cell[T]) Close() {
	c.run(func() {
		c.subMu.Lock()
		subs := c.subs
		c.subs = nil
		c.closed = true
		c.subMu.Unlock()

		for _, s := range subs {
			s.sub.active.Store(false)
		}
	})
}

// run executes fn holding the cell's turn. The outermost call on a
// goroutine flushes queued notifications before releasing the turn; nested
// calls from callbacks only queue.
func (c *Cell[T]) run(fn func()) {
	if c.turn.held() {
		fn()
		return
	}

	c.turn.lock()
	defer func() {
		c.pending = nil
		c.turn.unlock()
	}()

	fn()
	c.flush()
}

// accept stores value and queues its notification. Caller holds the turn.
func (c *Cell[T]) accept(value T) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()

	c.seq++
	c.pending = append(c.pending, entry[T]{seq: c.seq, value: value})
}

// flush drains pending notifications in accept order. Caller holds the turn.
func (c *Cell[T]) flush() {
	for len(c.pending) > 0 {
		e := c.pending[0]
		c.pending[0] = entry[T]{}
		c.pending = c.pending[1:]
		c.notify(e)
	}
}

// notify runs the two notification phases for one accepted value.
// Uses copy-before-notify so callbacks may subscribe or cancel.
func (c *Cell[T]) notify(e entry[T]) {
	c.subMu.Lock()
	if c.closed {
		c.subMu.Unlock()
		return
	}
	subs := make([]subscriber[T], len(c.subs))
	copy(subs, c.subs)
	c.subMu.Unlock()

	c.observers.CellChanged(c.name, e.value)

	for _, s := range subs {
		if e.seq <= s.from || !s.sub.active.Load() {
			continue
		}
		s.fn(e.value)
	}
}

// detach unregisters sub. From any goroutine other than the one running a
// fan-out it waits for the fan-out to finish, so no callback fires after
// Cancel returns.
func (c *Cell[T]) detach(sub *Subscription) {
	if !c.turn.held() {
		c.turn.lock()
		defer c.turn.unlock()
	}

	sub.active.Store(false)

	c.subMu.Lock()
	defer c.subMu.Unlock()
	for i, s := range c.subs {
		if s.sub == sub {
			// Preserve registration order for the remaining subscribers.
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}
