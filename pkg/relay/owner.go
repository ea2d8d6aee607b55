package relay

import (
	"sync"
	"sync/atomic"
)

// Owner releases a group of subscriptions together. A screen, form, or
// other short-lived consumer creates an Owner, hands it every Subscription
// it makes, and disposes it when it goes away.
//
// Owners form a hierarchy: disposing an Owner disposes its children first,
// in reverse creation order.
type Owner struct {
	id uint64

	parent *Owner

	children   []*Owner
	childrenMu sync.Mutex

	subs   []*Subscription
	subsMu sync.Mutex

	cleanups   []func()
	cleanupsMu sync.Mutex

	disposed atomic.Bool
}

// NewOwner creates an Owner. A non-nil parent disposes the new Owner when
// it is itself disposed. Creating a child of a disposed parent yields an
// Owner that is already disposed.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}
	if parent != nil {
		parent.addChild(o)
	}
	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil for a root.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed reports whether Dispose has been called.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	if o.disposed.Load() {
		o.childrenMu.Unlock()
		child.Dispose()
		return
	}
	o.children = append(o.children, child)
	o.childrenMu.Unlock()
}

func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// Add registers subscriptions for cancellation on Dispose. On a disposed
// Owner the subscriptions are cancelled immediately.
func (o *Owner) Add(subs ...*Subscription) {
	if o == nil {
		return
	}

	// disposed is checked under subsMu so a concurrent Dispose either
	// drains these subscriptions or is seen here.
	o.subsMu.Lock()
	if o.disposed.Load() {
		o.subsMu.Unlock()
		for _, s := range subs {
			s.Cancel()
		}
		return
	}
	for _, s := range subs {
		if s != nil {
			o.subs = append(o.subs, s)
		}
	}
	o.subsMu.Unlock()
}

// OnCleanup registers fn to run on Dispose, after subscriptions are
// cancelled. On a disposed Owner fn runs immediately. A nil Owner ignores
// fn.
func (o *Owner) OnCleanup(fn func()) {
	if o == nil || fn == nil {
		return
	}

	o.cleanupsMu.Lock()
	if o.disposed.Load() {
		o.cleanupsMu.Unlock()
		fn()
		return
	}
	o.cleanups = append(o.cleanups, fn)
	o.cleanupsMu.Unlock()
}

// Len returns the number of subscriptions the Owner still holds.
func (o *Owner) Len() int {
	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	return len(o.subs)
}

// Dispose disposes children, cancels every held subscription, then runs
// cleanups in reverse registration order. Safe to call more than once.
func (o *Owner) Dispose() {
	if o == nil || o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.children = nil
	o.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	o.subsMu.Lock()
	subs := o.subs
	o.subs = nil
	o.subsMu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
