package relay

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// turn serializes the accept-and-notify sequences of one cell. Unlike a
// plain mutex it knows which goroutine holds it, so a subscriber callback
// running inside a fan-out can call back into the same cell without
// deadlocking.
type turn struct {
	mu sync.Mutex

	// holder is the goroutine ID that currently holds mu, or 0.
	holder atomic.Uint64
}

// held reports whether the calling goroutine holds the turn.
func (t *turn) held() bool {
	return t.holder.Load() == goroutineID()
}

func (t *turn) lock() {
	t.mu.Lock()
	t.holder.Store(goroutineID())
}

func (t *turn) unlock() {
	t.holder.Store(0)
	t.mu.Unlock()
}

// goroutineID returns the ID of the calling goroutine, parsed from the
// header of its stack trace ("goroutine <id> [...").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
