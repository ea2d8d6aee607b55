// Package relay provides Cell, a value holder that doubles as a hot,
// replay-one stream.
//
// Reading and writing a Cell works like an ordinary field; subscribing
// delivers the current value immediately and every later value until the
// subscriber cancels:
//
//	count := relay.New(0)
//	sub := count.Subscribe(func(n int) {
//	    fmt.Println("count:", n) // prints 0 now, then 5
//	})
//	count.Set(5)
//	sub.Cancel()
//
// # Notification order
//
// Each accepted value is announced in two phases: first to the Observers
// attached with WithObserver, then to the subscribers in the order they
// subscribed. Every Set fires, even when the value is unchanged.
//
// # Streams
//
// Stream is the read-only side of a Cell, suitable for handing to a view
// layer. Map derives streams; Values bridges a stream onto a channel.
//
// # Lifetimes
//
// Cancelling is the only cleanup a subscriber needs. Owner groups
// subscriptions so a screen can release all of them at once:
//
//	owner := relay.NewOwner(nil)
//	defer owner.Dispose()
//	form.TrackedIsValid().Subscribe(button.SetEnabled).DisposedBy(owner)
//
// # Thread Safety
//
// A Cell may be used from multiple goroutines. Accept-and-notify sequences
// are serialized per cell and callbacks run on the goroutine that called
// Set. A callback may call back into its own cell. Cancel from another
// goroutine waits for the fan-out in progress, so two cells whose
// callbacks cancel each other's subscriptions from different goroutines
// can deadlock.
package relay
