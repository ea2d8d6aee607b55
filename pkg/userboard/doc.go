// Package userboard is a small CRUD-style example built on relay cells: a
// board listing users, and a form for adding one.
//
// Every piece of state is a relay.Cell, so a view layer reads it like a
// field and subscribes to the Tracked<Name> streams to stay in sync:
//
//	board := userboard.NewBoard()
//	owner := relay.NewOwner(nil)
//	board.TrackedUsers().Subscribe(renderList).DisposedBy(owner)
//
//	form, _ := board.CreateForm(ctx)
//	form.Bind(owner) // re-validate on every input change
//	form.TrackedIsValid().Subscribe(submitButton.SetEnabled).DisposedBy(owner)
//
//	form.SetNameInput("Eve")
//	form.SetTypeInput(userboard.VIP.Ptr())
//	err := form.Submit(ctx)
//
// The accessor methods live in relayed_gen.go and are regenerated with
// go generate.
package userboard

//go:generate go run github.com/vango-dev/relayed/cmd/relayed gen .
