// Package relaygen generates accessor methods for relay cells held in
// struct fields.
//
// A struct that keeps its reactive state in unexported cell fields
//
//	type Board struct {
//	    users *relay.Cell[[]User]
//	}
//
// gets, per field, a getter, a setter and a read-only stream accessor:
//
//	func (b *Board) Users() []User
//	func (b *Board) SetUsers(v []User)
//	func (b *Board) TrackedUsers() relay.Stream[[]User]
//
// # Field Tags
//
// The relayed struct tag adjusts what is generated:
//
//	users *relay.Cell[[]User] `relayed:"Members"`    // Members, SetMembers, TrackedMembers
//	form  *relay.Cell[*Form]  `relayed:",readonly"`  // no setter
//	cache *relay.Cell[int]    `relayed:"-"`          // skipped
//
// Methods the type already declares by hand are never generated, so a
// hand-written accessor replaces the generated one.
//
// # Usage
//
//	//go:generate go run github.com/vango-dev/relayed/cmd/relayed gen .
//
// or programmatically:
//
//	res, err := relaygen.Run(dir, relaygen.DefaultOptions())
package relaygen
