package userboard

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/relayed/pkg/instrument"
	"github.com/vango-dev/relayed/pkg/relay"
)

// Board holds the user list and at most one open CreateUserForm.
type Board struct {
	users *relay.Cell[[]User]         `relayed:",readonly"`
	form  *relay.Cell[*CreateUserForm] `relayed:",readonly"`

	recorder  *instrument.Recorder
	observers []relay.Observer
	intn      func(n int) int

	// owner scopes subscriptions made on behalf of the board's forms.
	owner  *relay.Owner
	closed atomic.Bool
}

// Option configures a Board.
type Option func(*boardOptions)

type boardOptions struct {
	recorder  *instrument.Recorder
	observers []relay.Observer
	users     []User
	seeded    bool
	intn      func(n int) int
}

// WithRecorder traces and measures board and form actions.
func WithRecorder(r *instrument.Recorder) Option {
	return func(o *boardOptions) {
		o.recorder = r
	}
}

// WithObserver attaches obs to every cell of the board and of the forms it
// creates.
func WithObserver(obs relay.Observer) Option {
	return func(o *boardOptions) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithUsers replaces the default seed members.
func WithUsers(users []User) Option {
	return func(o *boardOptions) {
		o.users = slices.Clone(users)
		o.seeded = true
	}
}

// WithRand sets the source used to pick a random user type. intn must
// return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(o *boardOptions) {
		o.intn = intn
	}
}

// NewBoard creates a board seeded with DefaultUsers.
func NewBoard(opts ...Option) *Board {
	var options boardOptions
	for _, opt := range opts {
		opt(&options)
	}
	if !options.seeded {
		options.users = DefaultUsers()
	}
	if options.intn == nil {
		options.intn = rand.IntN
	}

	b := &Board{
		recorder:  options.recorder,
		observers: options.observers,
		intn:      options.intn,
		owner:     relay.NewOwner(nil),
	}
	b.users = relay.New(options.users, b.cellOptions("board.users")...)
	b.form = relay.New[*CreateUserForm](nil, b.cellOptions("board.form")...)
	return b
}

func (b *Board) cellOptions(name string) []relay.Option {
	opts := []relay.Option{relay.WithName(name)}
	for _, obs := range b.observers {
		opts = append(opts, relay.WithObserver(obs))
	}
	return opts
}

// AddRandomUser appends a user named "User #<count>" with a random type.
func (b *Board) AddRandomUser(ctx context.Context) User {
	_, act := b.recorder.Start(ctx, "userboard.add_random_user")
	defer act.End(nil)

	typ := allUserTypes[b.intn(len(allUserTypes))]

	var user User
	b.users.Update(func(users []User) []User {
		user = NewUser(fmt.Sprintf("User #%d", len(users)), typ)
		return append(slices.Clip(users), user)
	})

	act.SetAttributes(
		attribute.String("user.id", user.ID.String()),
		attribute.String("user.type", typ.Title()),
	)
	return user
}

// CreateForm opens a new form. It fails with ErrFormOpen while another
// form is open, and with ErrFormDetached once the board is closed.
// Concurrent callers get at most one form.
func (b *Board) CreateForm(ctx context.Context) (form *CreateUserForm, err error) {
	_, act := b.recorder.Start(ctx, "userboard.create_form")
	defer func() { act.End(err) }()

	if b.closed.Load() {
		return nil, ErrFormDetached
	}

	// The check and the store happen in one Update so two callers cannot
	// both open a form. A rejected call re-accepts the open form.
	b.form.Update(func(open *CreateUserForm) *CreateUserForm {
		if open != nil {
			return open
		}
		form = newCreateUserForm(b)
		return form
	})
	if form == nil {
		return nil, ErrFormOpen
	}
	return form, nil
}

// Close detaches the open form, if any, and releases subscriptions made on
// the board's behalf. Forms of a closed board cannot be submitted.
func (b *Board) Close() {
	if b.closed.Swap(true) {
		return
	}
	if f := b.form.Get(); f != nil {
		f.detach()
	}
	b.owner.Dispose()
}

// append adds user to the list. The slice is clipped first so subscribers
// holding the previous value never see it change underneath them.
func (b *Board) append(user User) {
	b.users.Update(func(users []User) []User {
		return append(slices.Clip(users), user)
	})
}

// release clears f from the board if it is the open form, then detaches it.
func (b *Board) release(f *CreateUserForm) {
	if b.form.Get() == f {
		b.form.Set(nil)
	}
	f.detach()
}
