package userboard

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/relayed/pkg/relay"
)

// CreateUserForm collects the name and type of a new user.
type CreateUserForm struct {
	nameInput *relay.Cell[string]
	typeInput *relay.Cell[*UserType]
	isValid   *relay.Cell[bool] `relayed:",readonly"`

	board    *Board
	owner    *relay.Owner
	detached atomic.Bool
}

func newCreateUserForm(b *Board) *CreateUserForm {
	return &CreateUserForm{
		nameInput: relay.New("", b.cellOptions("form.name_input")...),
		typeInput: relay.New[*UserType](nil, b.cellOptions("form.type_input")...),
		isValid:   relay.New(false, b.cellOptions("form.is_valid")...),
		board:     b,
		owner:     relay.NewOwner(b.owner),
	}
}

// Detached reports whether the form has left its board.
func (f *CreateUserForm) Detached() bool {
	return f.detached.Load()
}

// Bind re-validates the form whenever the name or type input changes. The
// subscriptions are released when owner is disposed, or when the form is
// detached, whichever comes first. A nil owner ties them to the form only.
func (f *CreateUserForm) Bind(owner *relay.Owner) {
	revalidate := func() { f.Validate(context.Background()) }

	name := f.nameInput.Subscribe(func(string) { revalidate() })
	typ := f.typeInput.Subscribe(func(*UserType) { revalidate() })

	f.owner.Add(name, typ)
	owner.Add(name, typ)
}

// Validate recomputes IsValid: a non-empty name and a selected type.
func (f *CreateUserForm) Validate(ctx context.Context) {
	_, act := f.board.recorder.Start(ctx, "userboard.form.validate")
	defer act.End(nil)

	nameInputIsNotEmpty := f.nameInput.Get() != ""
	typeInputIsNotNil := f.typeInput.Get() != nil
	isValid := nameInputIsNotEmpty && typeInputIsNotNil

	f.isValid.Set(isValid)

	act.SetAttributes(attribute.Bool("form.valid", isValid))
	f.board.recorder.Logger().Debug("form validated", "isValid", isValid)
}

// Submit adds the entered user to the board and closes the form.
func (f *CreateUserForm) Submit(ctx context.Context) (err error) {
	_, act := f.board.recorder.Start(ctx, "userboard.form.submit")
	defer func() { act.End(err) }()

	name, typ := f.nameInput.Get(), f.typeInput.Get()
	if !f.isValid.Get() || name == "" || typ == nil {
		return ErrFormInvalid
	}
	if f.detached.Load() || f.board.closed.Load() {
		return ErrFormDetached
	}

	user := NewUser(name, *typ)

	f.board.append(user)
	f.board.release(f)

	act.SetAttributes(attribute.String("user.id", user.ID.String()))
	return nil
}

// Cancel closes the form without adding a user. Cancelling a detached form
// is a no-op.
func (f *CreateUserForm) Cancel(ctx context.Context) {
	if f.detached.Load() {
		return
	}

	_, act := f.board.recorder.Start(ctx, "userboard.form.cancel")
	defer act.End(nil)

	f.board.release(f)
}

func (f *CreateUserForm) detach() {
	if f.detached.Swap(true) {
		return
	}
	f.owner.Dispose()
}
