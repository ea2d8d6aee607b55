package userboard

// Error is a rejected board or form action. Status is the outcome label
// used for metrics.
type Error struct {
	msg    string
	status string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.msg
}

// Status returns the metrics outcome label for this error.
func (e *Error) Status() string {
	return e.status
}

// ErrFormOpen is returned by CreateForm when the board already has an open
// form. Only one form may be open at a time.
var ErrFormOpen = &Error{msg: "userboard: a create-user form is already open", status: "rejected"}

// ErrFormInvalid is returned by Submit when the form has not passed
// validation. Call Validate (or Bind) before submitting.
var ErrFormInvalid = &Error{msg: "userboard: form has not passed validation", status: "invalid"}

// ErrFormDetached is returned by Submit when the form no longer belongs to
// an open board, because it was already submitted or cancelled, or the
// board was closed.
var ErrFormDetached = &Error{msg: "userboard: form is detached from its board", status: "detached"}
