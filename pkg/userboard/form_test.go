package userboard

import (
	"context"
	"errors"
	"testing"

	"github.com/vango-dev/relayed/pkg/relay"
)

func TestFormValidate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		userType *UserType
		want     bool
	}{
		{"empty", "", nil, false},
		{"name only", "Eve", nil, false},
		{"type only", "", VIP.Ptr(), false},
		{"name and type", "Eve", Regular.Ptr(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			b := NewBoard()
			form, err := b.CreateForm(ctx)
			if err != nil {
				t.Fatal(err)
			}

			form.SetNameInput(tt.input)
			form.SetTypeInput(tt.userType)
			form.Validate(ctx)

			if form.IsValid() != tt.want {
				t.Errorf("IsValid() = %v, want %v", form.IsValid(), tt.want)
			}
		})
	}
}

func TestFormSubmit(t *testing.T) {
	ctx := context.Background()
	b := NewBoard()
	form, _ := b.CreateForm(ctx)

	form.SetNameInput("Eve")
	form.SetTypeInput(VIP.Ptr())
	form.Validate(ctx)

	if err := form.Submit(ctx); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	users := b.Users()
	last := users[len(users)-1]
	if last.Name != "Eve" || last.Type != VIP {
		t.Errorf("last user = %+v, want Eve/VIP", last)
	}
	if b.Form() != nil {
		t.Error("Submit should close the form")
	}
	if !form.Detached() {
		t.Error("submitted form should be detached")
	}

	// A second submit must not add the user twice.
	if err := form.Submit(ctx); !errors.Is(err, ErrFormDetached) {
		t.Errorf("second Submit() = %v, want ErrFormDetached", err)
	}
	if len(b.Users()) != len(users) {
		t.Error("second submit should not add a user")
	}
}

func TestFormSubmitInvalid(t *testing.T) {
	ctx := context.Background()
	b := NewBoard()
	form, _ := b.CreateForm(ctx)
	before := len(b.Users())

	form.SetNameInput("Eve")
	// Not validated yet.
	if err := form.Submit(ctx); !errors.Is(err, ErrFormInvalid) {
		t.Errorf("Submit() = %v, want ErrFormInvalid", err)
	}

	// Validated, then the type was cleared without re-validating.
	form.SetTypeInput(Regular.Ptr())
	form.Validate(ctx)
	form.SetTypeInput(nil)
	if err := form.Submit(ctx); !errors.Is(err, ErrFormInvalid) {
		t.Errorf("Submit() with stale validation = %v, want ErrFormInvalid", err)
	}

	if len(b.Users()) != before {
		t.Error("rejected submit should not mutate the board")
	}
	if b.Form() != form {
		t.Error("rejected submit should keep the form open")
	}
}

func TestFormCancel(t *testing.T) {
	ctx := context.Background()
	b := NewBoard()
	form, _ := b.CreateForm(ctx)
	before := len(b.Users())

	form.Cancel(ctx)
	form.Cancel(ctx)

	if b.Form() != nil {
		t.Error("Cancel should close the form")
	}
	if len(b.Users()) != before {
		t.Error("Cancel should not add a user")
	}

	// The board accepts a new form afterwards.
	if _, err := b.CreateForm(ctx); err != nil {
		t.Errorf("CreateForm() after Cancel error: %v", err)
	}
}

func TestFormCancelStaleFormKeepsNewOne(t *testing.T) {
	ctx := context.Background()
	b := NewBoard()

	old, _ := b.CreateForm(ctx)
	old.Cancel(ctx)
	current, _ := b.CreateForm(ctx)

	old.Cancel(ctx)
	if b.Form() != current {
		t.Error("cancelling a stale form must not close the current one")
	}
}

func TestFormBind(t *testing.T) {
	ctx := context.Background()
	b := NewBoard()
	form, _ := b.CreateForm(ctx)

	owner := relay.NewOwner(nil)
	form.Bind(owner)

	var enabled []bool
	form.TrackedIsValid().Subscribe(func(v bool) {
		enabled = append(enabled, v)
	}).DisposedBy(owner)

	form.SetNameInput("Eve")
	if form.IsValid() {
		t.Error("name alone should not be valid")
	}
	form.SetTypeInput(VIP.Ptr())
	if !form.IsValid() {
		t.Error("name and type should be valid after binding")
	}
	if enabled[len(enabled)-1] != true {
		t.Errorf("submit button never enabled: %v", enabled)
	}

	owner.Dispose()
	form.SetNameInput("")
	if !form.IsValid() {
		t.Error("disposed bindings should no longer re-validate")
	}

	if err := form.Submit(ctx); !errors.Is(err, ErrFormInvalid) {
		t.Errorf("Submit() with empty name = %v, want ErrFormInvalid", err)
	}
}

func TestFormDetachReleasesBindings(t *testing.T) {
	ctx := context.Background()
	b := NewBoard()
	form, _ := b.CreateForm(ctx)
	form.Bind(nil)

	if form.nameInput.Len() != 1 || form.typeInput.Len() != 1 {
		t.Fatal("Bind should subscribe to both inputs")
	}

	form.Cancel(ctx)

	if form.nameInput.Len() != 0 || form.typeInput.Len() != 0 {
		t.Error("detaching should release the form's own bindings")
	}
}
