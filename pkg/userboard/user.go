package userboard

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UserType is the membership tier of a user.
type UserType int

const (
	VIP UserType = iota + 1
	Regular
)

var allUserTypes = []UserType{VIP, Regular}

// AllUserTypes returns every UserType in display order.
func AllUserTypes() []UserType {
	out := make([]UserType, len(allUserTypes))
	copy(out, allUserTypes)
	return out
}

// UserTypeAt maps a segmented-control index to a UserType. Index -1 (no
// selection) and out-of-range indexes report false.
func UserTypeAt(index int) (UserType, bool) {
	if index < 0 || index >= len(allUserTypes) {
		return 0, false
	}
	return allUserTypes[index], true
}

// Title returns the display title.
func (t UserType) Title() string {
	switch t {
	case VIP:
		return "VIP"
	case Regular:
		return "Regular"
	default:
		return "Unknown"
	}
}

// String returns the display title.
func (t UserType) String() string {
	return t.Title()
}

// Ptr returns a pointer to a copy of t, for setting optional inputs.
func (t UserType) Ptr() *UserType {
	return &t
}

// MarshalText encodes the type as its title.
func (t UserType) MarshalText() ([]byte, error) {
	if t != VIP && t != Regular {
		return nil, fmt.Errorf("userboard: invalid user type %d", int(t))
	}
	return []byte(t.Title()), nil
}

// UnmarshalText decodes a title, case-insensitively.
func (t *UserType) UnmarshalText(text []byte) error {
	for _, ut := range allUserTypes {
		if strings.EqualFold(ut.Title(), string(text)) {
			*t = ut
			return nil
		}
	}
	return fmt.Errorf("userboard: unknown user type %q", text)
}

// User is one member of the board.
type User struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type UserType  `json:"type"`
}

// NewUser creates a User with a fresh random ID.
func NewUser(name string, t UserType) User {
	return User{
		ID:   uuid.New(),
		Name: name,
		Type: t,
	}
}

// DefaultUsers returns the board's seed members.
func DefaultUsers() []User {
	return []User{
		NewUser("Alice", VIP),
		NewUser("Bob", Regular),
		NewUser("Charlie", VIP),
		NewUser("David", Regular),
	}
}
