package userboard

import (
	"encoding/json"
	"testing"
)

func TestUserTypeTitle(t *testing.T) {
	tests := []struct {
		typ  UserType
		want string
	}{
		{VIP, "VIP"},
		{Regular, "Regular"},
		{UserType(0), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.Title(); got != tt.want {
			t.Errorf("%d.Title() = %q, want %q", int(tt.typ), got, tt.want)
		}
	}
}

func TestUserTypeAt(t *testing.T) {
	tests := []struct {
		index  int
		want   UserType
		wantOK bool
	}{
		{-1, 0, false},
		{0, VIP, true},
		{1, Regular, true},
		{2, 0, false},
	}
	for _, tt := range tests {
		got, ok := UserTypeAt(tt.index)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("UserTypeAt(%d) = %v, %v; want %v, %v", tt.index, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAllUserTypesIsACopy(t *testing.T) {
	types := AllUserTypes()
	types[0] = Regular
	if AllUserTypes()[0] != VIP {
		t.Error("AllUserTypes should not expose internal state")
	}
}

func TestUserJSON(t *testing.T) {
	u := NewUser("Eve", VIP)
	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var back User
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if back != u {
		t.Errorf("round trip = %+v, want %+v", back, u)
	}

	var bad UserType
	if err := bad.UnmarshalText([]byte("gold")); err == nil {
		t.Error("expected error for unknown type")
	}
	if _, err := UserType(9).MarshalText(); err == nil {
		t.Error("expected error for invalid type")
	}
}

func TestNewUserIDsAreUnique(t *testing.T) {
	a := NewUser("a", VIP)
	b := NewUser("a", VIP)
	if a.ID == b.ID {
		t.Error("IDs should differ")
	}
}
