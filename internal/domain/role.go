package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RoleLevel is the ordered rank of an account in the organization, L0 lowest.
type RoleLevel int

const (
	RoleL0 RoleLevel = iota // field operative
	RoleL1                  // area head
	RoleL2                  // regional head
	RoleL3                  // state head
	RoleL4                  // business owner
)

// ErrInvalidRole is returned when a role label cannot be parsed.
var ErrInvalidRole = errors.New("invalid role level")

// ParseRoleLevel parses the canonical "L0".."L4" label.
func ParseRoleLevel(raw string) (RoleLevel, error) {
	label := strings.TrimSpace(raw)
	if len(label) != 2 || (label[0] != 'L' && label[0] != 'l') {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
	n, err := strconv.Atoi(label[1:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
	role := RoleLevel(n)
	if !role.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
	return role, nil
}

// Valid reports whether r is one of the five defined levels.
func (r RoleLevel) Valid() bool {
	return r >= RoleL0 && r <= RoleL4
}

// AtLeast reports whether r ranks at or above other.
func (r RoleLevel) AtLeast(other RoleLevel) bool {
	return r >= other
}

// Below returns the level directly managed by r.
func (r RoleLevel) Below() (RoleLevel, bool) {
	if r <= RoleL0 || !r.Valid() {
		return 0, false
	}
	return r - 1, true
}

func (r RoleLevel) String() string {
	if !r.Valid() {
		return "L?"
	}
	return "L" + strconv.Itoa(int(r))
}

// MarshalText encodes the role as its label.
func (r RoleLevel) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRole, int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a role label.
func (r *RoleLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseRoleLevel(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
