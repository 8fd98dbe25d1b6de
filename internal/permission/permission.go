package permission

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Skotchmaster/sickfits/internal/domain"
)

//go:generate go tool stringer -type=Permission -linecomment

// Permission is a capability label attached to a user.
type Permission uint8

const (
	Admin            Permission = iota // ADMIN
	User                               // USER
	ItemCreate                         // ITEMCREATE
	ItemUpdate                         // ITEMUPDATE
	ItemDelete                         // ITEMDELETE
	PermissionUpdate                   // PERMISSIONUPDATE

	count
)

// All lists every known permission in declaration order.
func All() []Permission {
	out := make([]Permission, 0, count)
	for p := Permission(0); p < count; p++ {
		out = append(out, p)
	}
	return out
}

// Parse maps a label such as "ITEMDELETE" to its Permission.
func Parse(label string) (Permission, error) {
	for p := Permission(0); p < count; p++ {
		if p.String() == label {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown permission %q", domain.ErrValidation, label)
}

// Set is an unordered set of permissions.
type Set uint16

func NewSet(perms ...Permission) Set {
	var s Set
	for _, p := range perms {
		s |= 1 << p
	}
	return s
}

// ParseSet builds a Set from labels. Duplicates collapse; an unknown label
// fails the whole set.
func ParseSet(labels []string) (Set, error) {
	var s Set
	for _, l := range labels {
		p, err := Parse(l)
		if err != nil {
			return 0, err
		}
		s |= 1 << p
	}
	return s, nil
}

func (s Set) Has(p Permission) bool { return s&(1<<p) != 0 }

func (s Set) Intersects(other Set) bool { return s&other != 0 }

func (s Set) IsEmpty() bool { return s == 0 }

// List returns the members in declaration order.
func (s Set) List() []Permission {
	out := make([]Permission, 0, count)
	for p := Permission(0); p < count; p++ {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s Set) Labels() []string {
	perms := s.List()
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = p.String()
	}
	return out
}

func (s Set) String() string { return strings.Join(s.Labels(), ",") }

func (s Set) MarshalJSON() ([]byte, error) { return json.Marshal(s.Labels()) }

func (s *Set) UnmarshalJSON(data []byte) error {
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	parsed, err := ParseSet(labels)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value stores the set as a comma separated label list.
func (s Set) Value() (driver.Value, error) { return s.String(), nil }

func (s *Set) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = 0
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("permission: cannot scan %T", src)
	}
	if raw == "" {
		*s = 0
		return nil
	}
	parsed, err := ParseSet(strings.Split(raw, ","))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Require succeeds when have shares at least one permission with anyOf.
func Require(have, anyOf Set) error {
	if !have.Intersects(anyOf) {
		return fmt.Errorf("%w: requires one of %s", domain.ErrForbidden, anyOf)
	}
	return nil
}
