package entities

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// ParseRole is case-insensitive; the original backend stored roles in
// lower case but tokens issued by older clients used upper case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return r, true
	}
	return "", false
}

// Group returns the role group every connection of this role belongs to.
func (r Role) Group() string {
	switch r {
	case RoleAdmin:
		return GroupAdmins
	case RoleProvider:
		return GroupProviders
	case RoleCustomer:
		return GroupCustomers
	}
	return ""
}

// Identity is what the identity verifier resolves a bearer credential to.
type Identity struct {
	SubjectID string
	Role      Role
	ExpiresAt time.Time
}

// Expired reports whether the credential validity window has elapsed at now.
// A zero ExpiresAt never expires.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}
