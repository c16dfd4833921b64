package permission

import "errors"

// Principal is the authenticated actor authorization decisions are evaluated
// against. Permissions is a materialized snapshot taken when the principal was
// established (login, token verification); deployments may grant ad-hoc tokens
// to an individual beyond their role, so decisions read this list and only
// this list.
type Principal struct {
	UserID      string
	Role        string
	Tier        string
	Permissions []string
}

// ErrMissingPermission is the single failure kind signaled by [Check].
var ErrMissingPermission = errors.New("missing required permission")

// AuthorizationError reports a denied [Check] and carries the exact token
// that was missing. It unwraps to [ErrMissingPermission].
type AuthorizationError struct {
	Permission string
}

func (e *AuthorizationError) Error() string {
	return "missing required permission: " + e.Permission
}

func (e *AuthorizationError) Unwrap() error {
	return ErrMissingPermission
}

// Has reports whether the principal holds the permission. Token comparison is
// exact-string and case-sensitive; a nil principal or empty permission list
// holds nothing.
func Has(p *Principal, perm string) bool {
	if p == nil {
		return false
	}
	for _, held := range p.Permissions {
		if held == perm {
			return true
		}
	}
	return false
}

// HasAny reports whether the principal holds at least one of the requested
// permissions. An empty request list is false: call sites use this to gate
// access, and requesting nothing must never grant anything.
func HasAny(p *Principal, perms []string) bool {
	for _, perm := range perms {
		if Has(p, perm) {
			return true
		}
	}
	return false
}

// HasAll reports whether the principal holds every requested permission.
// An empty request list is vacuously true: gating on no requirements passes.
func HasAll(p *Principal, perms []string) bool {
	for _, perm := range perms {
		if !Has(p, perm) {
			return false
		}
	}
	return true
}

// Check returns nil iff [Has] would return true, and otherwise signals an
// [*AuthorizationError] carrying exactly the denied token. It is the only
// evaluator operation that can fail.
func Check(p *Principal, perm string) error {
	if Has(p, perm) {
		return nil
	}
	return &AuthorizationError{Permission: perm}
}
