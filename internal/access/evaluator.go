// Package access answers "may this identity see this" questions. The
// predicates are pure functions over an identity snapshot: an absent
// identity (nil) denies everything, empty query sets resolve to a
// boolean, and nothing here ever panics or touches I/O.
package access

import "github.com/brokerdesk/brokerdesk/internal/identity"

// HasRole reports whether ident is present and holds exactly role.
func HasRole(ident *identity.Identity, role identity.Role) bool {
	return ident != nil && ident.Role == role
}

// HasAnyRole reports whether ident is present and its role is a member
// of roles. An empty set matches nothing.
func HasAnyRole(ident *identity.Identity, roles []identity.Role) bool {
	if ident == nil {
		return false
	}
	for _, role := range roles {
		if ident.Role == role {
			return true
		}
	}
	return false
}

// HasAllRoles reports whether ident is present and holds every role in
// roles. An identity has exactly one role, so a set with two distinct
// members can never pass; the empty set is vacuously true. The
// degenerate behaviour is intentional and mirrors the require-all mode
// of the role gate.
func HasAllRoles(ident *identity.Identity, roles []identity.Role) bool {
	if ident == nil {
		return false
	}
	for _, role := range roles {
		if ident.Role != role {
			return false
		}
	}
	return true
}

// HasPermission reports whether ident is present and holds permission.
func HasPermission(ident *identity.Identity, permission string) bool {
	if ident == nil {
		return false
	}
	for _, p := range ident.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether ident holds at least one of
// permissions. An empty set matches nothing.
func HasAnyPermission(ident *identity.Identity, permissions []string) bool {
	if ident == nil {
		return false
	}
	for _, p := range permissions {
		if HasPermission(ident, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether ident holds every permission in
// permissions; vacuously true for an empty set when ident is present.
func HasAllPermissions(ident *identity.Identity, permissions []string) bool {
	if ident == nil {
		return false
	}
	for _, p := range permissions {
		if !HasPermission(ident, p) {
			return false
		}
	}
	return true
}
