package access

import "github.com/brokerdesk/brokerdesk/internal/identity"

// DenyReason explains why a Decision refused access.
type DenyReason int

const (
	// DenyNone is the reason carried by granted decisions.
	DenyNone DenyReason = iota
	// DenyLoading means the session check is still in flight.
	DenyLoading
	// DenyUnauthenticated means no identity is signed in.
	DenyUnauthenticated
	// DenyForbidden means an identity is signed in but fails the
	// role/permission requirements.
	DenyForbidden
)

func (r DenyReason) String() string {
	switch r {
	case DenyNone:
		return "none"
	case DenyLoading:
		return "loading"
	case DenyUnauthenticated:
		return "unauthenticated"
	case DenyForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Decision is the tagged result of a gate evaluation. The presentation
// layer switches on it; the decision logic itself stays free of any
// rendering concern.
type Decision struct {
	Granted bool
	Reason  DenyReason
}

// Grant returns a granted decision.
func Grant() Decision {
	return Decision{Granted: true}
}

// Deny returns a denied decision with the given reason.
func Deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// RoleGate chooses between granted and fallback content based on roles.
// The zero value of RequireAll means "require any", matching the
// defaults of every call site in the dashboard.
type RoleGate struct {
	Roles      []identity.Role
	RequireAll bool
}

// Evaluate resolves the gate for ident.
func (g RoleGate) Evaluate(ident *identity.Identity) Decision {
	if ident == nil {
		return Deny(DenyUnauthenticated)
	}
	allowed := HasAnyRole(ident, g.Roles)
	if g.RequireAll {
		allowed = HasAllRoles(ident, g.Roles)
	}
	if !allowed {
		return Deny(DenyForbidden)
	}
	return Grant()
}

// PermissionGate is the permission-set counterpart of RoleGate, with the
// same require-any default.
type PermissionGate struct {
	Permissions []string
	RequireAll  bool
}

// Evaluate resolves the gate for ident.
func (g PermissionGate) Evaluate(ident *identity.Identity) Decision {
	if ident == nil {
		return Deny(DenyUnauthenticated)
	}
	allowed := HasAnyPermission(ident, g.Permissions)
	if g.RequireAll {
		allowed = HasAllPermissions(ident, g.Permissions)
	}
	if !allowed {
		return Deny(DenyForbidden)
	}
	return Grant()
}

// Select resolves a decision into one of two content branches. A nil
// fallback yields the zero value, the analogue of rendering nothing.
func Select[T any](d Decision, granted func() T, fallback func() T) T {
	if d.Granted {
		return granted()
	}
	if fallback == nil {
		var zero T
		return zero
	}
	return fallback()
}

// RouteGuard combines authentication and authorization checks for a
// protected view. A nil requirement slice means the check is skipped; a
// non-nil empty slice is a requirement nothing satisfies.
type RouteGuard struct {
	Roles       []identity.Role
	Permissions []string
}

// Evaluate applies the three-way denial ordering: loading takes
// precedence over authentication, which takes precedence over
// authorization. Roles are combined with "any", permissions with "all".
func (g RouteGuard) Evaluate(loading bool, ident *identity.Identity) Decision {
	if loading {
		return Deny(DenyLoading)
	}
	if ident == nil {
		return Deny(DenyUnauthenticated)
	}
	if g.Roles != nil && !HasAnyRole(ident, g.Roles) {
		return Deny(DenyForbidden)
	}
	if g.Permissions != nil && !HasAllPermissions(ident, g.Permissions) {
		return Deny(DenyForbidden)
	}
	return Grant()
}
