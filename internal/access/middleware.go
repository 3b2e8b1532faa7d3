package access

import (
	"log/slog"
	"net/http"

	"github.com/brokerdesk/brokerdesk/internal/auth"
	"github.com/brokerdesk/brokerdesk/internal/identity"
	"github.com/brokerdesk/brokerdesk/internal/observability"
	"github.com/brokerdesk/brokerdesk/internal/shared"
)

// Middleware wires authorization helpers for HTTP handlers. The current
// identity comes from the request session's persisted record; requests
// without a record are sent to the login page, authorization failures
// get the denied page. An empty requirement list is a no-op, so routes
// can be composed without conditionals.
type Middleware struct {
	Logger *slog.Logger
	// Metrics records session record reads at the auth boundary. May be
	// nil.
	Metrics *observability.Metrics
	// Denied renders the access-denied response. Defaults to a plain 403.
	Denied http.HandlerFunc
}

// RequireAuthenticated ensures a signed-in identity.
func (m Middleware) RequireAuthenticated() func(http.Handler) http.Handler {
	return m.guard(RouteGuard{})
}

// RequireAnyRole ensures the identity holds at least one of roles.
func (m Middleware) RequireAnyRole(roles ...identity.Role) func(http.Handler) http.Handler {
	if len(roles) == 0 {
		return passthrough
	}
	return m.guard(RouteGuard{Roles: roles})
}

// RequireAnyPermission ensures at least one of perms is held.
func (m Middleware) RequireAnyPermission(perms ...string) func(http.Handler) http.Handler {
	if len(perms) == 0 {
		return passthrough
	}
	return m.decide(func(ident *identity.Identity) Decision {
		return PermissionGate{Permissions: perms}.Evaluate(ident)
	})
}

// RequireAllPermissions ensures every permission in perms is held.
func (m Middleware) RequireAllPermissions(perms ...string) func(http.Handler) http.Handler {
	if len(perms) == 0 {
		return passthrough
	}
	return m.guard(RouteGuard{Permissions: perms})
}

func (m Middleware) guard(g RouteGuard) func(http.Handler) http.Handler {
	return m.decide(func(ident *identity.Identity) Decision {
		return g.Evaluate(false, ident)
	})
}

func (m Middleware) decide(eval func(*identity.Identity) Decision) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			ident := auth.IdentityFromSession(r.Context(), sess, m.Logger, m.Metrics)
			decision := eval(ident)
			if decision.Granted {
				next.ServeHTTP(w, r)
				return
			}
			switch decision.Reason {
			case DenyUnauthenticated:
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			default:
				if m.Logger != nil {
					m.Logger.Info("access denied",
						slog.String("path", r.URL.Path),
						slog.String("reason", decision.Reason.String()))
				}
				if m.Denied != nil {
					m.Denied(w, r)
					return
				}
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			}
		})
	}
}

func passthrough(next http.Handler) http.Handler {
	return next
}
