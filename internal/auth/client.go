package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/brokerdesk/brokerdesk/internal/identity"
	"github.com/brokerdesk/brokerdesk/internal/shared"
)

// State is the session lifecycle phase of a Client.
type State int

// Lifecycle states. A client starts Anonymous; Authenticating and
// LoggingOut are transient phases observable through Snapshot while a
// call is in flight.
const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
	StateLoggingOut
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateLoggingOut:
		return "logging-out"
	default:
		return "unknown"
	}
}

// Snapshot is the read side of the client: the lifecycle state and the
// current identity, if any. Access predicates operate on the identity;
// the loading flag feeds the route guard's loading branch.
type Snapshot struct {
	State    State
	Identity *identity.Identity
}

// Loading reports whether a login or logout is in flight.
func (s Snapshot) Loading() bool {
	return s.State == StateAuthenticating || s.State == StateLoggingOut
}

// Client drives the session lifecycle against a Service and a Store.
// At most one session is active per client; the slot is replaced as a
// whole, never mutated in place. Logins are serialized: overlapping
// calls queue rather than race.
type Client struct {
	service *Service
	store   Store
	logger  *slog.Logger

	callMu sync.Mutex // serializes login/logout sequences

	mu      sync.Mutex // guards state and current
	state   State
	current *identity.Identity
}

// NewClient constructs a Client in the Anonymous state.
func NewClient(service *Service, store Store, logger *slog.Logger) *Client {
	return &Client{service: service, store: store, logger: logger}
}

// Restore rehydrates the session from the persisted record, if one
// exists and is well formed. Malformed records have already been
// discarded by the store; they are logged and the client stays
// Anonymous. Restore never returns an error for that case.
func (c *Client) Restore(ctx context.Context) {
	ident, err := c.store.Load(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrMalformedSessionRecord) {
			if c.logger != nil {
				c.logger.Warn("discarding persisted session record", slog.Any("error", err))
			}
			return
		}
		if c.logger != nil {
			c.logger.Warn("restore session", slog.Any("error", err))
		}
		return
	}
	if ident == nil {
		return
	}
	c.mu.Lock()
	c.current = ident
	c.state = StateAuthenticated
	c.mu.Unlock()
}

// Login validates credentials and, on success, swaps the session to the
// matched identity and persists the record before returning. On failure
// the client returns to Anonymous and surfaces
// shared.ErrInvalidCredentials; nothing is persisted.
func (c *Client) Login(ctx context.Context, email, password string) (*identity.Identity, error) {
	c.callMu.Lock()
	defer c.callMu.Unlock()

	c.setState(StateAuthenticating)

	ident, err := c.service.Authenticate(ctx, email, password)
	if err != nil {
		c.mu.Lock()
		c.current = nil
		c.state = StateAnonymous
		c.mu.Unlock()
		return nil, err
	}

	if err := c.store.Save(ctx, ident); err != nil {
		// The in-memory session still succeeds; persistence failure only
		// costs durability across reloads.
		if c.logger != nil {
			c.logger.Warn("persist session record", slog.Any("error", err))
		}
	}
	c.mu.Lock()
	c.current = ident
	c.state = StateAuthenticated
	c.mu.Unlock()
	return ident.Clone(), nil
}

// Logout tears the session down. The store and the current identity are
// always cleared, even when the housekeeping side effect fails, and the
// call is idempotent when no session exists.
func (c *Client) Logout(ctx context.Context) {
	c.callMu.Lock()
	defer c.callMu.Unlock()

	c.setState(StateLoggingOut)
	c.service.Logout(ctx)

	if err := c.store.Clear(ctx); err != nil && c.logger != nil {
		c.logger.Warn("clear session record", slog.Any("error", err))
	}
	c.mu.Lock()
	c.current = nil
	c.state = StateAnonymous
	c.mu.Unlock()
}

// Current returns the signed-in identity, or nil.
func (c *Client) Current() *identity.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Clone()
}

// State returns the lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsAuthenticated reports whether an identity is signed in.
func (c *Client) IsAuthenticated() bool {
	return c.State() == StateAuthenticated
}

// Snapshot returns the state and identity as one consistent read.
func (c *Client) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{State: c.state, Identity: c.current.Clone()}
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
