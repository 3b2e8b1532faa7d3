package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/brokerdesk/brokerdesk/internal/identity"
	"github.com/brokerdesk/brokerdesk/internal/observability"
	"github.com/brokerdesk/brokerdesk/internal/shared"
)

// RecordKey is the slot under which the signed-in identity is persisted.
// The value is the JSON identity record; the password never joins it.
const RecordKey = "user"

// Store is the single-slot persistence surface for the session record.
// Load returns (nil, nil) when no record exists and
// shared.ErrMalformedSessionRecord when a record existed but could not
// be trusted; in that case the slot has already been cleared.
type Store interface {
	Save(ctx context.Context, ident *identity.Identity) error
	Load(ctx context.Context) (*identity.Identity, error)
	Clear(ctx context.Context) error
}

// decodeRecord parses and shape-checks a persisted identity record.
func decodeRecord(raw []byte) (*identity.Identity, error) {
	var ident identity.Identity
	if err := json.Unmarshal(raw, &ident); err != nil {
		return nil, shared.ErrMalformedSessionRecord
	}
	if ident.ID == "" || ident.Name == "" || ident.Email == "" {
		return nil, shared.ErrMalformedSessionRecord
	}
	if !ident.Role.Valid() {
		return nil, shared.ErrMalformedSessionRecord
	}
	if ident.Permissions == nil {
		return nil, shared.ErrMalformedSessionRecord
	}
	return &ident, nil
}

// SessionStore persists the record inside the shared cookie session, so
// it survives reloads for as long as the session TTL.
type SessionStore struct {
	sess    *shared.Session
	metrics *observability.Metrics
}

// NewSessionStore binds a store to the request's session.
func NewSessionStore(sess *shared.Session) *SessionStore {
	return &SessionStore{sess: sess}
}

// WithMetrics attaches a sink recording record read results. Reads at
// the request boundary carry metrics; nested reads within one request
// stay unobserved so a request counts once.
func (s *SessionStore) WithMetrics(m *observability.Metrics) *SessionStore {
	s.metrics = m
	return s
}

// Save writes the identity record, replacing any previous one.
func (s *SessionStore) Save(ctx context.Context, ident *identity.Identity) error {
	if s.sess == nil {
		return shared.ErrNoSession
	}
	data, err := json.Marshal(ident)
	if err != nil {
		return err
	}
	s.sess.Set(RecordKey, string(data))
	return nil
}

// Load reads the persisted record. Malformed records are discarded.
func (s *SessionStore) Load(ctx context.Context) (*identity.Identity, error) {
	if s.sess == nil {
		return nil, shared.ErrNoSession
	}
	raw := s.sess.Get(RecordKey)
	if raw == "" {
		s.metrics.ObserveSessionRecord(observability.SessionRecordMissing)
		return nil, nil
	}
	ident, err := decodeRecord([]byte(raw))
	if err != nil {
		s.sess.Delete(RecordKey)
		s.metrics.ObserveSessionRecord(observability.SessionRecordMalformed)
		return nil, err
	}
	s.metrics.ObserveSessionRecord(observability.SessionRecordOK)
	return ident, nil
}

// Clear removes the persisted record.
func (s *SessionStore) Clear(ctx context.Context) error {
	if s.sess == nil {
		return shared.ErrNoSession
	}
	s.sess.Delete(RecordKey)
	return nil
}

var _ Store = (*SessionStore)(nil)

// MemoryStore keeps the record in process memory. It backs tests and
// embedded (non-HTTP) use of the authenticator.
type MemoryStore struct {
	mu  sync.Mutex
	raw []byte
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save writes the identity record.
func (s *MemoryStore) Save(ctx context.Context, ident *identity.Identity) error {
	data, err := json.Marshal(ident)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = data
	return nil
}

// Load reads the record, discarding it when malformed.
func (s *MemoryStore) Load(ctx context.Context) (*identity.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.raw) == 0 {
		return nil, nil
	}
	ident, err := decodeRecord(s.raw)
	if err != nil {
		s.raw = nil
		return nil, err
	}
	return ident, nil
}

// Clear removes the record.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = nil
	return nil
}

// SeedRaw overwrites the slot with an arbitrary payload. Tests use it to
// simulate a corrupted persisted record.
func (s *MemoryStore) SeedRaw(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = append([]byte(nil), raw...)
}

var _ Store = (*MemoryStore)(nil)

// IdentityFromSession resolves the signed-in identity for a request, or
// nil when the session is absent, empty or carried a malformed record.
// Malformed records are logged and dropped, never surfaced. metrics may
// be nil; callers past the auth boundary pass nil so each request is
// observed once.
func IdentityFromSession(ctx context.Context, sess *shared.Session, logger *slog.Logger, metrics *observability.Metrics) *identity.Identity {
	if sess == nil {
		return nil
	}
	ident, err := NewSessionStore(sess).WithMetrics(metrics).Load(ctx)
	if err != nil {
		if logger != nil {
			logger.Warn("discarding persisted session record", slog.Any("error", err))
		}
		return nil
	}
	return ident
}
