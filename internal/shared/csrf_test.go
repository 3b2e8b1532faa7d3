package shared

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func csrfSession(t *testing.T) *Session {
	t.Helper()
	manager, _ := newManager(t)
	sess, err := manager.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return sess
}

func TestEnsureTokenIsStablePerSession(t *testing.T) {
	m := NewCSRFManager("csrfsecret")
	sess := csrfSession(t)

	token, err := m.EnsureToken(context.Background(), sess)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	again, err := m.EnsureToken(context.Background(), sess)
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if again != token {
		t.Fatal("token should be stable for the session lifetime")
	}
}

func TestVerifyToken(t *testing.T) {
	m := NewCSRFManager("csrfsecret")
	sess := csrfSession(t)
	token, _ := m.EnsureToken(context.Background(), sess)

	if err := m.VerifyToken(context.Background(), sess, token); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if err := m.VerifyToken(context.Background(), sess, "tampered"); !errors.Is(err, ErrCSRFTokenMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if err := m.VerifyToken(context.Background(), sess, ""); !errors.Is(err, ErrCSRFTokenMissing) {
		t.Fatalf("expected missing, got %v", err)
	}
	if err := m.VerifyToken(context.Background(), nil, token); !errors.Is(err, ErrCSRFTokenMissing) {
		t.Fatalf("expected missing for nil session, got %v", err)
	}
}

func TestVerifyTokenWithoutIssuedToken(t *testing.T) {
	m := NewCSRFManager("csrfsecret")
	sess := csrfSession(t)

	if err := m.VerifyToken(context.Background(), sess, "anything"); !errors.Is(err, ErrCSRFTokenMissing) {
		t.Fatalf("expected missing, got %v", err)
	}
}
