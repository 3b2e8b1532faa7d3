package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/brokerdesk/brokerdesk/internal/auth"
	"github.com/brokerdesk/brokerdesk/internal/identity"
	"github.com/brokerdesk/brokerdesk/internal/observability"
	"github.com/brokerdesk/brokerdesk/internal/shared"
	_ "github.com/brokerdesk/brokerdesk/testing"
)

func newSession(t *testing.T) (*shared.SessionManager, *shared.Session) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	manager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := manager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return manager, sess
}

func demoAdmin() *identity.Identity {
	return identity.NewDemoDirectory().FindByEmail("admin@demo.com")
}

func TestSessionStoreRoundTrip(t *testing.T) {
	_, sess := newSession(t)
	store := auth.NewSessionStore(sess)

	if err := store.Save(context.Background(), demoAdmin()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if sess.Get(auth.RecordKey) == "" {
		t.Fatal("record slot should be populated")
	}

	ident, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ident == nil || ident.Email != "admin@demo.com" {
		t.Fatalf("unexpected identity: %+v", ident)
	}
	if len(ident.Permissions) != 9 {
		t.Fatalf("permissions lost in round trip: %d", len(ident.Permissions))
	}

	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if ident, err := store.Load(context.Background()); err != nil || ident != nil {
		t.Fatalf("expected empty slot, got %+v, %v", ident, err)
	}
}

func TestSessionStoreSurvivesCommitReload(t *testing.T) {
	manager, sess := newSession(t)
	if err := auth.NewSessionStore(sess).Save(context.Background(), demoAdmin()); err != nil {
		t.Fatalf("save: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	if err := manager.Commit(context.Background(), res, req, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}

	// Simulate the next request carrying the session cookie.
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(&http.Cookie{Name: manager.CookieName(), Value: sess.ID})
	reloaded, err := manager.Load(context.Background(), next)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}

	ident, err := auth.NewSessionStore(reloaded).Load(context.Background())
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	if ident == nil || ident.ID != "2" {
		t.Fatalf("record did not survive the reload: %+v", ident)
	}
}

func TestSessionStoreDiscardsMalformedRecord(t *testing.T) {
	_, sess := newSession(t)
	sess.Set(auth.RecordKey, "{broken")

	store := auth.NewSessionStore(sess)
	ident, err := store.Load(context.Background())
	if !errors.Is(err, shared.ErrMalformedSessionRecord) {
		t.Fatalf("expected ErrMalformedSessionRecord, got %v", err)
	}
	if ident != nil {
		t.Fatalf("malformed record must not produce an identity: %+v", ident)
	}
	if sess.Get(auth.RecordKey) != "" {
		t.Fatal("malformed record should be dropped from the session")
	}
}

func TestSessionStoreObservesRecordReads(t *testing.T) {
	_, sess := newSession(t)
	metrics := observability.NewMetrics()

	// missing, then ok, then malformed
	if ident := auth.IdentityFromSession(context.Background(), sess, nil, metrics); ident != nil {
		t.Fatalf("expected no identity yet, got %+v", ident)
	}
	if err := auth.NewSessionStore(sess).Save(context.Background(), demoAdmin()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ident := auth.IdentityFromSession(context.Background(), sess, nil, metrics); ident == nil {
		t.Fatal("expected identity after save")
	}
	sess.Set(auth.RecordKey, "not json")
	if ident := auth.IdentityFromSession(context.Background(), sess, nil, metrics); ident != nil {
		t.Fatalf("malformed record must not yield an identity: %+v", ident)
	}

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	for _, want := range []string{
		`brokerdesk_session_records_total{result="missing"} 1`,
		`brokerdesk_session_records_total{result="ok"} 1`,
		`brokerdesk_session_records_total{result="malformed"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected metrics output to contain %q, got: %s", want, body)
		}
	}
}

func TestSessionStoreWithoutSession(t *testing.T) {
	store := auth.NewSessionStore(nil)
	if err := store.Save(context.Background(), demoAdmin()); !errors.Is(err, shared.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, err := store.Load(context.Background()); !errors.Is(err, shared.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestIdentityFromSession(t *testing.T) {
	_, sess := newSession(t)

	if ident := auth.IdentityFromSession(context.Background(), nil, nil, nil); ident != nil {
		t.Fatal("nil session yields nil identity")
	}
	if ident := auth.IdentityFromSession(context.Background(), sess, nil, nil); ident != nil {
		t.Fatal("empty session yields nil identity")
	}

	if err := auth.NewSessionStore(sess).Save(context.Background(), demoAdmin()); err != nil {
		t.Fatalf("save: %v", err)
	}
	ident := auth.IdentityFromSession(context.Background(), sess, nil, nil)
	if ident == nil || ident.Role != identity.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", ident)
	}

	sess.Set(auth.RecordKey, "not json")
	if ident := auth.IdentityFromSession(context.Background(), sess, nil, nil); ident != nil {
		t.Fatal("malformed record yields nil identity, not an error")
	}
}
