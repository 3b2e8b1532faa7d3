package borrowers_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/brokerdesk/brokerdesk/internal/access"
	"github.com/brokerdesk/brokerdesk/internal/auth"
	"github.com/brokerdesk/brokerdesk/internal/borrowers"
	"github.com/brokerdesk/brokerdesk/internal/identity"
	"github.com/brokerdesk/brokerdesk/internal/shared"
	"github.com/brokerdesk/brokerdesk/internal/uistate"
	_ "github.com/brokerdesk/brokerdesk/testing"
)

// newBorrowerRouter mounts the borrower routes behind a middleware that
// injects a session carrying the given account's record.
func newBorrowerRouter(t *testing.T, email string) (http.Handler, *shared.Session) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	manager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)

	sess, err := manager.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if email != "" {
		ident := identity.NewDemoDirectory().FindByEmail(email)
		if ident == nil {
			t.Fatalf("unknown demo account %s", email)
		}
		if err := auth.NewSessionStore(sess).Save(context.Background(), ident); err != nil {
			t.Fatalf("save record: %v", err)
		}
	}

	service := borrowers.NewService(borrowers.NewMockRepository(0), nil, slog.Default())
	handler := borrowers.NewHandler(slog.Default(), service, access.Middleware{})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	r.Route("/borrowers", handler.MountRoutes)
	return r, sess
}

func TestSelectBorrowerStoresSelection(t *testing.T) {
	router, sess := newBorrowerRouter(t, "viewer@demo.com")

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/borrowers/1", nil))

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	if sel := uistate.Load(sess); sel.ActiveBorrowerID != "1" {
		t.Fatalf("selection not stored: %+v", sel)
	}
}

func TestSelectUnknownBorrowerIs404(t *testing.T) {
	router, _ := newBorrowerRouter(t, "viewer@demo.com")

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/borrowers/99", nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestActionRequiresPermission(t *testing.T) {
	// The viewer can see borrowers but holds none of the action
	// permissions.
	router, _ := newBorrowerRouter(t, "viewer@demo.com")

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/borrowers/1/approve", nil))
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
}

func TestActionRedirectsAnonymousToLogin(t *testing.T) {
	router, _ := newBorrowerRouter(t, "")

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/borrowers/1/request-documents", nil))
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/auth/login" {
		t.Fatalf("expected login redirect, got %s", loc)
	}
}

func TestApproveFlashesWorkflowMessage(t *testing.T) {
	router, sess := newBorrowerRouter(t, "admin@demo.com")

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/borrowers/2/approve", nil))

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	flash := sess.PopFlash()
	if flash == nil || flash.Kind != "success" || flash.Message != "Loan has been approved." {
		t.Fatalf("unexpected flash: %+v", flash)
	}
}

func TestBrokerCanRequestDocumentsButNotApprove(t *testing.T) {
	router, _ := newBorrowerRouter(t, "broker@demo.com")

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/borrowers/1/request-documents", nil))
	if res.Code != http.StatusSeeOther {
		t.Fatalf("broker should request documents, got %d", res.Code)
	}

	res = httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/borrowers/1/approve", nil))
	if res.Code != http.StatusForbidden {
		t.Fatalf("broker must not approve, got %d", res.Code)
	}
}
