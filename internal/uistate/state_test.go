package uistate_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/brokerdesk/brokerdesk/internal/shared"
	"github.com/brokerdesk/brokerdesk/internal/uistate"
	_ "github.com/brokerdesk/brokerdesk/testing"
)

func newSession(t *testing.T) *shared.Session {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	manager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	sess, err := manager.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return sess
}

func TestLoadDefaults(t *testing.T) {
	sel := uistate.Load(newSession(t))
	if sel.ActiveTab != uistate.TabNew {
		t.Fatalf("default tab: got %s", sel.ActiveTab)
	}
	if sel.ActiveBorrowerID != "" {
		t.Fatalf("default borrower should be empty, got %s", sel.ActiveBorrowerID)
	}
	if !sel.AssistantEnabled {
		t.Fatal("assistant defaults to enabled")
	}

	// A nil session falls back to the same defaults.
	if sel := uistate.Load(nil); sel.ActiveTab != uistate.TabNew || !sel.AssistantEnabled {
		t.Fatalf("nil session defaults wrong: %+v", sel)
	}
}

func TestTabValidation(t *testing.T) {
	for _, tab := range []uistate.Tab{uistate.TabNew, uistate.TabInReview, uistate.TabApproved} {
		if !tab.Valid() {
			t.Fatalf("tab %s should be valid", tab)
		}
	}
	if uistate.Tab("archived").Valid() {
		t.Fatal("unknown tab must not validate")
	}

	sess := newSession(t)
	uistate.SetActiveTab(sess, uistate.Tab("archived"))
	if sel := uistate.Load(sess); sel.ActiveTab != uistate.TabNew {
		t.Fatalf("invalid tab write should be ignored, got %s", sel.ActiveTab)
	}
}

func TestSetActiveTab(t *testing.T) {
	sess := newSession(t)
	uistate.SetActiveTab(sess, uistate.TabApproved)
	if sel := uistate.Load(sess); sel.ActiveTab != uistate.TabApproved {
		t.Fatalf("got %s, want approved", sel.ActiveTab)
	}
}

func TestSetActiveBorrower(t *testing.T) {
	sess := newSession(t)
	uistate.SetActiveBorrower(sess, "3")
	if sel := uistate.Load(sess); sel.ActiveBorrowerID != "3" {
		t.Fatalf("got %s, want 3", sel.ActiveBorrowerID)
	}

	uistate.SetActiveBorrower(sess, "")
	if sel := uistate.Load(sess); sel.ActiveBorrowerID != "" {
		t.Fatalf("empty id should clear the selection, got %s", sel.ActiveBorrowerID)
	}
}

func TestToggleAssistant(t *testing.T) {
	sess := newSession(t)
	if got := uistate.ToggleAssistant(sess); got {
		t.Fatal("first toggle should disable")
	}
	if sel := uistate.Load(sess); sel.AssistantEnabled {
		t.Fatal("assistant should be off")
	}
	if got := uistate.ToggleAssistant(sess); !got {
		t.Fatal("second toggle should re-enable")
	}
}

func TestReset(t *testing.T) {
	sess := newSession(t)
	uistate.SetActiveTab(sess, uistate.TabInReview)
	uistate.SetActiveBorrower(sess, "1")
	uistate.ToggleAssistant(sess)

	uistate.Reset(sess)
	sel := uistate.Load(sess)
	if sel.ActiveTab != uistate.TabNew || sel.ActiveBorrowerID != "" || !sel.AssistantEnabled {
		t.Fatalf("reset should restore defaults, got %+v", sel)
	}
}
