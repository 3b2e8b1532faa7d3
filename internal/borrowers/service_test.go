package borrowers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/shared"
)

type recordedNotification struct {
	action      Action
	borrowerID  string
	requestedBy string
}

type stubNotifier struct {
	notifications []recordedNotification
	err           error
}

func (s *stubNotifier) NotifyAction(ctx context.Context, action Action, borrowerID, requestedBy string) error {
	s.notifications = append(s.notifications, recordedNotification{action, borrowerID, requestedBy})
	return s.err
}

func newTestService(notifier Notifier) *Service {
	return NewService(NewMockRepository(0), notifier, nil)
}

func TestPipelineBuckets(t *testing.T) {
	svc := newTestService(nil)
	p, err := svc.Pipeline(context.Background())
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}

	// Renew rides in the new bucket next to fresh applications.
	if len(p.New) != 2 || len(p.InReview) != 1 || len(p.Approved) != 0 {
		t.Fatalf("bucket sizes: new=%d in_review=%d approved=%d", len(p.New), len(p.InReview), len(p.Approved))
	}
	if p.New[0].Name != "Sarah Dunn" || p.New[0].Status != StatusRenew {
		t.Fatalf("unexpected first new borrower: %+v", p.New[0])
	}
	if p.InReview[0].Name != "Alan Matthews" {
		t.Fatalf("unexpected in-review borrower: %+v", p.InReview[0])
	}
}

func TestGet(t *testing.T) {
	svc := newTestService(nil)

	b, err := svc.Get(context.Background(), "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.Name != "Sarah Dunn" || len(b.AIFlags) != 2 {
		t.Fatalf("unexpected borrower: %+v", b)
	}

	if _, err := svc.Get(context.Background(), "99"); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActionsReturnWorkflowMessages(t *testing.T) {
	notifier := &stubNotifier{}
	svc := newTestService(notifier)

	cases := []struct {
		name    string
		run     func(ctx context.Context, id, by string) (ActionResult, error)
		action  Action
		message string
	}{
		{"request documents", svc.RequestDocuments, ActionRequestDocuments, "Documents requested successfully."},
		{"send to valuer", svc.SendToValuer, ActionSendToValuer, "Valuer has been notified."},
		{"approve", svc.Approve, ActionApprove, "Loan has been approved."},
		{"escalate", svc.Escalate, ActionEscalate, "Case escalated to Credit Committee."},
	}
	for i, tc := range cases {
		res, err := tc.run(context.Background(), "1", "broker@demo.com")
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if !res.Success || res.Message != tc.message {
			t.Fatalf("%s: unexpected result %+v", tc.name, res)
		}
		got := notifier.notifications[i]
		if got.action != tc.action || got.borrowerID != "1" || got.requestedBy != "broker@demo.com" {
			t.Fatalf("%s: unexpected notification %+v", tc.name, got)
		}
	}
}

func TestApproveMovesBorrower(t *testing.T) {
	svc := newTestService(nil)

	if _, err := svc.Approve(context.Background(), "2", "admin@demo.com"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	p, err := svc.Pipeline(context.Background())
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	if len(p.Approved) != 1 || p.Approved[0].ID != "2" {
		t.Fatalf("borrower should be in approved bucket: %+v", p.Approved)
	}
	if len(p.InReview) != 0 {
		t.Fatalf("in-review bucket should be empty: %+v", p.InReview)
	}
}

func TestActionsFailForUnknownBorrower(t *testing.T) {
	notifier := &stubNotifier{}
	svc := newTestService(notifier)

	if _, err := svc.RequestDocuments(context.Background(), "99", "broker@demo.com"); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Approve(context.Background(), "99", "admin@demo.com"); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(notifier.notifications) != 0 {
		t.Fatal("failed actions must not notify")
	}
}

func TestNotifierFailureDoesNotFailAction(t *testing.T) {
	svc := newTestService(&stubNotifier{err: errors.New("queue down")})

	res, err := svc.SendToValuer(context.Background(), "1", "broker@demo.com")
	if err != nil {
		t.Fatalf("action should succeed despite notifier failure: %v", err)
	}
	if !res.Success {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestMockLatencyHonorsContext(t *testing.T) {
	repo := NewMockRepository(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.Pipeline(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
