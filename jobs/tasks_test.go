package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"

	"github.com/brokerdesk/brokerdesk/internal/borrowers"
)

func TestNewActionTaskTypes(t *testing.T) {
	cases := []struct {
		action borrowers.Action
		typ    string
	}{
		{borrowers.ActionRequestDocuments, TaskTypeRequestDocuments},
		{borrowers.ActionSendToValuer, TaskTypeSendToValuer},
		{borrowers.ActionApprove, TaskTypeApprove},
		{borrowers.ActionEscalate, TaskTypeEscalate},
	}
	for _, tc := range cases {
		task, err := NewActionTask(tc.action, ActionPayload{BorrowerID: "1", RequestedBy: "broker@demo.com"})
		if err != nil {
			t.Fatalf("%s: %v", tc.action, err)
		}
		if task.Type() != tc.typ {
			t.Fatalf("%s: got type %s, want %s", tc.action, task.Type(), tc.typ)
		}

		var payload ActionPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			t.Fatalf("%s: payload: %v", tc.action, err)
		}
		if payload.BorrowerID != "1" || payload.RequestedBy != "broker@demo.com" {
			t.Fatalf("%s: unexpected payload %+v", tc.action, payload)
		}
	}
}

func TestNewActionTaskRejectsUnknownAction(t *testing.T) {
	if _, err := NewActionTask(borrowers.Action("archive"), ActionPayload{}); err == nil {
		t.Fatal("unknown action should error")
	}
}

func TestActionHandlerSkipsRetryOnBadPayload(t *testing.T) {
	handler := NewActionHandler(slog.Default(), nil)
	task := asynq.NewTask(TaskTypeApprove, []byte("not json"))

	if err := handler.Handle(context.Background(), task); err != asynq.SkipRetry {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func TestActionHandlerProcessesPayload(t *testing.T) {
	handler := NewActionHandler(slog.Default(), nil)
	task, err := NewActionTask(borrowers.ActionEscalate, ActionPayload{BorrowerID: "2", RequestedBy: "admin@demo.com"})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := handler.Handle(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
}
