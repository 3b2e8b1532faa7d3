package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/brokerdesk/brokerdesk/internal/borrowers"
	jobmetrics "github.com/brokerdesk/brokerdesk/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// Task types for borrower workflow notifications.
	TaskTypeRequestDocuments = "borrowers:request_documents"
	TaskTypeSendToValuer     = "borrowers:send_valuer"
	TaskTypeApprove          = "borrowers:approve"
	TaskTypeEscalate         = "borrowers:escalate"
)

// taskTypeFor maps a workflow action to its task type.
func taskTypeFor(action borrowers.Action) (string, bool) {
	switch action {
	case borrowers.ActionRequestDocuments:
		return TaskTypeRequestDocuments, true
	case borrowers.ActionSendToValuer:
		return TaskTypeSendToValuer, true
	case borrowers.ActionApprove:
		return TaskTypeApprove, true
	case borrowers.ActionEscalate:
		return TaskTypeEscalate, true
	}
	return "", false
}

// ActionPayload carries the context of one borrower workflow action.
type ActionPayload struct {
	BorrowerID  string `json:"borrower_id"`
	RequestedBy string `json:"requested_by"`
}

// NewActionTask constructs an Asynq task for a borrower action.
func NewActionTask(action borrowers.Action, payload ActionPayload) (*asynq.Task, error) {
	typ, ok := taskTypeFor(action)
	if !ok {
		return nil, errUnknownAction(action)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typ, data), nil
}

type errUnknownAction borrowers.Action

func (e errUnknownAction) Error() string {
	return "jobs: unknown borrower action " + string(e)
}

// ActionHandler processes borrower notification tasks. The demo sink is
// the structured log; a real deployment would fan out to email or a
// CRM webhook here.
type ActionHandler struct {
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewActionHandler constructs an ActionHandler. metrics may be nil.
func NewActionHandler(logger *slog.Logger, metrics *jobmetrics.Metrics) *ActionHandler {
	return &ActionHandler{logger: logger, metrics: metrics}
}

// Handle processes one notification task.
func (h *ActionHandler) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := h.metrics.Track(t.Type())
	var payload ActionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}
	h.logger.Info("borrower action notification",
		slog.String("task", t.Type()),
		slog.String("borrower_id", payload.BorrowerID),
		slog.String("requested_by", payload.RequestedBy))
	return tracker.End(nil)
}
