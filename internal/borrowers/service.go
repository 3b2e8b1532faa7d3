package borrowers

import (
	"context"
	"log/slog"
)

// Notifier dispatches a workflow-action notification. Implementations
// may enqueue a background task; a nil Notifier disables notifications.
type Notifier interface {
	NotifyAction(ctx context.Context, action Action, borrowerID, requestedBy string) error
}

// Service handles borrower pipeline business logic.
type Service struct {
	repo     RepositoryPort
	notifier Notifier
	logger   *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// Pipeline returns the bucketed pipeline.
func (s *Service) Pipeline(ctx context.Context) (*Pipeline, error) {
	return s.repo.Pipeline(ctx)
}

// Get returns one borrower, or shared.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Borrower, error) {
	return s.repo.Get(ctx, id)
}

// RequestDocuments asks the borrower for supporting documents.
func (s *Service) RequestDocuments(ctx context.Context, id, requestedBy string) (ActionResult, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return ActionResult{}, err
	}
	s.notify(ctx, ActionRequestDocuments, id, requestedBy)
	return ActionResult{Success: true, Message: "Documents requested successfully."}, nil
}

// SendToValuer dispatches the application to a property valuer.
func (s *Service) SendToValuer(ctx context.Context, id, requestedBy string) (ActionResult, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return ActionResult{}, err
	}
	s.notify(ctx, ActionSendToValuer, id, requestedBy)
	return ActionResult{Success: true, Message: "Valuer has been notified."}, nil
}

// Approve moves the borrower to the approved bucket.
func (s *Service) Approve(ctx context.Context, id, requestedBy string) (ActionResult, error) {
	if err := s.repo.UpdateStatus(ctx, id, StatusApproved); err != nil {
		return ActionResult{}, err
	}
	s.notify(ctx, ActionApprove, id, requestedBy)
	return ActionResult{Success: true, Message: "Loan has been approved."}, nil
}

// Escalate raises the case to the credit committee.
func (s *Service) Escalate(ctx context.Context, id, requestedBy string) (ActionResult, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return ActionResult{}, err
	}
	s.notify(ctx, ActionEscalate, id, requestedBy)
	return ActionResult{Success: true, Message: "Case escalated to Credit Committee."}, nil
}

// notify is fire-and-forget: enqueue failures are logged, never
// surfaced, and never fail the action.
func (s *Service) notify(ctx context.Context, action Action, id, requestedBy string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyAction(ctx, action, id, requestedBy); err != nil && s.logger != nil {
		s.logger.Warn("enqueue borrower notification",
			slog.String("action", string(action)),
			slog.String("borrower_id", id),
			slog.Any("error", err))
	}
}
