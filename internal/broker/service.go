package broker

import "context"

// Service handles broker statistics reads.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Info returns statistics for the given broker.
func (s *Service) Info(ctx context.Context, brokerID string) (*Info, error) {
	return s.repo.Info(ctx, brokerID)
}
