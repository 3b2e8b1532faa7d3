// Package users exposes the identity-directory admin view. Accounts are
// fixed at build time, so the "repository" is the directory itself.
package users

import (
	"context"

	"github.com/brokerdesk/brokerdesk/internal/identity"
)

// DirectoryPort is the slice of the identity directory the admin view
// needs.
type DirectoryPort interface {
	All() []identity.Identity
}

// Service handles directory listing logic.
type Service struct {
	directory DirectoryPort
}

// NewService builds Service instance.
func NewService(directory DirectoryPort) *Service {
	return &Service{directory: directory}
}

// ListAccounts returns every demo account in definition order.
func (s *Service) ListAccounts(ctx context.Context) ([]identity.Identity, error) {
	return s.directory.All(), nil
}
