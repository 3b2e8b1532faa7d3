package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/identity"
	"github.com/brokerdesk/brokerdesk/internal/shared"
)

// Config tunes the simulated upstream behaviour of the service.
type Config struct {
	// LoginLatency delays Authenticate to mimic a remote identity
	// provider. Zero disables the delay (tests).
	LoginLatency time.Duration
	// LogoutLatency delays Logout the same way.
	LogoutLatency time.Duration
	// LogoutHook runs remote logout housekeeping. Failures are logged
	// and absorbed; they never block the session clear.
	LogoutHook func(ctx context.Context) error
}

// Service wraps authentication business rules over the fixed demo
// directory.
type Service struct {
	directory *identity.Directory
	logger    *slog.Logger
	cfg       Config
}

// NewService constructs a new Service.
func NewService(directory *identity.Directory, logger *slog.Logger, cfg Config) *Service {
	return &Service{directory: directory, logger: logger, cfg: cfg}
}

// Authenticate validates email/password credentials against the
// directory. Every failure mode, including empty inputs, collapses to
// shared.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*identity.Identity, error) {
	if err := wait(ctx, s.cfg.LoginLatency); err != nil {
		return nil, err
	}
	if !s.directory.VerifyPassword(email, password) {
		return nil, shared.ErrInvalidCredentials
	}
	ident := s.directory.FindByEmail(email)
	if ident == nil {
		return nil, shared.ErrInvalidCredentials
	}
	return ident, nil
}

// Logout runs the logout housekeeping. It never fails from the caller's
// point of view: hook errors are logged and swallowed.
func (s *Service) Logout(ctx context.Context) {
	if err := wait(ctx, s.cfg.LogoutLatency); err != nil {
		return
	}
	if s.cfg.LogoutHook == nil {
		return
	}
	if err := s.cfg.LogoutHook(ctx); err != nil && s.logger != nil {
		s.logger.Warn("logout housekeeping failed", slog.Any("error", err))
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
