package broker

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brokerdesk/brokerdesk/internal/shared"
)

// RepositoryPort defines data access for broker statistics.
type RepositoryPort interface {
	Info(ctx context.Context, brokerID string) (*Info, error)
}

// MockRepository serves the canned demo statistics after an artificial
// delay.
type MockRepository struct {
	latency time.Duration
}

// NewMockRepository constructs the mock data source.
func NewMockRepository(latency time.Duration) *MockRepository {
	return &MockRepository{latency: latency}
}

// Info returns the canned demo stats. The id is accepted but ignored;
// the demo data set has a single broker.
func (r *MockRepository) Info(ctx context.Context, brokerID string) (*Info, error) {
	if r.latency > 0 {
		timer := time.NewTimer(r.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &Info{Name: "Robert Turner", Deals: 16, ApprovalRate: "75%", Pending: 7660}, nil
}

var _ RepositoryPort = (*MockRepository)(nil)

// PGRepository reads broker statistics from PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a PostgreSQL repository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Info fetches one broker's statistics row.
func (r *PGRepository) Info(ctx context.Context, brokerID string) (*Info, error) {
	var info Info
	err := r.pool.QueryRow(ctx,
		`SELECT name, deals, approval_rate, pending FROM broker_stats WHERE id = $1`,
		brokerID,
	).Scan(&info.Name, &info.Deals, &info.ApprovalRate, &info.Pending)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &info, nil
}

var _ RepositoryPort = (*PGRepository)(nil)
