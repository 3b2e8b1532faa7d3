package borrowers

import (
	"context"
	"sync"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/shared"
)

// RepositoryPort defines data access for the borrower pipeline.
type RepositoryPort interface {
	Pipeline(ctx context.Context) (*Pipeline, error)
	Get(ctx context.Context, id string) (*Borrower, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// MockRepository serves the canned demo pipeline after an artificial
// delay, standing in for the upstream loan API.
type MockRepository struct {
	mu      sync.Mutex
	byID    map[string]*Borrower
	order   []string
	latency time.Duration
}

// NewMockRepository seeds the demo fixtures. latency is applied to every
// call; zero disables it (tests).
func NewMockRepository(latency time.Duration) *MockRepository {
	r := &MockRepository{byID: make(map[string]*Borrower), latency: latency}
	for _, b := range demoBorrowers() {
		b := b
		r.byID[b.ID] = &b
		r.order = append(r.order, b.ID)
	}
	return r
}

// Pipeline returns the borrowers bucketed by status. New and Renew share
// the first bucket.
func (r *MockRepository) Pipeline(ctx context.Context) (*Pipeline, error) {
	if err := r.sleep(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &Pipeline{New: []Borrower{}, InReview: []Borrower{}, Approved: []Borrower{}}
	for _, id := range r.order {
		b := *r.byID[id]
		switch b.Status {
		case StatusInReview:
			p.InReview = append(p.InReview, b)
		case StatusApproved:
			p.Approved = append(p.Approved, b)
		default:
			p.New = append(p.New, b)
		}
	}
	return p, nil
}

// Get returns one borrower by id.
func (r *MockRepository) Get(ctx context.Context, id string) (*Borrower, error) {
	if err := r.sleep(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	dup := *b
	return &dup, nil
}

// UpdateStatus moves a borrower to a new status.
func (r *MockRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	if err := r.sleep(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	b.Status = status
	return nil
}

func (r *MockRepository) sleep(ctx context.Context) error {
	if r.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(r.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ RepositoryPort = (*MockRepository)(nil)

// demoBorrowers is the fixture set shipped with the demo.
func demoBorrowers() []Borrower {
	return []Borrower{
		{
			ID:            "1",
			Name:          "Sarah Dunn",
			LoanType:      "Home Loan",
			Amount:        300000,
			Status:        StatusRenew,
			Email:         "sarah.dunn@example.com",
			Phone:         "(355)123-4557",
			LoanAmount:    300000,
			Employment:    "At Tech Company",
			Income:        120000,
			ExistingLoan:  240000,
			CreditScore:   720,
			SourceOfFunds: "Declared",
			RiskSignal:    "Missing Source of Funds declaration",
			AIFlags: []string{
				"Income Inconsistent with Bank statements",
				"High Debt-to-Income Ratio detected",
			},
		},
		{
			ID:            "3",
			Name:          "Lisa Carter",
			LoanType:      "Home Loan",
			Amount:        450000,
			Status:        StatusNew,
			Email:         "lisa.carter@example.com",
			Phone:         "(355)987-6543",
			LoanAmount:    450000,
			Employment:    "Self Employed",
			Income:        95000,
			CreditScore:   680,
			SourceOfFunds: "Business Income",
			AIFlags:       []string{"Self Employment Verification Required"},
		},
		{
			ID:            "2",
			Name:          "Alan Matthews",
			LoanType:      "Personal Loan",
			Amount:        20000,
			Status:        StatusInReview,
			Email:         "alan.matthews@example.com",
			Phone:         "(355)456-7890",
			LoanAmount:    20000,
			Employment:    "Full Time Employee",
			Income:        75000,
			CreditScore:   650,
			SourceOfFunds: "Salary",
		},
	}
}
