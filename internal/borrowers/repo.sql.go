package borrowers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brokerdesk/brokerdesk/internal/platform/db"
	"github.com/brokerdesk/brokerdesk/internal/shared"
)

// PGRepository implements RepositoryPort against PostgreSQL, for
// deployments that load the demo schema instead of the in-process mock.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a PostgreSQL repository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const borrowerColumns = `id, name, loan_type, amount, status,
	COALESCE(email, ''), COALESCE(phone, ''), COALESCE(loan_amount, 0),
	COALESCE(employment, ''), COALESCE(income, 0), COALESCE(existing_loan, 0),
	COALESCE(credit_score, 0), COALESCE(source_of_funds, ''),
	COALESCE(risk_signal, ''), COALESCE(ai_flags, '{}')`

// Pipeline returns all borrowers bucketed by status.
func (r *PGRepository) Pipeline(ctx context.Context) (*Pipeline, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+borrowerColumns+` FROM borrowers ORDER BY amount DESC, id`)
	if err != nil {
		return nil, wrapPGError("list borrowers", err)
	}
	defer rows.Close()

	p := &Pipeline{New: []Borrower{}, InReview: []Borrower{}, Approved: []Borrower{}}
	for rows.Next() {
		b, err := scanBorrower(rows)
		if err != nil {
			return nil, err
		}
		switch b.Status {
		case StatusInReview:
			p.InReview = append(p.InReview, b)
		case StatusApproved:
			p.Approved = append(p.Approved, b)
		default:
			p.New = append(p.New, b)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPGError("list borrowers", err)
	}
	return p, nil
}

// Get fetches one borrower by id.
func (r *PGRepository) Get(ctx context.Context, id string) (*Borrower, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+borrowerColumns+` FROM borrowers WHERE id = $1`, id)
	b, err := scanBorrower(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, wrapPGError("get borrower", err)
	}
	return &b, nil
}

// UpdateStatus moves a borrower to a new status. The read and the write
// share one transaction so a concurrent move cannot interleave.
func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var current string
		if err := tx.QueryRow(ctx, `SELECT status FROM borrowers WHERE id = $1 FOR UPDATE`, id).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return wrapPGError("lock borrower", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE borrowers SET status = $2, updated_at = now() WHERE id = $1`, id, string(status)); err != nil {
			return wrapPGError("update borrower status", err)
		}
		return nil
	})
}

func scanBorrower(row pgx.Row) (Borrower, error) {
	var b Borrower
	var status string
	err := row.Scan(&b.ID, &b.Name, &b.LoanType, &b.Amount, &status,
		&b.Email, &b.Phone, &b.LoanAmount, &b.Employment, &b.Income,
		&b.ExistingLoan, &b.CreditScore, &b.SourceOfFunds, &b.RiskSignal,
		&b.AIFlags)
	if err != nil {
		return Borrower{}, err
	}
	b.Status = Status(status)
	return b, nil
}

// wrapPGError keeps the SQLSTATE in the message for log triage without
// leaking driver types upward.
func wrapPGError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %s (%s)", op, pgErr.Message, pgErr.Code)
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ RepositoryPort = (*PGRepository)(nil)
