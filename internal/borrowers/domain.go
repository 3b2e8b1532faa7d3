package borrowers

// Status tracks a borrower through the pipeline. Renew is a variant of
// the new bucket: renewal applications enter the pipeline alongside
// fresh ones.
type Status string

// Pipeline statuses.
const (
	StatusNew      Status = "New"
	StatusInReview Status = "In Review"
	StatusApproved Status = "Approved"
	StatusRenew    Status = "Renew"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInReview, StatusApproved, StatusRenew:
		return true
	}
	return false
}

// Borrower is one loan applicant. The summary fields (name, loan type,
// amount, status) feed the pipeline cards; the rest feeds the detail
// panel and may be absent.
type Borrower struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	LoanType      string   `json:"loan_type"`
	Amount        int64    `json:"amount"`
	Status        Status   `json:"status"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	LoanAmount    int64    `json:"loan_amount,omitempty"`
	Employment    string   `json:"employment,omitempty"`
	Income        int64    `json:"income,omitempty"`
	ExistingLoan  int64    `json:"existing_loan,omitempty"`
	CreditScore   int      `json:"credit_score,omitempty"`
	SourceOfFunds string   `json:"source_of_funds,omitempty"`
	RiskSignal    string   `json:"risk_signal,omitempty"`
	AIFlags       []string `json:"ai_flags,omitempty"`
}

// Pipeline groups borrowers into the three dashboard buckets.
type Pipeline struct {
	New      []Borrower `json:"new"`
	InReview []Borrower `json:"in_review"`
	Approved []Borrower `json:"approved"`
}

// All flattens the buckets in display order.
func (p *Pipeline) All() []Borrower {
	out := make([]Borrower, 0, len(p.New)+len(p.InReview)+len(p.Approved))
	out = append(out, p.New...)
	out = append(out, p.InReview...)
	out = append(out, p.Approved...)
	return out
}

// ActionResult reports the outcome of a borrower workflow action.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Action identifies a borrower workflow action, used for notification
// task routing.
type Action string

// Workflow actions.
const (
	ActionRequestDocuments Action = "request_documents"
	ActionSendToValuer     Action = "send_valuer"
	ActionApprove          Action = "approve"
	ActionEscalate         Action = "escalate"
)
