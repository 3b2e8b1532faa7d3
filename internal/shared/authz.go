package shared

// Permission tokens granted to demo identities. The strings are part of
// the persisted session record format and must stay stable.
const (
	PermViewBorrowers       = "view_borrowers"
	PermEditBorrowers       = "edit_borrowers"
	PermRequestDocuments    = "request_documents"
	PermSendToValuer        = "send_to_valuer"
	PermApproveLoans        = "approve_loans"
	PermEscalateToCommittee = "escalate_to_committee"
	PermViewBrokerStats     = "view_broker_stats"
	PermManageUsers         = "manage_users"
	PermViewAnalytics       = "view_analytics"
)

// AllPermissions lists every permission token the platform knows about.
func AllPermissions() []string {
	return []string{
		PermViewBorrowers,
		PermEditBorrowers,
		PermRequestDocuments,
		PermSendToValuer,
		PermApproveLoans,
		PermEscalateToCommittee,
		PermViewBrokerStats,
		PermManageUsers,
		PermViewAnalytics,
	}
}
