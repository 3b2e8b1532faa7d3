package identity

// Role is the coarse access category of an identity. Every identity
// holds exactly one role.
type Role string

// Known roles.
const (
	RoleBroker Role = "broker"
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleBroker, RoleAdmin, RoleViewer:
		return true
	}
	return false
}

// Identity represents one demo user. Role and permission set are fixed
// at directory definition time and never change for the lifetime of a
// session. The JSON shape doubles as the persisted session record.
type Identity struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
}

// Clone returns a deep copy so callers cannot mutate directory state.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	dup := *i
	dup.Permissions = append([]string(nil), i.Permissions...)
	return &dup
}
