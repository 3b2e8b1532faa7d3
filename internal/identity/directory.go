package identity

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/brokerdesk/brokerdesk/internal/shared"
)

// DemoPassword is the shared password for every directory account.
const DemoPassword = "demo123"

// entry pairs an identity with its credential hash. The hash never
// leaves the directory; persisted session records carry only the
// identity.
type entry struct {
	identity Identity
	hash     []byte
}

// Directory is the fixed set of demo accounts. Identities are defined
// statically and are not created or destroyed at runtime.
type Directory struct {
	entries map[string]entry
	order   []string
}

// NewDemoDirectory builds the three-account demo directory.
func NewDemoDirectory() *Directory {
	// MinCost keeps startup fast; these are demo credentials, not real ones.
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		panic("identity: hash demo password: " + err.Error())
	}
	d := &Directory{entries: make(map[string]entry)}
	for _, ident := range []Identity{
		{
			ID:    "1",
			Name:  "John Broker",
			Email: "broker@demo.com",
			Role:  RoleBroker,
			Permissions: []string{
				shared.PermViewBorrowers,
				shared.PermEditBorrowers,
				shared.PermRequestDocuments,
				shared.PermSendToValuer,
				shared.PermViewBrokerStats,
			},
		},
		{
			ID:    "2",
			Name:  "Admin User",
			Email: "admin@demo.com",
			Role:  RoleAdmin,
			Permissions: []string{
				shared.PermViewBorrowers,
				shared.PermEditBorrowers,
				shared.PermRequestDocuments,
				shared.PermSendToValuer,
				shared.PermApproveLoans,
				shared.PermEscalateToCommittee,
				shared.PermViewBrokerStats,
				shared.PermManageUsers,
				shared.PermViewAnalytics,
			},
		},
		{
			ID:    "3",
			Name:  "Viewer User",
			Email: "viewer@demo.com",
			Role:  RoleViewer,
			Permissions: []string{
				shared.PermViewBorrowers,
				shared.PermViewBrokerStats,
			},
		},
	} {
		d.entries[ident.Email] = entry{identity: ident, hash: hash}
		d.order = append(d.order, ident.Email)
	}
	return d
}

// FindByEmail returns the identity registered under email, or nil. The
// lookup key is case-insensitive; the stored email keeps its canonical
// form.
func (d *Directory) FindByEmail(email string) *Identity {
	e, ok := d.entries[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil
	}
	return e.identity.Clone()
}

// VerifyPassword checks the candidate password for the given email.
// It reports false for unknown emails after burning a hash comparison so
// the two failure modes stay indistinguishable to callers and clocks.
func (d *Directory) VerifyPassword(email, password string) bool {
	e, ok := d.entries[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword(e.hash, []byte(password)) == nil
}

// All returns every identity in definition order.
func (d *Directory) All() []Identity {
	out := make([]Identity, 0, len(d.order))
	for _, email := range d.order {
		e := d.entries[email]
		out = append(out, *e.identity.Clone())
	}
	return out
}

var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("brokerdesk-dummy"), bcrypt.MinCost)
	if err != nil {
		panic("identity: hash dummy password: " + err.Error())
	}
	return h
}()
