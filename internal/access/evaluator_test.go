package access

import (
	"testing"

	"github.com/brokerdesk/brokerdesk/internal/identity"
)

func broker() *identity.Identity {
	return &identity.Identity{
		ID:          "1",
		Name:        "John Broker",
		Email:       "broker@demo.com",
		Role:        identity.RoleBroker,
		Permissions: []string{"view_borrowers", "edit_borrowers", "request_documents"},
	}
}

func TestHasRole(t *testing.T) {
	if !HasRole(broker(), identity.RoleBroker) {
		t.Fatal("broker should hold broker role")
	}
	if HasRole(broker(), identity.RoleAdmin) {
		t.Fatal("broker should not hold admin role")
	}
	if HasRole(nil, identity.RoleBroker) {
		t.Fatal("nil identity holds no role")
	}
}

func TestHasAnyRole(t *testing.T) {
	cases := []struct {
		name  string
		ident *identity.Identity
		roles []identity.Role
		want  bool
	}{
		{"member", broker(), []identity.Role{identity.RoleBroker, identity.RoleAdmin}, true},
		{"non member", broker(), []identity.Role{identity.RoleAdmin, identity.RoleViewer}, false},
		{"empty set matches nothing", broker(), nil, false},
		{"nil identity", nil, []identity.Role{identity.RoleBroker}, false},
	}
	for _, tc := range cases {
		if got := HasAnyRole(tc.ident, tc.roles); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHasAllRoles(t *testing.T) {
	cases := []struct {
		name  string
		ident *identity.Identity
		roles []identity.Role
		want  bool
	}{
		{"single matching role", broker(), []identity.Role{identity.RoleBroker}, true},
		{"two distinct roles can never both hold", broker(), []identity.Role{identity.RoleBroker, identity.RoleAdmin}, false},
		{"empty set vacuously true", broker(), nil, true},
		{"nil identity fails even the empty set", nil, nil, false},
	}
	for _, tc := range cases {
		if got := HasAllRoles(tc.ident, tc.roles); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHasPermission(t *testing.T) {
	if !HasPermission(broker(), "view_borrowers") {
		t.Fatal("expected view_borrowers")
	}
	if HasPermission(broker(), "approve_loans") {
		t.Fatal("broker must not hold approve_loans")
	}
	if HasPermission(nil, "view_borrowers") {
		t.Fatal("nil identity holds nothing")
	}
}

func TestHasAnyPermission(t *testing.T) {
	if !HasAnyPermission(broker(), []string{"approve_loans", "view_borrowers"}) {
		t.Fatal("expected at least one match")
	}
	if HasAnyPermission(broker(), []string{"approve_loans", "manage_users"}) {
		t.Fatal("no member should match")
	}
	if HasAnyPermission(broker(), nil) {
		t.Fatal("empty set matches nothing")
	}
}

func TestHasAllPermissions(t *testing.T) {
	if !HasAllPermissions(broker(), []string{"view_borrowers", "edit_borrowers"}) {
		t.Fatal("expected both permissions held")
	}
	if HasAllPermissions(broker(), []string{"view_borrowers", "approve_loans"}) {
		t.Fatal("one missing member should fail")
	}
	if !HasAllPermissions(broker(), nil) {
		t.Fatal("empty set is vacuously true")
	}
	if HasAllPermissions(nil, nil) {
		t.Fatal("nil identity fails even the empty set")
	}
}
