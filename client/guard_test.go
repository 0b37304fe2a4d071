package client

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lord-einar/megasys/internal/permissions"
)

func guardWith(session Session) *Guard {
	store := NewSessionStore()
	store.set(session)
	return NewGuard(store)
}

func sessionFor(role permissions.Role) Session {
	user := testUser()
	user.Role = role
	return Session{User: user, Token: "tok"}
}

func TestGuardDecide(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		route   Route
		want    Decision
	}{
		{
			"defers while session resolves",
			Session{Loading: true},
			Route{Name: "inventario", Resource: permissions.ResourceInventario, Action: permissions.ActionRead},
			DecisionLoading,
		},
		{
			"public route while logged out",
			Session{},
			Route{Name: "login", Public: true},
			DecisionAllow,
		},
		{
			"private route while logged out",
			Session{},
			Route{Name: "sedes", Resource: permissions.ResourceSedes, Action: permissions.ActionRead},
			DecisionRedirectLogin,
		},
		{
			"token without user is not authenticated",
			Session{Token: "tok"},
			Route{Name: "sedes", Resource: permissions.ResourceSedes, Action: permissions.ActionRead},
			DecisionRedirectLogin,
		},
		{
			"helpdesk can read sedes",
			sessionFor(permissions.RoleHelpdesk),
			Route{Name: "sedes", Resource: permissions.ResourceSedes, Action: permissions.ActionRead},
			DecisionAllow,
		},
		{
			"helpdesk cannot delete sedes",
			sessionFor(permissions.RoleHelpdesk),
			Route{Name: "sedes-delete", Resource: permissions.ResourceSedes, Action: permissions.ActionDelete},
			DecisionDenied,
		},
		{
			"role-gated route rejects other roles",
			sessionFor(permissions.RoleSupport),
			Route{Name: "admin", RequiredRole: permissions.RoleSuperAdmin},
			DecisionDenied,
		},
		{
			"role-gated route admits super admin",
			sessionFor(permissions.RoleSuperAdmin),
			Route{Name: "admin", RequiredRole: permissions.RoleSuperAdmin},
			DecisionAllow,
		},
		{
			"route with no requirements only needs authentication",
			sessionFor(permissions.RoleUser),
			Route{Name: "home"},
			DecisionAllow,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, guardWith(tc.session).Decide(tc.route))
		})
	}
}

func TestGuardSuperAdminBypassesCapabilityTable(t *testing.T) {
	guard := guardWith(sessionFor(permissions.RoleSuperAdmin))

	assert.Equal(t, DecisionAllow, guard.Decide(Route{
		Name:     "usuarios",
		Resource: permissions.ResourceUsuarios,
		Action:   permissions.ActionUpdate,
	}))
	// Even a pair the table never defines.
	assert.Equal(t, DecisionAllow, guard.Decide(Route{
		Name:     "experimental",
		Resource: "reportes",
		Action:   "export",
	}))
}

func TestGuardDeniesUnknownPairs(t *testing.T) {
	guard := guardWith(sessionFor(permissions.RoleHelpdesk))

	assert.Equal(t, DecisionDenied, guard.Decide(Route{
		Name:     "experimental",
		Resource: "reportes",
		Action:   "export",
	}))
}
