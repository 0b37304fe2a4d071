package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lord-einar/megasys/internal/permissions"
)

func TestNormalizeUserUnwrapsEnvelopes(t *testing.T) {
	bare := map[string]any{
		"id":    "usr_9",
		"email": "Leo@Megasys.Test",
		"role":  "support",
	}

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"bare", bare},
		{"user wrapper", map[string]any{"user": bare}},
		{"data wrapper", map[string]any{"data": bare}},
		{"data.user wrapper", map[string]any{"data": map[string]any{"user": bare}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user, err := NormalizeUser(tc.payload)
			require.NoError(t, err)
			assert.Equal(t, "usr_9", user.ID)
			assert.Equal(t, "leo@megasys.test", user.Email)
			assert.Equal(t, permissions.RoleSupport, user.Role)
		})
	}
}

func TestNormalizeUserFullNameFallback(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{
			"explicit fullName wins",
			map[string]any{"id": "u1", "fullName": "Ana Maria Ruiz", "firstName": "Ana", "lastName": "Ruiz"},
			"Ana Maria Ruiz",
		},
		{
			"first and last joined",
			map[string]any{"id": "u1", "firstName": "Ana", "lastName": "Ruiz"},
			"Ana Ruiz",
		},
		{
			"email as last resort",
			map[string]any{"id": "u1", "email": "ana@megasys.test"},
			"ana@megasys.test",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user, err := NormalizeUser(tc.payload)
			require.NoError(t, err)
			assert.Equal(t, tc.want, user.FullName)
		})
	}
}

func TestNormalizeUserRejectsEmptyPayloads(t *testing.T) {
	for _, payload := range []map[string]any{
		{},
		{"data": map[string]any{}},
		{"user": map[string]any{"firstName": "Ana"}},
	} {
		_, err := NormalizeUser(payload)
		assert.Error(t, err)
	}
}

func TestNormalizeUserKeepsPermissionsAndGroups(t *testing.T) {
	user, err := NormalizeUser(map[string]any{
		"id":     "u1",
		"email":  "ana@megasys.test",
		"role":   "helpdesk",
		"groups": []any{"MEGASYS-HELPDESK", "VPN-USERS"},
		"permissions": map[string]any{
			"sedes": map[string]any{"read": true, "delete": false},
		},
		"groupAnalysis": map[string]any{
			"matchedGroups": []any{"MEGASYS-HELPDESK"},
			"assignedRole":  "helpdesk",
			"unmatched":     []any{"VPN-USERS"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"MEGASYS-HELPDESK", "VPN-USERS"}, user.Groups)
	assert.True(t, user.Permissions["sedes"]["read"])
	assert.False(t, user.Permissions["sedes"]["delete"])
	assert.Equal(t, permissions.RoleHelpdesk, user.GroupAnalysis.AssignedRole)
	assert.Equal(t, []string{"VPN-USERS"}, user.GroupAnalysis.Unmatched)
}
