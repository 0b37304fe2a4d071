package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lord-einar/megasys/internal/permissions"
)

func TestAnalyzeGroups(t *testing.T) {
	tests := []struct {
		name      string
		groups    []string
		wantRole  permissions.Role
		matched   []string
		unmatched []string
	}{
		{
			name:     "admin group wins",
			groups:   []string{"MEGASYS-HELPDESK", "MEGASYS-ADMINS"},
			wantRole: permissions.RoleSuperAdmin,
			matched:  []string{"MEGASYS-ADMINS", "MEGASYS-HELPDESK"},
		},
		{
			name:     "helpdesk over soporte",
			groups:   []string{"MEGASYS-SOPORTE", "MEGASYS-HELPDESK"},
			wantRole: permissions.RoleHelpdesk,
			matched:  []string{"MEGASYS-HELPDESK", "MEGASYS-SOPORTE"},
		},
		{
			name:     "case insensitive match",
			groups:   []string{"megasys-soporte"},
			wantRole: permissions.RoleSupport,
			matched:  []string{"MEGASYS-SOPORTE"},
		},
		{
			name:      "no recognised groups defaults to user",
			groups:    []string{"TODOS", "VPN-USERS"},
			wantRole:  permissions.RoleUser,
			unmatched: []string{"TODOS", "VPN-USERS"},
		},
		{
			name:     "empty membership",
			groups:   nil,
			wantRole: permissions.RoleUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := AnalyzeGroups(tt.groups)
			assert.Equal(t, tt.wantRole, analysis.AssignedRole)
			assert.Equal(t, tt.matched, analysis.MatchedGroups)
			assert.Equal(t, tt.unmatched, analysis.Unmatched)
		})
	}
}
