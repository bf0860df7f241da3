package authz

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ats/internal/domain"
)

func TestPermissionTable(t *testing.T) {
	gate, err := NewGate()
	require.NoError(t, err)

	tests := []struct {
		role    string
		entity  string
		action  string
		allowed bool
	}{
		{domain.RoleAdmin, "users", ActionRead, true},
		{domain.RoleHR, "users", ActionRead, false},
		{domain.RoleBoss, "users", ActionCreate, false},

		{domain.RoleAdmin, "settings", ActionUpdate, true},
		{domain.RoleHR, "settings", ActionRead, false},

		{domain.RoleTeamLead, "assignments", ActionRead, true},
		{domain.RoleBoss, "assignments", ActionRead, true},
		{domain.RoleHR, "assignments", ActionUpdate, false},
		{domain.RoleTeamLead, "assignments", ActionDelete, false},
		{domain.RoleAdmin, "assignments", ActionDelete, true},

		{domain.RoleHR, "applicants", ActionCreate, true},
		{domain.RoleBoss, "applicants", ActionCreate, false},
		{domain.RoleBoss, "applicants", ActionUpdate, true},
		{domain.RoleTeamLead, "applicants", ActionUpdate, false},
		{domain.RoleHR, "applicants", ActionDelete, false},
		{domain.RoleAdmin, "applicants", ActionDelete, true},

		{domain.RoleTeamLead, "manpowerRequests", ActionCreate, true},
		{domain.RoleAdmin, "manpowerRequests", ActionCreate, false},
		{domain.RoleHR, "manpowerRequests", ActionUpdate, true},
		{domain.RoleBoss, "manpowerRequests", ActionRead, false},
		{domain.RoleTeamLead, "manpowerRequests", ActionUpdate, false},
	}

	for _, tc := range tests {
		got := gate.Allowed(tc.role, tc.entity, tc.action)
		assert.Equal(t, tc.allowed, got, "%s %s %s", tc.role, tc.entity, tc.action)
	}
}

func TestCanWriteMapsMethods(t *testing.T) {
	gate, err := NewGate()
	require.NoError(t, err)

	hr := domain.Actor{Role: domain.RoleHR}
	assert.True(t, gate.CanWrite("applicants", hr, http.MethodPost))
	assert.True(t, gate.CanWrite("applicants", hr, http.MethodPut))
	assert.False(t, gate.CanWrite("applicants", hr, http.MethodDelete))
	assert.False(t, gate.CanWrite("applicants", hr, http.MethodGet), "unknown action is denied")
}

func TestCanReadUnknownRole(t *testing.T) {
	gate, err := NewGate()
	require.NoError(t, err)

	assert.False(t, gate.CanRead("applicants", domain.Actor{Role: "intern"}))
	assert.False(t, gate.Allowed(domain.RoleAdmin, "payroll", ActionRead), "unknown entity is denied")
}
