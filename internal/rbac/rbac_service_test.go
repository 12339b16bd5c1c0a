package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	e, err := NewEnforcer()
	require.NoError(t, err)
	return NewService(e)
}

func TestRBACService_Enforce(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		role, resource, action string
		want                   bool
	}{
		{RoleEmployee, "timesheet", "read", true},
		{RoleEmployee, "timesheet", "write", true},
		{RoleEmployee, "report", "read", true},
		{RoleEmployee, "timesheet", "read_all", false},
		{RoleEmployee, "report", "read_all", false},
		{RoleEmployee, "user", "manage", false},
		{RoleAdmin, "timesheet", "write", true},
		{RoleAdmin, "timesheet", "read_all", true},
		{RoleAdmin, "report", "read_all", true},
		{RoleAdmin, "user", "manage", true},
		{"GUEST", "timesheet", "read", false},
	}
	for _, tc := range cases {
		t.Run(tc.role+" "+tc.resource+":"+tc.action, func(t *testing.T) {
			allowed, err := svc.Enforce(EnforceRequest{
				Role:     tc.role,
				Resource: tc.resource,
				Action:   tc.action,
			})
			assert.NoError(t, err)
			assert.Equal(t, tc.want, allowed)
		})
	}
}

func TestRBACService_Permissions(t *testing.T) {
	svc := newTestService(t)

	perms, err := svc.Permissions(RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, []string{"report:read", "timesheet:read", "timesheet:write"}, perms)

	perms, err = svc.Permissions(RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"report:read", "report:read_all",
		"timesheet:read", "timesheet:read_all", "timesheet:write",
		"user:manage",
	}, perms)

	perms, err = svc.Permissions("GUEST")
	require.NoError(t, err)
	assert.Empty(t, perms)
}
