package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// DefaultPolicies grants employees their own timesheets and reports.
// Admins inherit every employee permission.
var DefaultPolicies = [][]string{
	{RoleEmployee, "timesheet", "read"},
	{RoleEmployee, "timesheet", "write"},
	{RoleEmployee, "report", "read"},
	{RoleAdmin, "timesheet", "read_all"},
	{RoleAdmin, "report", "read_all"},
	{RoleAdmin, "user", "manage"},
}

var DefaultGroupings = [][]string{
	{RoleAdmin, RoleEmployee},
}

// ValidRole reports whether role is one of the built in roles.
func ValidRole(role string) bool {
	return role == RoleEmployee || role == RoleAdmin
}

// NewEnforcer builds an in-memory enforcer loaded with the default policies.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	if _, err := e.AddPolicies(DefaultPolicies); err != nil {
		return nil, err
	}
	if _, err := e.AddGroupingPolicies(DefaultGroupings); err != nil {
		return nil, err
	}
	return e, nil
}
