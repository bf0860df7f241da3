// Package authz is the role-based permission gate. The entity/role/
// action table is loaded once as a static casbin policy; row-level
// team-lead scoping is applied by the owning services on top of it.
package authz

import (
	"net/http"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"

	"go-ats/internal/domain"
)

// Actions understood by the gate. HTTP write methods map onto them.
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// policies is the full permission table. Changing a line here changes
// who may touch what, so keep it in sync with the row-scoping rules in
// the assignment and manpower services.
var policies = [][]string{
	// users: admin only
	{domain.RoleAdmin, "users", ActionRead},
	{domain.RoleAdmin, "users", ActionCreate},
	{domain.RoleAdmin, "users", ActionUpdate},
	{domain.RoleAdmin, "users", ActionDelete},

	// settings: admin only
	{domain.RoleAdmin, "settings", ActionRead},
	{domain.RoleAdmin, "settings", ActionUpdate},

	// assignments: broad read, admin-only write; team leads see only
	// their own rows (enforced in the assignment service)
	{domain.RoleAdmin, "assignments", ActionRead},
	{domain.RoleHR, "assignments", ActionRead},
	{domain.RoleBoss, "assignments", ActionRead},
	{domain.RoleTeamLead, "assignments", ActionRead},
	{domain.RoleAdmin, "assignments", ActionCreate},
	{domain.RoleAdmin, "assignments", ActionUpdate},
	{domain.RoleAdmin, "assignments", ActionDelete},

	// applicants
	{domain.RoleAdmin, "applicants", ActionRead},
	{domain.RoleHR, "applicants", ActionRead},
	{domain.RoleBoss, "applicants", ActionRead},
	{domain.RoleTeamLead, "applicants", ActionRead},
	{domain.RoleAdmin, "applicants", ActionCreate},
	{domain.RoleHR, "applicants", ActionCreate},
	{domain.RoleAdmin, "applicants", ActionUpdate},
	{domain.RoleHR, "applicants", ActionUpdate},
	{domain.RoleBoss, "applicants", ActionUpdate},
	{domain.RoleAdmin, "applicants", ActionDelete},

	// manpowerRequests: team leads file them, admin/hr decide, team
	// leads see only their own rows (enforced in the manpower service)
	{domain.RoleAdmin, "manpowerRequests", ActionRead},
	{domain.RoleHR, "manpowerRequests", ActionRead},
	{domain.RoleTeamLead, "manpowerRequests", ActionRead},
	{domain.RoleTeamLead, "manpowerRequests", ActionCreate},
	{domain.RoleAdmin, "manpowerRequests", ActionUpdate},
	{domain.RoleHR, "manpowerRequests", ActionUpdate},
	{domain.RoleAdmin, "manpowerRequests", ActionDelete},
	{domain.RoleHR, "manpowerRequests", ActionDelete},
}

// Gate evaluates entity-level permissions.
type Gate struct {
	enforcer *casbin.Enforcer
}

// NewGate builds the enforcer from the embedded model and the static
// policy table.
func NewGate() (*Gate, error) {
	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, err
	}
	return &Gate{enforcer: e}, nil
}

// Allowed reports whether role may perform action on entity.
func (g *Gate) Allowed(role, entity, action string) bool {
	ok, err := g.enforcer.Enforce(role, entity, action)
	if err != nil {
		return false
	}
	return ok
}

// CanRead reports whether the user may list or fetch the entity.
func (g *Gate) CanRead(entity string, user domain.Actor) bool {
	return g.Allowed(user.Role, entity, ActionRead)
}

// CanWrite reports whether the user may mutate the entity with the
// given HTTP method.
func (g *Gate) CanWrite(entity string, user domain.Actor, method string) bool {
	return g.Allowed(user.Role, entity, actionForMethod(method))
}

func actionForMethod(method string) string {
	switch method {
	case http.MethodPost:
		return ActionCreate
	case http.MethodPut:
		return ActionUpdate
	case http.MethodDelete:
		return ActionDelete
	default:
		return ""
	}
}
