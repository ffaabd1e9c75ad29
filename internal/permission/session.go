// AngelaMos | 2026
// session.go

package permission

import (
	"github.com/metaconstrutor/api/internal/plan"
)

// Session is the authenticated caller as seen by permission checks. It is
// built once per request and handed to services explicitly.
type Session struct {
	UserID         string
	OrganizationID string
	Roles          []Role
	Plan           plan.ID
}

// NewSession canonicalises role names and the plan id. Unknown role names
// are kept as-is so they resolve to no permissions rather than being
// promoted to the default role.
func NewSession(userID, organizationID string, roles []string, planID string) Session {
	parsed := make([]Role, 0, len(roles))
	for _, name := range roles {
		if r, ok := ParseRole(name); ok {
			parsed = append(parsed, r)
			continue
		}
		parsed = append(parsed, Role(name))
	}

	p, ok := plan.Parse(planID)
	if !ok {
		p = plan.Free
	}

	return Session{
		UserID:         userID,
		OrganizationID: organizationID,
		Roles:          parsed,
		Plan:           p,
	}
}

func (s Session) EffectiveRoles() []Role {
	if len(s.Roles) == 0 {
		return []Role{LeastPrivileged}
	}
	return s.Roles
}

func (s Session) HasRole(role Role) bool {
	for _, r := range s.EffectiveRoles() {
		if r == role {
			return true
		}
	}
	return false
}

func (s Session) IsAdmin() bool {
	return s.HasRole(RoleAdministrador)
}

// Can reports whether any of the session's roles grants a.
func (s Session) Can(a Action) bool {
	for _, r := range s.EffectiveRoles() {
		if RoleCan(r, a) {
			return true
		}
	}
	return false
}

func (s Session) CanAccess(route string) bool {
	for _, r := range s.EffectiveRoles() {
		if RoleCanAccess(r, route) {
			return true
		}
	}
	return false
}

func (s Session) Limits() plan.Limits {
	return plan.GetLimits(string(s.Plan))
}

func (s Session) RoleNames() []string {
	roles := s.EffectiveRoles()
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

// Actions lists every action the session is granted.
func (s Session) Actions() []Action {
	var out []Action
	for _, a := range Actions() {
		if s.Can(a) {
			out = append(out, a)
		}
	}
	return out
}
