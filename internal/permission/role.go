// AngelaMos | 2026
// role.go

package permission

import (
	"strings"
)

type Role string

const (
	RoleAdministrador Role = "Administrador"
	RoleGerente       Role = "Gerente"
	RoleColaborador   Role = "Colaborador"
)

// LeastPrivileged is assumed for sessions that carry no role at all.
const LeastPrivileged = RoleColaborador

var knownRoles = []Role{RoleAdministrador, RoleGerente, RoleColaborador}

// ParseRole matches name against the known roles ignoring case.
func ParseRole(name string) (Role, bool) {
	name = strings.TrimSpace(name)
	for _, r := range knownRoles {
		if strings.EqualFold(name, string(r)) {
			return r, true
		}
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := roleActions[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

func Roles() []Role {
	out := make([]Role, len(knownRoles))
	copy(out, knownRoles)
	return out
}
