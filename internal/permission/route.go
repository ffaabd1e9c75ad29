// AngelaMos | 2026
// route.go

package permission

import (
	"strings"
)

var (
	everyone   = []Role{RoleAdministrador, RoleGerente, RoleColaborador}
	management = []Role{RoleAdministrador, RoleGerente}
	adminOnly  = []Role{RoleAdministrador}
)

var routeRoles = map[string][]Role{
	"/":              everyone,
	"/dashboard":     everyone,
	"/obras":         everyone,
	"/rdo":           everyone,
	"/atividades":    everyone,
	"/equipamentos":  everyone,
	"/documentos":    everyone,
	"/checklist":     everyone,
	"/feedback":      everyone,
	"/perfil":        everyone,
	"/relatorios":    management,
	"/equipes":       management,
	"/fornecedores":  management,
	"/usuarios":      adminOnly,
	"/integracoes":   adminOnly,
	"/configuracoes": adminOnly,
	"/admin":         adminOnly,
}

// NormalizeRoute lowercases route, strips any query string and trailing
// slash, and guarantees a leading slash.
func NormalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	route = strings.ToLower(route)
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
		if route == "" {
			route = "/"
		}
	}
	return route
}

// matchRoute resolves route to the registered route that governs it. Nested
// paths inherit from their closest registered ancestor; "/" only matches
// itself.
func matchRoute(route string) (string, bool) {
	route = NormalizeRoute(route)
	for {
		if _, ok := routeRoles[route]; ok {
			return route, true
		}
		i := strings.LastIndex(route, "/")
		if i <= 0 {
			return "", false
		}
		route = route[:i]
	}
}

func RoleCanAccess(role Role, route string) bool {
	matched, ok := matchRoute(route)
	if !ok {
		return false
	}
	for _, allowed := range routeRoles[matched] {
		if allowed == role {
			return true
		}
	}
	return false
}

// HasRoutePermission is the string form of RoleCanAccess.
func HasRoutePermission(route, role string) bool {
	r, ok := ParseRole(role)
	if !ok {
		return false
	}
	return RoleCanAccess(r, route)
}
