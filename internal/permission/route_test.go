// AngelaMos | 2026
// route_test.go

package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRoute(t *testing.T) {
	tests := map[string]string{
		"":                "/",
		"/":               "/",
		"obras":           "/obras",
		"/Obras/":         "/obras",
		"/rdo?status=x":   "/rdo",
		"/relatorios#top": "/relatorios",
		"///":             "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeRoute(in), "input %q", in)
	}
}

func TestHasRoutePermission(t *testing.T) {
	tests := []struct {
		route string
		role  string
		want  bool
	}{
		{"/relatorios", "Gerente", true},
		{"/equipes", "Gerente", true},
		{"/configuracoes", "Gerente", false},
		{"/integracoes", "Gerente", false},
		{"/equipes", "Colaborador", false},
		{"/integracoes", "Colaborador", false},
		{"/configuracoes", "Colaborador", false},
		{"/obras", "Colaborador", true},
		{"/obras/42/rdo", "Colaborador", true},
		{"/rdo", "Colaborador", true},
		{"/admin/usuarios", "Administrador", true},
		{"/admin", "Gerente", false},
		{"/does-not-exist", "Administrador", false},
		{"/obras", "Visitante", false},
		{"/", "Colaborador", true},
	}

	for _, tt := range tests {
		t.Run(tt.role+tt.route, func(t *testing.T) {
			assert.Equal(t, tt.want, HasRoutePermission(tt.route, tt.role))
		})
	}
}

func TestAdministrador_AccessesEveryRegisteredRoute(t *testing.T) {
	for route := range routeRoles {
		assert.True(t, RoleCanAccess(RoleAdministrador, route), "route %s", route)
	}
}
