// AngelaMos | 2026
// action_test.go

package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionNames_Complete(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range Actions() {
		name := a.String()
		require.NotEmpty(t, name, "action %d has no name", a)
		require.False(t, seen[name], "duplicate action name %q", name)
		seen[name] = true

		parsed, ok := ParseAction(name)
		require.True(t, ok)
		assert.Equal(t, a, parsed)
	}
}

func TestParseAction_Unknown(t *testing.T) {
	_, ok := ParseAction("obras.teleport")
	assert.False(t, ok)
	assert.Equal(t, "unknown", actionCount.String())
}

func TestEveryKnownRoleHasARow(t *testing.T) {
	for _, r := range Roles() {
		assert.True(t, r.Valid(), "role %s", r)
	}
}

func TestAdministrador_AllowsEveryAction(t *testing.T) {
	for _, a := range Actions() {
		assert.True(t, RoleCan(RoleAdministrador, a), "action %s", a)
		assert.True(t, HasActionPermission(a.String(), "Administrador"))
	}
}

func TestColaborador_DeniedManagementTier(t *testing.T) {
	denied := []Action{
		ActionEquipesView,
		ActionEquipesManage,
		ActionIntegracoesManage,
		ActionConfiguracoesManage,
		ActionUsuariosManage,
		ActionSistemaBackup,
		ActionSistemaLogs,
		ActionObrasCreate,
		ActionObrasDelete,
		ActionRDOApprove,
	}
	for _, a := range denied {
		assert.False(t, RoleCan(RoleColaborador, a), "action %s", a)
	}

	assert.True(t, RoleCan(RoleColaborador, ActionRDOCreate))
	assert.True(t, RoleCan(RoleColaborador, ActionObrasView))
}

func TestGerente(t *testing.T) {
	assert.False(t, HasActionPermission("sistema.backup", "Gerente"))
	assert.False(t, HasActionPermission("configuracoes.manage", "Gerente"))
	assert.True(t, HasActionPermission("rdo.approve", "Gerente"))
	assert.True(t, HasActionPermission("equipes.manage", "Gerente"))
	assert.True(t, HasActionPermission("obras.delete", "gerente"))
}

func TestHasActionPermission_UnknownInputs(t *testing.T) {
	for _, a := range Actions() {
		assert.False(t, HasActionPermission(a.String(), "Visitante"))
		assert.False(t, HasActionPermission(a.String(), ""))
	}
	assert.False(t, HasActionPermission("nope", "Administrador"))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" administrador ")
	require.True(t, ok)
	assert.Equal(t, RoleAdministrador, r)

	_, ok = ParseRole("Admin")
	assert.False(t, ok)
}
