// AngelaMos | 2026
// action.go

package permission

type Action uint8

const (
	ActionObrasView Action = iota
	ActionObrasCreate
	ActionObrasEdit
	ActionObrasDelete
	ActionRDOView
	ActionRDOCreate
	ActionRDOEdit
	ActionRDODelete
	ActionRDOApprove
	ActionEquipesView
	ActionEquipesManage
	ActionEquipamentosView
	ActionEquipamentosManage
	ActionFornecedoresManage
	ActionDocumentosManage
	ActionUsuariosManage
	ActionRelatoriosView
	ActionRelatoriosExport
	ActionIntegracoesManage
	ActionConfiguracoesManage
	ActionSistemaLogs
	ActionSistemaBackup

	actionCount
)

var actionNames = [actionCount]string{
	ActionObrasView:           "obras.view",
	ActionObrasCreate:         "obras.create",
	ActionObrasEdit:           "obras.edit",
	ActionObrasDelete:         "obras.delete",
	ActionRDOView:             "rdo.view",
	ActionRDOCreate:           "rdo.create",
	ActionRDOEdit:             "rdo.edit",
	ActionRDODelete:           "rdo.delete",
	ActionRDOApprove:          "rdo.approve",
	ActionEquipesView:         "equipes.view",
	ActionEquipesManage:       "equipes.manage",
	ActionEquipamentosView:    "equipamentos.view",
	ActionEquipamentosManage:  "equipamentos.manage",
	ActionFornecedoresManage:  "fornecedores.manage",
	ActionDocumentosManage:    "documentos.manage",
	ActionUsuariosManage:      "usuarios.manage",
	ActionRelatoriosView:      "relatorios.view",
	ActionRelatoriosExport:    "relatorios.export",
	ActionIntegracoesManage:   "integracoes.manage",
	ActionConfiguracoesManage: "configuracoes.manage",
	ActionSistemaLogs:         "sistema.logs",
	ActionSistemaBackup:       "sistema.backup",
}

var actionsByName = func() map[string]Action {
	m := make(map[string]Action, actionCount)
	for a := Action(0); a < actionCount; a++ {
		m[actionNames[a]] = a
	}
	return m
}()

func ParseAction(name string) (Action, bool) {
	a, ok := actionsByName[name]
	return a, ok
}

func (a Action) Valid() bool {
	return a < actionCount
}

func (a Action) String() string {
	if !a.Valid() {
		return "unknown"
	}
	return actionNames[a]
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func Actions() []Action {
	out := make([]Action, 0, actionCount)
	for a := Action(0); a < actionCount; a++ {
		out = append(out, a)
	}
	return out
}

// actionSet is indexed by Action, so every role row covers every action.
type actionSet [actionCount]bool

func grant(actions ...Action) actionSet {
	var s actionSet
	for _, a := range actions {
		s[a] = true
	}
	return s
}

func grantAll() actionSet {
	var s actionSet
	for i := range s {
		s[i] = true
	}
	return s
}

func grantAllExcept(denied ...Action) actionSet {
	s := grantAll()
	for _, a := range denied {
		s[a] = false
	}
	return s
}

var roleActions = map[Role]actionSet{
	RoleAdministrador: grantAll(),
	RoleGerente: grantAllExcept(
		ActionUsuariosManage,
		ActionIntegracoesManage,
		ActionConfiguracoesManage,
		ActionSistemaLogs,
		ActionSistemaBackup,
	),
	RoleColaborador: grant(
		ActionObrasView,
		ActionRDOView,
		ActionRDOCreate,
		ActionRDOEdit,
		ActionEquipamentosView,
	),
}

// RoleCan reports whether role grants a. Unknown roles grant nothing.
func RoleCan(role Role, a Action) bool {
	set, ok := roleActions[role]
	if !ok || !a.Valid() {
		return false
	}
	return set[a]
}

// HasActionPermission is the string form of RoleCan.
func HasActionPermission(action, role string) bool {
	a, ok := ParseAction(action)
	if !ok {
		return false
	}
	r, ok := ParseRole(role)
	if !ok {
		return false
	}
	return RoleCan(r, a)
}
