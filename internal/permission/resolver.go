// AngelaMos | 2026
// resolver.go

package permission

import (
	"fmt"

	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/plan"
)

type Kind string

const (
	KindObras        Kind = "obras"
	KindRDOs         Kind = "rdos"
	KindEquipes      Kind = "equipes"
	KindEquipamentos Kind = "equipamentos"
	KindUsuarios     Kind = "usuarios"
)

var Kinds = []Kind{KindObras, KindRDOs, KindEquipes, KindEquipamentos, KindUsuarios}

type Operation uint8

const (
	OpView Operation = iota
	OpCreate
	OpEdit
	OpDelete

	opCount
)

var operationNames = [opCount]string{
	OpView:   "view",
	OpCreate: "create",
	OpEdit:   "edit",
	OpDelete: "delete",
}

func (o Operation) String() string {
	if o >= opCount {
		return "unknown"
	}
	return operationNames[o]
}

type kindRule struct {
	actions [opCount]Action
	quota   plan.Resource
}

var kindRules = map[Kind]kindRule{
	KindObras: {
		actions: [opCount]Action{
			OpView:   ActionObrasView,
			OpCreate: ActionObrasCreate,
			OpEdit:   ActionObrasEdit,
			OpDelete: ActionObrasDelete,
		},
		quota: plan.ResourceObras,
	},
	KindRDOs: {
		actions: [opCount]Action{
			OpView:   ActionRDOView,
			OpCreate: ActionRDOCreate,
			OpEdit:   ActionRDOEdit,
			OpDelete: ActionRDODelete,
		},
	},
	KindEquipes: {
		actions: [opCount]Action{
			OpView:   ActionEquipesView,
			OpCreate: ActionEquipesManage,
			OpEdit:   ActionEquipesManage,
			OpDelete: ActionEquipesManage,
		},
	},
	KindEquipamentos: {
		actions: [opCount]Action{
			OpView:   ActionEquipamentosView,
			OpCreate: ActionEquipamentosManage,
			OpEdit:   ActionEquipamentosManage,
			OpDelete: ActionEquipamentosManage,
		},
	},
	KindUsuarios: {
		actions: [opCount]Action{
			OpView:   ActionUsuariosManage,
			OpCreate: ActionUsuariosManage,
			OpEdit:   ActionUsuariosManage,
			OpDelete: ActionUsuariosManage,
		},
		quota: plan.ResourceUsuarios,
	},
}

// ActionFor maps an operation on kind to the action that authorises it.
func ActionFor(kind Kind, op Operation) (Action, bool) {
	rule, ok := kindRules[kind]
	if !ok || op >= opCount {
		return 0, false
	}
	return rule.actions[op], true
}

// Usage holds the current organization-wide counts of metered resources.
type Usage struct {
	Obras    int `json:"obras"    db:"obras"`
	Usuarios int `json:"usuarios" db:"usuarios"`
	Creditos int `json:"creditos" db:"creditos"`
}

func (u Usage) Count(r plan.Resource) int {
	switch r {
	case plan.ResourceObras:
		return u.Obras
	case plan.ResourceUsuarios:
		return u.Usuarios
	case plan.ResourceCreditos:
		return u.Creditos
	default:
		return 0
	}
}

type Capability struct {
	CanView   bool `json:"can_view"`
	CanCreate bool `json:"can_create"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
	IsAtLimit bool `json:"is_at_limit"`
	Count     int  `json:"count"`
	Max       int  `json:"max"`
	Unlimited bool `json:"unlimited"`
}

type CreditStatus struct {
	Used      int  `json:"used"`
	Max       int  `json:"max"`
	Remaining int  `json:"remaining"`
	IsAtLimit bool `json:"is_at_limit"`
}

type Capabilities struct {
	Resources map[Kind]Capability `json:"resources"`
	Credits   CreditStatus        `json:"credits"`
}

// Resolve derives the capability flags for every resource kind from the
// session's roles, the plan quotas and the current usage.
func Resolve(s Session, limits plan.Limits, usage Usage) Capabilities {
	caps := Capabilities{
		Resources: make(map[Kind]Capability, len(kindRules)),
	}

	for _, kind := range Kinds {
		rule := kindRules[kind]

		c := Capability{
			CanView:   s.Can(rule.actions[OpView]),
			CanEdit:   s.Can(rule.actions[OpEdit]),
			CanDelete: s.Can(rule.actions[OpDelete]),
			Unlimited: true,
		}

		if rule.quota != "" {
			quota, unlimited, _ := limits.ForResource(rule.quota)
			c.Count = usage.Count(rule.quota)
			c.Max = quota
			c.Unlimited = unlimited
			c.IsAtLimit = plan.IsAtLimit(c.Count, quota, unlimited)
		}

		c.CanCreate = s.Can(rule.actions[OpCreate]) && !c.IsAtLimit
		caps.Resources[kind] = c
	}

	caps.Credits = CreditStatus{
		Used:      usage.Creditos,
		Max:       limits.MaxCredits,
		Remaining: limits.Remaining(plan.ResourceCreditos, usage.Creditos),
		IsAtLimit: limits.AtLimit(plan.ResourceCreditos, usage.Creditos),
	}

	return caps
}

// Authorize checks op on kind for s. usage is only consulted for creates on
// metered kinds. The returned error is an AppError carrying a message that
// can be shown to the user as-is.
func Authorize(s Session, usage Usage, kind Kind, op Operation) error {
	if err := Permit(s, kind, op); err != nil {
		return err
	}

	if op != OpCreate {
		return nil
	}

	rule := kindRules[kind]
	if rule.quota == "" {
		return nil
	}

	limits := s.Limits()
	count := usage.Count(rule.quota)
	if limits.AtLimit(rule.quota, count) {
		quota, _, _ := limits.ForResource(rule.quota)
		return core.PlanLimitError(fmt.Sprintf(
			"the %s plan allows up to %d %s; upgrade your plan to add more",
			limits.Plan,
			quota,
			kind,
		))
	}

	return nil
}

// Permit is the role half of Authorize. Callers that must count usage run
// it first so a denied role never costs a query.
func Permit(s Session, kind Kind, op Operation) error {
	action, ok := ActionFor(kind, op)
	if !ok {
		return core.PermissionDeniedError(
			fmt.Sprintf("unknown operation %s on %s", op, kind),
		)
	}
	return Require(s, action)
}

// Require fails with a permission-denied AppError unless s is granted a.
func Require(s Session, a Action) error {
	if s.Can(a) {
		return nil
	}
	return core.PermissionDeniedError(
		fmt.Sprintf("you do not have permission to perform %s", a),
	)
}

// Metered reports whether creating kind consumes plan quota.
func Metered(kind Kind) bool {
	return kindRules[kind].quota != ""
}

// CanApproveRDO requires the approve permission and forbids approving a
// report the session itself created.
func CanApproveRDO(s Session, createdBy string) bool {
	if !s.Can(ActionRDOApprove) {
		return false
	}
	return createdBy != s.UserID
}
