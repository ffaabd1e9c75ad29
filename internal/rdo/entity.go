// AngelaMos | 2026
// entity.go

package rdo

import (
	"time"
)

type Status string

const (
	StatusRascunho  Status = "rascunho"
	StatusEnviado   Status = "enviado"
	StatusAprovado  Status = "aprovado"
	StatusRejeitado Status = "rejeitado"
)

// RDO is a daily site report (relatório diário de obra).
type RDO struct {
	ID              string     `db:"id"`
	OrganizationID  string     `db:"organization_id"`
	ObraID          string     `db:"obra_id"`
	Date            time.Time  `db:"date"`
	Weather         string     `db:"weather"`
	Summary         string     `db:"summary"`
	WorkedHours     float64    `db:"worked_hours"`
	Status          Status     `db:"status"`
	CreatedBy       string     `db:"created_by"`
	ApprovedBy      *string    `db:"approved_by"`
	ApprovedAt      *time.Time `db:"approved_at"`
	RejectionReason string     `db:"rejection_reason"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

// Editable reports whether the report content may still change.
func (r *RDO) Editable() bool {
	return r.Status == StatusRascunho || r.Status == StatusRejeitado
}
