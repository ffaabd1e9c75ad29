// AngelaMos | 2026
// entity.go

package equipamento

import (
	"time"
)

type Status string

const (
	StatusDisponivel Status = "disponivel"
	StatusEmUso      Status = "em_uso"
	StatusManutencao Status = "manutencao"
)

type Equipamento struct {
	ID             string     `db:"id"`
	OrganizationID string     `db:"organization_id"`
	ObraID         *string    `db:"obra_id"`
	Name           string     `db:"name"`
	Category       string     `db:"category"`
	Status         Status     `db:"status"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}
