// AngelaMos | 2026
// entity.go

package obra

import (
	"time"
)

type Status string

const (
	StatusPlanejamento Status = "planejamento"
	StatusEmAndamento  Status = "em_andamento"
	StatusPausada      Status = "pausada"
	StatusConcluida    Status = "concluida"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPlanejamento, StatusEmAndamento, StatusPausada, StatusConcluida:
		return true
	}
	return false
}

type Obra struct {
	ID             string     `db:"id"`
	OrganizationID string     `db:"organization_id"`
	Name           string     `db:"name"`
	Address        string     `db:"address"`
	Client         string     `db:"client"`
	Status         Status     `db:"status"`
	StartDate      *time.Time `db:"start_date"`
	EndDate        *time.Time `db:"end_date"`
	Budget         float64    `db:"budget"`
	CreatedBy      string     `db:"created_by"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

func (o *Obra) IsDeleted() bool {
	return o.DeletedAt != nil
}
