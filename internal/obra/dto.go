// AngelaMos | 2026
// dto.go

package obra

import (
	"time"

	"github.com/metaconstrutor/api/internal/core"
)

type CreateObraRequest struct {
	Name      string     `json:"name"       validate:"required,min=1,max=200"`
	Address   string     `json:"address"    validate:"omitempty,max=500"`
	Client    string     `json:"client"     validate:"omitempty,max=200"`
	Status    string     `json:"status"     validate:"omitempty,oneof=planejamento em_andamento pausada concluida"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Budget    float64    `json:"budget"     validate:"gte=0"`
}

type UpdateObraRequest struct {
	Name      *string    `json:"name,omitempty"       validate:"omitempty,min=1,max=200"`
	Address   *string    `json:"address,omitempty"    validate:"omitempty,max=500"`
	Client    *string    `json:"client,omitempty"     validate:"omitempty,max=200"`
	Status    *string    `json:"status,omitempty"     validate:"omitempty,oneof=planejamento em_andamento pausada concluida"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Budget    *float64   `json:"budget,omitempty"     validate:"omitempty,gte=0"`
}

type ListObrasParams struct {
	core.PageParams
	Search string
	Status string
}

type ObraResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	Client    string     `json:"client"`
	Status    Status     `json:"status"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Budget    float64    `json:"budget"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func ToObraResponse(o *Obra) ObraResponse {
	return ObraResponse{
		ID:        o.ID,
		Name:      o.Name,
		Address:   o.Address,
		Client:    o.Client,
		Status:    o.Status,
		StartDate: o.StartDate,
		EndDate:   o.EndDate,
		Budget:    o.Budget,
		CreatedBy: o.CreatedBy,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func ToObraResponseList(obras []Obra) []ObraResponse {
	out := make([]ObraResponse, 0, len(obras))
	for i := range obras {
		out = append(out, ToObraResponse(&obras[i]))
	}
	return out
}
