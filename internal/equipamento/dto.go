// AngelaMos | 2026
// dto.go

package equipamento

import (
	"time"

	"github.com/metaconstrutor/api/internal/core"
)

type CreateEquipamentoRequest struct {
	ObraID   *string `json:"obra_id"  validate:"omitempty,uuid"`
	Name     string  `json:"name"     validate:"required,min=1,max=200"`
	Category string  `json:"category" validate:"omitempty,max=100"`
	Status   string  `json:"status"   validate:"omitempty,oneof=disponivel em_uso manutencao"`
}

type UpdateEquipamentoRequest struct {
	ObraID   *string `json:"obra_id,omitempty"  validate:"omitempty,uuid"`
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1,max=200"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Status   *string `json:"status,omitempty"   validate:"omitempty,oneof=disponivel em_uso manutencao"`
}

type ListEquipamentosParams struct {
	core.PageParams
	ObraID   string
	Status   string
	Category string
}

type EquipamentoResponse struct {
	ID        string    `json:"id"`
	ObraID    *string   `json:"obra_id,omitempty"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToEquipamentoResponse(e *Equipamento) EquipamentoResponse {
	return EquipamentoResponse{
		ID:        e.ID,
		ObraID:    e.ObraID,
		Name:      e.Name,
		Category:  e.Category,
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToEquipamentoResponseList(items []Equipamento) []EquipamentoResponse {
	out := make([]EquipamentoResponse, 0, len(items))
	for i := range items {
		out = append(out, ToEquipamentoResponse(&items[i]))
	}
	return out
}
