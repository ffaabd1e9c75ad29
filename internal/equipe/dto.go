// AngelaMos | 2026
// dto.go

package equipe

import (
	"time"

	"github.com/metaconstrutor/api/internal/core"
)

type CreateEquipeRequest struct {
	ObraID     *string  `json:"obra_id"     validate:"omitempty,uuid"`
	Name       string   `json:"name"        validate:"required,min=1,max=200"`
	LeaderName string   `json:"leader_name" validate:"omitempty,max=200"`
	Members    []string `json:"members"     validate:"omitempty,max=200,dive,min=1,max=200"`
}

type UpdateEquipeRequest struct {
	ObraID     *string   `json:"obra_id,omitempty"     validate:"omitempty,uuid"`
	Name       *string   `json:"name,omitempty"        validate:"omitempty,min=1,max=200"`
	LeaderName *string   `json:"leader_name,omitempty" validate:"omitempty,max=200"`
	Members    *[]string `json:"members,omitempty"     validate:"omitempty,max=200,dive,min=1,max=200"`
}

type ListEquipesParams struct {
	core.PageParams
	ObraID string
}

type EquipeResponse struct {
	ID         string    `json:"id"`
	ObraID     *string   `json:"obra_id,omitempty"`
	Name       string    `json:"name"`
	LeaderName string    `json:"leader_name"`
	Members    []string  `json:"members"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToEquipeResponse(e *Equipe) EquipeResponse {
	members := []string(e.Members)
	if members == nil {
		members = []string{}
	}
	return EquipeResponse{
		ID:         e.ID,
		ObraID:     e.ObraID,
		Name:       e.Name,
		LeaderName: e.LeaderName,
		Members:    members,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func ToEquipeResponseList(equipes []Equipe) []EquipeResponse {
	out := make([]EquipeResponse, 0, len(equipes))
	for i := range equipes {
		out = append(out, ToEquipeResponse(&equipes[i]))
	}
	return out
}
