// AngelaMos | 2026
// dto.go

package rdo

import (
	"time"

	"github.com/metaconstrutor/api/internal/core"
)

type CreateRDORequest struct {
	ObraID      string    `json:"obra_id"      validate:"required,uuid"`
	Date        time.Time `json:"date"         validate:"required"`
	Weather     string    `json:"weather"      validate:"omitempty,max=100"`
	Summary     string    `json:"summary"      validate:"required,min=1,max=5000"`
	WorkedHours float64   `json:"worked_hours" validate:"gte=0,lte=24"`
}

type UpdateRDORequest struct {
	Date        *time.Time `json:"date,omitempty"`
	Weather     *string    `json:"weather,omitempty"      validate:"omitempty,max=100"`
	Summary     *string    `json:"summary,omitempty"      validate:"omitempty,min=1,max=5000"`
	WorkedHours *float64   `json:"worked_hours,omitempty" validate:"omitempty,gte=0,lte=24"`
}

type RejectRDORequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=1000"`
}

type ListRDOsParams struct {
	core.PageParams
	ObraID string
	Status string
}

type RDOResponse struct {
	ID              string     `json:"id"`
	ObraID          string     `json:"obra_id"`
	Date            time.Time  `json:"date"`
	Weather         string     `json:"weather"`
	Summary         string     `json:"summary"`
	WorkedHours     float64    `json:"worked_hours"`
	Status          Status     `json:"status"`
	CreatedBy       string     `json:"created_by"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func ToRDOResponse(r *RDO) RDOResponse {
	return RDOResponse{
		ID:              r.ID,
		ObraID:          r.ObraID,
		Date:            r.Date,
		Weather:         r.Weather,
		Summary:         r.Summary,
		WorkedHours:     r.WorkedHours,
		Status:          r.Status,
		CreatedBy:       r.CreatedBy,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func ToRDOResponseList(rdos []RDO) []RDOResponse {
	out := make([]RDOResponse, 0, len(rdos))
	for i := range rdos {
		out = append(out, ToRDOResponse(&rdos[i]))
	}
	return out
}
