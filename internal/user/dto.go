// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/metaconstrutor/api/internal/core"
)

type InviteUserRequest struct {
	Email    string   `json:"email"    validate:"required,email,max=255"`
	Password string   `json:"password" validate:"required,min=8,max=128"`
	Name     string   `json:"name"     validate:"required,min=1,max=100"`
	Roles    []string `json:"roles"    validate:"required,min=1,dive,oneof=Administrador Gerente Colaborador"`
}

type UpdateUserRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
}

type UpdateUserRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,oneof=Administrador Gerente Colaborador"`
}

type UpdatePlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=free basic pro business enterprise"`
}

type UserResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Roles          []string  `json:"roles"`
	Plan           string    `json:"plan"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ListUsersParams struct {
	core.PageParams
	Search string `json:"search"`
	Role   string `json:"role"`
}

func ToUserResponse(u *User) UserResponse {
	roles := []string(u.Roles)
	if roles == nil {
		roles = []string{}
	}
	return UserResponse{
		ID:             u.ID,
		OrganizationID: u.OrganizationID,
		Email:          u.Email,
		Name:           u.Name,
		Roles:          roles,
		Plan:           u.Plan,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
