// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/permission"
)

// User is a row of the profiles table: a member of one organization.
type User struct {
	ID             string          `db:"id"`
	OrganizationID string          `db:"organization_id"`
	Email          string          `db:"email"`
	PasswordHash   string          `db:"password_hash"`
	Name           string          `db:"name"`
	Roles          core.StringList `db:"roles"`
	Plan           string          `db:"plan"`
	TokenVersion   int             `db:"token_version"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
	DeletedAt      *time.Time      `db:"deleted_at"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) Session() permission.Session {
	return permission.NewSession(u.ID, u.OrganizationID, u.Roles, u.Plan)
}

func (u *User) IsAdmin() bool {
	return u.Session().IsAdmin()
}
