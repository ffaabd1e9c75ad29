// AngelaMos | 2026
// entity.go

package equipe

import (
	"time"

	"github.com/metaconstrutor/api/internal/core"
)

type Equipe struct {
	ID             string          `db:"id"`
	OrganizationID string          `db:"organization_id"`
	ObraID         *string         `db:"obra_id"`
	Name           string          `db:"name"`
	LeaderName     string          `db:"leader_name"`
	Members        core.StringList `db:"members"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
	DeletedAt      *time.Time      `db:"deleted_at"`
}
