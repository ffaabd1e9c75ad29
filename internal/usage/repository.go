// AngelaMos | 2026
// repository.go

package usage

import (
	"context"
	"fmt"

	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/permission"
)

// Counter reports the organization-wide counts that plan quotas are
// enforced against. Counts are always read fresh.
type Counter interface {
	Count(ctx context.Context, organizationID string) (permission.Usage, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Counter {
	return &repository{db: db}
}

func (r *repository) Count(
	ctx context.Context,
	organizationID string,
) (permission.Usage, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM obras
			 WHERE organization_id = $1 AND deleted_at IS NULL) AS obras,
			(SELECT COUNT(*) FROM profiles
			 WHERE organization_id = $1 AND deleted_at IS NULL) AS usuarios,
			(SELECT COALESCE(SUM(amount), 0) FROM credit_ledger
			 WHERE organization_id = $1) AS creditos`

	var u permission.Usage
	if err := r.db.GetContext(ctx, &u, query, organizationID); err != nil {
		return permission.Usage{}, fmt.Errorf("count usage: %w", err)
	}

	return u, nil
}
