// AngelaMos | 2026
// repository.go

package rdo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/metaconstrutor/api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, r *RDO) error
	GetByID(ctx context.Context, organizationID, id string) (*RDO, error)
	Update(ctx context.Context, r *RDO) error
	Transition(ctx context.Context, r *RDO, from Status) error
	SoftDelete(ctx context.Context, organizationID, id string) error
	List(ctx context.Context, organizationID string, params ListRDOsParams) ([]RDO, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const rdoColumns = `id, organization_id, obra_id, date, weather, summary, worked_hours,
		       status, created_by, approved_by, approved_at, rejection_reason,
		       created_at, updated_at, deleted_at`

func (r *repository) Create(ctx context.Context, rdo *RDO) error {
	query := `
		INSERT INTO rdos (id, organization_id, obra_id, date, weather, summary,
		                  worked_hours, status, created_by)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
		WHERE EXISTS (
			SELECT 1 FROM obras
			WHERE id = $3 AND organization_id = $2 AND deleted_at IS NULL
		)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		rdo.ID,
		rdo.OrganizationID,
		rdo.ObraID,
		rdo.Date,
		rdo.Weather,
		rdo.Summary,
		rdo.WorkedHours,
		rdo.Status,
		rdo.CreatedBy,
	).Scan(&rdo.CreatedAt, &rdo.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("create rdo: obra %s: %w", rdo.ObraID, core.ErrNotFound)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create rdo: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create rdo: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	organizationID, id string,
) (*RDO, error) {
	query := `SELECT ` + rdoColumns + `
		FROM rdos
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL`

	var rdo RDO
	err := r.db.GetContext(ctx, &rdo, query, id, organizationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get rdo: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get rdo: %w", err)
	}

	return &rdo, nil
}

func (r *repository) Update(ctx context.Context, rdo *RDO) error {
	query := `
		UPDATE rdos
		SET date = $3, weather = $4, summary = $5, worked_hours = $6, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL
		  AND status IN ('rascunho', 'rejeitado')
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &rdo.UpdatedAt, query,
		rdo.ID,
		rdo.OrganizationID,
		rdo.Date,
		rdo.Weather,
		rdo.Summary,
		rdo.WorkedHours,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update rdo: %w", core.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("update rdo: %w", err)
	}

	return nil
}

// Transition persists rdo's status fields only if the stored status is
// still from. A concurrent transition yields ErrConflict.
func (r *repository) Transition(ctx context.Context, rdo *RDO, from Status) error {
	query := `
		UPDATE rdos
		SET status = $3, approved_by = $4, approved_at = $5,
		    rejection_reason = $6, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND status = $7 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &rdo.UpdatedAt, query,
		rdo.ID,
		rdo.OrganizationID,
		rdo.Status,
		rdo.ApprovedBy,
		rdo.ApprovedAt,
		rdo.RejectionReason,
		from,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("transition rdo from %s: %w", from, core.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("transition rdo: %w", err)
	}

	return nil
}

func (r *repository) SoftDelete(
	ctx context.Context,
	organizationID, id string,
) error {
	query := `
		UPDATE rdos
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete rdo: %w", err)
	}

	return core.ExpectAffected(result, "delete rdo")
}

func (r *repository) List(
	ctx context.Context,
	organizationID string,
	params ListRDOsParams,
) ([]RDO, int, error) {
	params.Normalize()

	w := core.NewWhere()
	w.Add("deleted_at IS NULL")
	w.AddArg("organization_id = $%d", organizationID)

	if params.ObraID != "" {
		w.AddArg("obra_id = $%d", params.ObraID)
	}
	if params.Status != "" {
		w.AddArg("status = $%d", params.Status)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM rdos WHERE " + w.String()
	if err := r.db.GetContext(ctx, &total, countQuery, w.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count rdos: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM rdos
		WHERE %s
		ORDER BY date DESC, created_at DESC
		LIMIT $%d OFFSET $%d`,
		rdoColumns, w.String(), w.Next(), w.Next()+1)

	args := append(w.Args(), params.PageSize, params.Offset())

	var rdos []RDO
	if err := r.db.SelectContext(ctx, &rdos, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list rdos: %w", err)
	}

	return rdos, total, nil
}
