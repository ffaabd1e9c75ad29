// AngelaMos | 2026
// repository.go

package obra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/metaconstrutor/api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, o *Obra) error
	GetByID(ctx context.Context, organizationID, id string) (*Obra, error)
	Update(ctx context.Context, o *Obra) error
	SoftDelete(ctx context.Context, organizationID, id string) error
	List(ctx context.Context, organizationID string, params ListObrasParams) ([]Obra, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const obraColumns = `id, organization_id, name, address, client, status, start_date,
		       end_date, budget, created_by, created_at, updated_at, deleted_at`

func (r *repository) Create(ctx context.Context, o *Obra) error {
	query := `
		INSERT INTO obras (id, organization_id, name, address, client, status,
		                   start_date, end_date, budget, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		o.ID,
		o.OrganizationID,
		o.Name,
		o.Address,
		o.Client,
		o.Status,
		o.StartDate,
		o.EndDate,
		o.Budget,
		o.CreatedBy,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create obra: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create obra: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	organizationID, id string,
) (*Obra, error) {
	query := `SELECT ` + obraColumns + `
		FROM obras
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL`

	var o Obra
	err := r.db.GetContext(ctx, &o, query, id, organizationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get obra: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get obra: %w", err)
	}

	return &o, nil
}

func (r *repository) Update(ctx context.Context, o *Obra) error {
	query := `
		UPDATE obras
		SET name = $3, address = $4, client = $5, status = $6, start_date = $7,
		    end_date = $8, budget = $9, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &o.UpdatedAt, query,
		o.ID,
		o.OrganizationID,
		o.Name,
		o.Address,
		o.Client,
		o.Status,
		o.StartDate,
		o.EndDate,
		o.Budget,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update obra: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update obra: %w", err)
	}

	return nil
}

func (r *repository) SoftDelete(
	ctx context.Context,
	organizationID, id string,
) error {
	query := `
		UPDATE obras
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete obra: %w", err)
	}

	return core.ExpectAffected(result, "delete obra")
}

func (r *repository) List(
	ctx context.Context,
	organizationID string,
	params ListObrasParams,
) ([]Obra, int, error) {
	params.Normalize()

	w := core.NewWhere()
	w.Add("deleted_at IS NULL")
	w.AddArg("organization_id = $%d", organizationID)

	if params.Search != "" {
		w.AddArg(
			"(name ILIKE $%[1]d OR client ILIKE $%[1]d OR address ILIKE $%[1]d)",
			"%"+core.EscapeLike(params.Search)+"%",
		)
	}
	if params.Status != "" {
		w.AddArg("status = $%d", params.Status)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM obras WHERE " + w.String()
	if err := r.db.GetContext(ctx, &total, countQuery, w.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count obras: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM obras
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		obraColumns, w.String(), w.Next(), w.Next()+1)

	args := append(w.Args(), params.PageSize, params.Offset())

	var obras []Obra
	if err := r.db.SelectContext(ctx, &obras, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list obras: %w", err)
	}

	return obras, total, nil
}
