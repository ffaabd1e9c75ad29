// AngelaMos | 2026
// repository.go

package equipamento

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/metaconstrutor/api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, e *Equipamento) error
	GetByID(ctx context.Context, organizationID, id string) (*Equipamento, error)
	Update(ctx context.Context, e *Equipamento) error
	SoftDelete(ctx context.Context, organizationID, id string) error
	List(ctx context.Context, organizationID string, params ListEquipamentosParams) ([]Equipamento, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const equipamentoColumns = `id, organization_id, obra_id, name, category, status,
		       created_at, updated_at, deleted_at`

func (r *repository) Create(ctx context.Context, e *Equipamento) error {
	query := `
		INSERT INTO equipamentos (id, organization_id, obra_id, name, category, status)
		SELECT $1, $2, $3::uuid, $4, $5, $6
		WHERE $3::uuid IS NULL OR EXISTS (
			SELECT 1 FROM obras
			WHERE id = $3 AND organization_id = $2 AND deleted_at IS NULL
		)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, e, query,
		e.ID, e.OrganizationID, e.ObraID, e.Name, e.Category, e.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("create equipamento: obra: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create equipamento: obra: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create equipamento: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	organizationID, id string,
) (*Equipamento, error) {
	query := `SELECT ` + equipamentoColumns + `
		FROM equipamentos
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL`

	var e Equipamento
	err := r.db.GetContext(ctx, &e, query, id, organizationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get equipamento: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get equipamento: %w", err)
	}

	return &e, nil
}

func (r *repository) Update(ctx context.Context, e *Equipamento) error {
	query := `
		UPDATE equipamentos
		SET obra_id = $3, name = $4, category = $5, status = $6, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL
		  AND ($3::uuid IS NULL OR EXISTS (
			SELECT 1 FROM obras
			WHERE id = $3 AND organization_id = $2 AND deleted_at IS NULL
		  ))
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &e.UpdatedAt, query,
		e.ID, e.OrganizationID, e.ObraID, e.Name, e.Category, e.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update equipamento: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("update equipamento: obra: %w", core.ErrNotFound)
		}
		return fmt.Errorf("update equipamento: %w", err)
	}

	return nil
}

func (r *repository) SoftDelete(
	ctx context.Context,
	organizationID, id string,
) error {
	query := `
		UPDATE equipamentos
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete equipamento: %w", err)
	}

	return core.ExpectAffected(result, "delete equipamento")
}

func (r *repository) List(
	ctx context.Context,
	organizationID string,
	params ListEquipamentosParams,
) ([]Equipamento, int, error) {
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
	if params.Category != "" {
		w.AddArg("category = $%d", params.Category)
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM equipamentos WHERE "+w.String(), w.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count equipamentos: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM equipamentos
		WHERE %s
		ORDER BY name
		LIMIT $%d OFFSET $%d`,
		equipamentoColumns, w.String(), w.Next(), w.Next()+1)

	var items []Equipamento
	args := append(w.Args(), params.PageSize, params.Offset())
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list equipamentos: %w", err)
	}

	return items, total, nil
}
