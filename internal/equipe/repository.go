// AngelaMos | 2026
// repository.go

package equipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/metaconstrutor/api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, e *Equipe) error
	GetByID(ctx context.Context, organizationID, id string) (*Equipe, error)
	Update(ctx context.Context, e *Equipe) error
	SoftDelete(ctx context.Context, organizationID, id string) error
	List(ctx context.Context, organizationID string, params ListEquipesParams) ([]Equipe, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const equipeColumns = `id, organization_id, obra_id, name, leader_name, members,
		       created_at, updated_at, deleted_at`

// A team may only point at a live obra of its own organization; $2 is the
// organization and $3 the optional obra.
const obraInOrganization = `($3::uuid IS NULL OR EXISTS (
			SELECT 1 FROM obras
			WHERE id = $3 AND organization_id = $2 AND deleted_at IS NULL
		))`

func (r *repository) Create(ctx context.Context, e *Equipe) error {
	query := `
		INSERT INTO equipes (id, organization_id, obra_id, name, leader_name, members)
		SELECT $1, $2, $3::uuid, $4, $5, $6
		WHERE ` + obraInOrganization + `
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, e, query,
		e.ID,
		e.OrganizationID,
		e.ObraID,
		e.Name,
		e.LeaderName,
		e.Members,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("create equipe: obra: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create equipe: obra: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create equipe: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	organizationID, id string,
) (*Equipe, error) {
	query := `SELECT ` + equipeColumns + `
		FROM equipes
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL`

	var e Equipe
	err := r.db.GetContext(ctx, &e, query, id, organizationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get equipe: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get equipe: %w", err)
	}

	return &e, nil
}

func (r *repository) Update(ctx context.Context, e *Equipe) error {
	query := `
		UPDATE equipes
		SET obra_id = $3, name = $4, leader_name = $5, members = $6, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL
		  AND ` + obraInOrganization + `
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &e.UpdatedAt, query,
		e.ID,
		e.OrganizationID,
		e.ObraID,
		e.Name,
		e.LeaderName,
		e.Members,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update equipe: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("update equipe: obra: %w", core.ErrNotFound)
		}
		return fmt.Errorf("update equipe: %w", err)
	}

	return nil
}

func (r *repository) SoftDelete(
	ctx context.Context,
	organizationID, id string,
) error {
	query := `
		UPDATE equipes
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete equipe: %w", err)
	}

	return core.ExpectAffected(result, "delete equipe")
}

func (r *repository) List(
	ctx context.Context,
	organizationID string,
	params ListEquipesParams,
) ([]Equipe, int, error) {
	params.Normalize()

	w := core.NewWhere()
	w.Add("deleted_at IS NULL")
	w.AddArg("organization_id = $%d", organizationID)
	if params.ObraID != "" {
		w.AddArg("obra_id = $%d", params.ObraID)
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM equipes WHERE "+w.String(), w.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count equipes: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM equipes
		WHERE %s
		ORDER BY name
		LIMIT $%d OFFSET $%d`,
		equipeColumns, w.String(), w.Next(), w.Next()+1)

	var equipes []Equipe
	args := append(w.Args(), params.PageSize, params.Offset())
	if err := r.db.SelectContext(ctx, &equipes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list equipes: %w", err)
	}

	return equipes, total, nil
}
