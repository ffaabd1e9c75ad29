// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/permission"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateOrganizationPlan(ctx context.Context, organizationID, plan string) (int64, error)
	IncrementTokenVersion(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
	CountAdmins(ctx context.Context, organizationID string) (int, error)
	List(ctx context.Context, organizationID string, params ListUsersParams) ([]User, int, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const profileColumns = `id, organization_id, email, password_hash, name, roles, plan,
		       token_version, created_at, updated_at, deleted_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO profiles (id, organization_id, email, password_hash, name, roles, plan)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at, token_version`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.OrganizationID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Roles,
		user.Plan,
	).Scan(&user.CreatedAt, &user.UpdatedAt, &user.TokenVersion)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create profile: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create profile: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "email", strings.ToLower(email))
}

// findOne loads a live profile by a unique column.
func (r *repository) findOne(ctx context.Context, column, value string) (*User, error) {
	query := `SELECT ` + profileColumns + `
		FROM profiles
		WHERE ` + column + ` = $1 AND deleted_at IS NULL`

	var user User
	err := r.db.GetContext(ctx, &user, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get profile by %s: %w", column, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by %s: %w", column, err)
	}
	return &user, nil
}

// exec runs a single-profile statement and reports ErrNotFound when no live
// profile matched.
func (r *repository) exec(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return core.ExpectAffected(result, op)
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE profiles
		SET name = $2, roles = $3, plan = $4, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Name,
		user.Roles,
		user.Plan,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.exec(ctx, "update password", `
		UPDATE profiles
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id, passwordHash)
}

// UpdateOrganizationPlan moves every member of the organization to plan and
// bumps their token version so outstanding tokens carry the new plan.
func (r *repository) UpdateOrganizationPlan(
	ctx context.Context,
	organizationID, plan string,
) (int64, error) {
	query := `
		UPDATE profiles
		SET plan = $2, token_version = token_version + 1, updated_at = NOW()
		WHERE organization_id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, organizationID, plan)
	if err != nil {
		return 0, fmt.Errorf("update organization plan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update organization plan: %w", err)
	}

	return rows, nil
}

// IncrementTokenVersion invalidates every access token issued to id so far.
func (r *repository) IncrementTokenVersion(ctx context.Context, id string) error {
	return r.exec(ctx, "increment token version", `
		UPDATE profiles
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id)
}

// SoftDelete also bumps the token version so the removed member is signed
// out on the next request.
func (r *repository) SoftDelete(ctx context.Context, id string) error {
	return r.exec(ctx, "delete profile", `
		UPDATE profiles
		SET deleted_at = NOW(), updated_at = NOW(), token_version = token_version + 1
		WHERE id = $1 AND deleted_at IS NULL`, id)
}

func (r *repository) CountAdmins(ctx context.Context, organizationID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM profiles
		WHERE organization_id = $1 AND deleted_at IS NULL
		  AND roles @> jsonb_build_array($2::text)`,
		organizationID, string(permission.RoleAdministrador))
	if err != nil {
		return 0, fmt.Errorf("count administrators: %w", err)
	}
	return n, nil
}

func (r *repository) List(
	ctx context.Context,
	organizationID string,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	w := core.NewWhere()
	w.Add("deleted_at IS NULL")
	w.AddArg("organization_id = $%d", organizationID)

	if params.Search != "" {
		w.AddArg("(email ILIKE $%[1]d OR name ILIKE $%[1]d)", "%"+core.EscapeLike(params.Search)+"%")
	}

	if params.Role != "" {
		w.AddArg("roles @> jsonb_build_array($%d::text)", params.Role)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM profiles WHERE " + w.String()
	if err := r.db.GetContext(ctx, &total, countQuery, w.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM profiles
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		profileColumns, w.String(), w.Next(), w.Next()+1)

	args := append(w.Args(), params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}

	return users, total, nil
}

func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM profiles WHERE email = $1 AND deleted_at IS NULL)`,
		strings.ToLower(email))
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}
