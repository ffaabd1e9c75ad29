// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/metaconstrutor/api/internal/activity"
	"github.com/metaconstrutor/api/internal/auth"
	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/permission"
	"github.com/metaconstrutor/api/internal/plan"
	"github.com/metaconstrutor/api/internal/usage"
)

type Service struct {
	repo     Repository
	counter  usage.Counter
	activity activity.Recorder
}

func NewService(
	repo Repository,
	counter usage.Counter,
	recorder activity.Recorder,
) *Service {
	if recorder == nil {
		recorder = activity.Nop{}
	}
	return &Service{repo: repo, counter: counter, activity: recorder}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// Create registers a self-signup: a new organization on the free plan whose
// first member administers it.
func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*auth.UserInfo, error) {
	user := &User{
		ID:             uuid.New().String(),
		OrganizationID: uuid.New().String(),
		Email:          strings.ToLower(email),
		PasswordHash:   passwordHash,
		Name:           name,
		Roles:          core.StringList{string(permission.RoleAdministrador)},
		Plan:           string(plan.Free),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// Invite adds a member to the caller's organization. The member inherits
// the organization's plan and counts against its user quota.
func (s *Service) Invite(
	ctx context.Context,
	sess permission.Session,
	req InviteUserRequest,
) (*User, error) {
	if err := permission.Permit(sess, permission.KindUsuarios, permission.OpCreate); err != nil {
		return nil, err
	}

	current, err := s.counter.Count(ctx, sess.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("invite user: %w", err)
	}

	if err := permission.Authorize(sess, current, permission.KindUsuarios, permission.OpCreate); err != nil {
		return nil, err
	}

	roles, err := canonicalRoles(req.Roles)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(req.Email)
	taken, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invite user: %w", err)
	}
	if taken {
		return nil, core.DuplicateError("email")
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:             uuid.New().String(),
		OrganizationID: sess.OrganizationID,
		Email:          email,
		PasswordHash:   passwordHash,
		Name:           req.Name,
		Roles:          roles,
		Plan:           string(sess.Plan),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.record(ctx, sess, "usuarios.create", user.ID, "convidou "+user.Email)

	return user, nil
}

func (s *Service) GetUser(
	ctx context.Context,
	sess permission.Session,
	id string,
) (*User, error) {
	if err := permission.Authorize(sess, permission.Usage{}, permission.KindUsuarios, permission.OpView); err != nil {
		return nil, err
	}

	return s.getInOrganization(ctx, sess, id)
}

func (s *Service) UpdateUser(
	ctx context.Context,
	sess permission.Session,
	id string,
	req UpdateUserRequest,
) (*User, error) {
	if err := permission.Authorize(sess, permission.Usage{}, permission.KindUsuarios, permission.OpEdit); err != nil {
		return nil, err
	}

	user, err := s.getInOrganization(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.record(ctx, sess, "usuarios.edit", user.ID, "atualizou "+user.Email)

	return user, nil
}

// UpdateUserRoles replaces a member's roles. Administrators cannot change
// their own roles, so an organization never loses its last administrator
// through this path. DeleteMe guards the other one.
func (s *Service) UpdateUserRoles(
	ctx context.Context,
	sess permission.Session,
	id string,
	roles []string,
) (*User, error) {
	if err := permission.Authorize(sess, permission.Usage{}, permission.KindUsuarios, permission.OpEdit); err != nil {
		return nil, err
	}

	if id == sess.UserID {
		return nil, core.ForbiddenError("you cannot change your own roles")
	}

	canonical, err := canonicalRoles(roles)
	if err != nil {
		return nil, err
	}

	user, err := s.getInOrganization(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	user.Roles = canonical

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.repo.IncrementTokenVersion(ctx, user.ID); err != nil {
		return nil, err
	}

	s.record(ctx, sess, "usuarios.roles", user.ID,
		"definiu papéis de "+user.Email+": "+strings.Join(canonical, ", "))

	return user, nil
}

// UpdatePlan switches the whole organization to planID.
func (s *Service) UpdatePlan(
	ctx context.Context,
	sess permission.Session,
	planID string,
) (plan.Limits, error) {
	if err := permission.Require(sess, permission.ActionConfiguracoesManage); err != nil {
		return plan.Limits{}, err
	}

	parsed, ok := plan.Parse(planID)
	if !ok {
		return plan.Limits{}, fmt.Errorf(
			"update plan: invalid plan %q: %w",
			planID,
			core.ErrInvalidInput,
		)
	}

	if _, err := s.repo.UpdateOrganizationPlan(ctx, sess.OrganizationID, string(parsed)); err != nil {
		return plan.Limits{}, err
	}

	s.record(ctx, sess, "configuracoes.plano", sess.OrganizationID, "alterou o plano para "+string(parsed))

	return plan.GetLimits(string(parsed)), nil
}

func (s *Service) DeleteUser(
	ctx context.Context,
	sess permission.Session,
	id string,
) error {
	if err := permission.Authorize(sess, permission.Usage{}, permission.KindUsuarios, permission.OpDelete); err != nil {
		return err
	}

	if id == sess.UserID {
		return core.ForbiddenError("use the account endpoint to delete yourself")
	}

	target, err := s.getInOrganization(ctx, sess, id)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("cannot delete administrators: %w", core.ErrForbidden)
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, sess, "usuarios.delete", id, "removeu "+target.Email)

	return nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	sess permission.Session,
	params ListUsersParams,
) ([]User, int, error) {
	if err := permission.Authorize(sess, permission.Usage{}, permission.KindUsuarios, permission.OpView); err != nil {
		return nil, 0, err
	}

	return s.repo.List(ctx, sess.OrganizationID, params)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateUserRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteMe closes the caller's own account. The last administrator of an
// organization has to promote someone else first.
func (s *Service) DeleteMe(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("delete me: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.IsAdmin() {
		admins, err := s.repo.CountAdmins(ctx, user.OrganizationID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return core.ConflictError("promote another administrator before deleting your account")
		}
	}

	return s.repo.SoftDelete(ctx, userID)
}

func (s *Service) getInOrganization(
	ctx context.Context,
	sess permission.Session,
	id string,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.OrganizationID != sess.OrganizationID {
		return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
	}

	return user, nil
}

func (s *Service) record(
	ctx context.Context,
	sess permission.Session,
	action, resourceID, description string,
) {
	s.activity.Record(ctx, activity.Entry{
		OrganizationID: sess.OrganizationID,
		UserID:         sess.UserID,
		Action:         action,
		Kind:           string(permission.KindUsuarios),
		ResourceID:     resourceID,
		Description:    description,
	})
}

func canonicalRoles(names []string) (core.StringList, error) {
	seen := make(map[permission.Role]bool, len(names))
	out := make(core.StringList, 0, len(names))

	for _, name := range names {
		role, ok := permission.ParseRole(name)
		if !ok {
			return nil, fmt.Errorf("invalid role %q: %w", name, core.ErrInvalidInput)
		}
		if seen[role] {
			continue
		}
		seen[role] = true
		out = append(out, string(role))
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("at least one role is required: %w", core.ErrInvalidInput)
	}

	return out, nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:             u.ID,
		OrganizationID: u.OrganizationID,
		Email:          u.Email,
		Name:           u.Name,
		PasswordHash:   u.PasswordHash,
		Roles:          []string(u.Roles),
		Plan:           u.Plan,
		TokenVersion:   u.TokenVersion,
	}
}

var _ auth.UserProvider = (*Service)(nil)
