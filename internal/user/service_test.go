// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/metaconstrutor/api/internal/activity"
	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/permission"
	"github.com/metaconstrutor/api/internal/plan"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, u *User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, u *User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockRepo) UpdateOrganizationPlan(ctx context.Context, orgID, p string) (int64, error) {
	args := m.Called(ctx, orgID, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) IncrementTokenVersion(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) List(ctx context.Context, orgID string, params ListUsersParams) ([]User, int, error) {
	args := m.Called(ctx, orgID, params)
	users, _ := args.Get(0).([]User)
	return users, args.Int(1), args.Error(2)
}

func (m *mockRepo) CountAdmins(ctx context.Context, orgID string) (int, error) {
	args := m.Called(ctx, orgID)
	return args.Int(0), args.Error(1)
}

func (m *mockRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type mockCounter struct {
	mock.Mock
}

func (m *mockCounter) Count(ctx context.Context, orgID string) (permission.Usage, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(permission.Usage), args.Error(1)
}

type recorder struct {
	entries []activity.Entry
}

func (r *recorder) Record(_ context.Context, e activity.Entry) {
	r.entries = append(r.entries, e)
}

func adminSession(planID string) permission.Session {
	return permission.NewSession("admin-1", "org-1", []string{"Administrador"}, planID)
}

func member(id string, roles ...string) *User {
	return &User{
		ID:             id,
		OrganizationID: "org-1",
		Email:          id + "@obra.com",
		Name:           id,
		Roles:          core.StringList(roles),
		Plan:           "basic",
	}
}

func TestService_Create_NewOrganization(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).Return(nil)

	svc := NewService(repo, new(mockCounter), nil)

	info, err := svc.Create(context.Background(), "Owner@Obra.com", "hash", "Owner")
	require.NoError(t, err)

	assert.Equal(t, "owner@obra.com", info.Email)
	assert.NotEmpty(t, info.OrganizationID)
	assert.Equal(t, []string{"Administrador"}, info.Roles)
	assert.Equal(t, "free", info.Plan)
	repo.AssertExpectations(t)
}

func TestService_Invite(t *testing.T) {
	req := InviteUserRequest{
		Email:    "novo@obra.com",
		Password: "senha-segura-123",
		Name:     "Novo",
		Roles:    []string{"colaborador", "Colaborador"},
	}

	t.Run("creates member under quota", func(t *testing.T) {
		repo := new(mockRepo)
		counter := new(mockCounter)
		rec := &recorder{}

		counter.On("Count", mock.Anything, "org-1").
			Return(permission.Usage{Usuarios: 2}, nil)
		repo.On("ExistsByEmail", mock.Anything, "novo@obra.com").Return(false, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
			return u.OrganizationID == "org-1" && u.Plan == "basic" &&
				len(u.Roles) == 1 && u.Roles[0] == "Colaborador"
		})).Return(nil)

		svc := NewService(repo, counter, rec)
		u, err := svc.Invite(context.Background(), adminSession("basic"), req)
		require.NoError(t, err)

		assert.NotEqual(t, req.Password, u.PasswordHash)
		require.Len(t, rec.entries, 1)
		assert.Equal(t, "usuarios.create", rec.entries[0].Action)
		repo.AssertExpectations(t)
	})

	t.Run("email already registered", func(t *testing.T) {
		repo := new(mockRepo)
		counter := new(mockCounter)
		counter.On("Count", mock.Anything, "org-1").
			Return(permission.Usage{Usuarios: 1}, nil)
		repo.On("ExistsByEmail", mock.Anything, "novo@obra.com").Return(true, nil)

		svc := NewService(repo, counter, nil)
		_, err := svc.Invite(context.Background(), adminSession("pro"), req)

		assert.True(t, errors.Is(err, core.ErrDuplicateKey))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("plan limit blocks before write", func(t *testing.T) {
		repo := new(mockRepo)
		counter := new(mockCounter)
		counter.On("Count", mock.Anything, "org-1").
			Return(permission.Usage{Usuarios: 3}, nil)

		svc := NewService(repo, counter, nil)
		_, err := svc.Invite(context.Background(), adminSession("basic"), req)

		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrPlanLimitReached))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("gerente cannot invite", func(t *testing.T) {
		repo := new(mockRepo)
		counter := new(mockCounter)
		counter.On("Count", mock.Anything, "org-1").
			Return(permission.Usage{}, nil)

		sess := permission.NewSession("g-1", "org-1", []string{"Gerente"}, "pro")
		svc := NewService(repo, counter, nil)
		_, err := svc.Invite(context.Background(), sess, req)

		assert.True(t, errors.Is(err, core.ErrPermissionDenied))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		counter.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
	})

	t.Run("usage query failure surfaces", func(t *testing.T) {
		counter := new(mockCounter)
		counter.On("Count", mock.Anything, "org-1").
			Return(permission.Usage{}, errors.New("connection reset"))

		svc := NewService(new(mockRepo), counter, nil)
		_, err := svc.Invite(context.Background(), adminSession("pro"), req)

		require.Error(t, err)
		assert.False(t, core.IsAppError(err))
	})
}

func TestService_GetUser_OtherOrganization(t *testing.T) {
	repo := new(mockRepo)
	stranger := member("x-1", "Colaborador")
	stranger.OrganizationID = "org-2"
	repo.On("GetByID", mock.Anything, "x-1").Return(stranger, nil)

	svc := NewService(repo, new(mockCounter), nil)
	_, err := svc.GetUser(context.Background(), adminSession("pro"), "x-1")

	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestService_UpdateUserRoles(t *testing.T) {
	t.Run("rejects own roles", func(t *testing.T) {
		svc := NewService(new(mockRepo), new(mockCounter), nil)
		_, err := svc.UpdateUserRoles(context.Background(), adminSession("pro"), "admin-1", []string{"Gerente"})

		assert.True(t, errors.Is(err, core.ErrForbidden))
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		svc := NewService(new(mockRepo), new(mockCounter), nil)
		_, err := svc.UpdateUserRoles(context.Background(), adminSession("pro"), "u-2", []string{"Dono"})

		assert.True(t, errors.Is(err, core.ErrInvalidInput))
	})

	t.Run("replaces roles and revokes tokens", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetByID", mock.Anything, "u-2").Return(member("u-2", "Colaborador"), nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)
		repo.On("IncrementTokenVersion", mock.Anything, "u-2").Return(nil)

		svc := NewService(repo, new(mockCounter), nil)
		u, err := svc.UpdateUserRoles(context.Background(), adminSession("pro"), "u-2", []string{"gerente"})
		require.NoError(t, err)

		assert.Equal(t, core.StringList{"Gerente"}, u.Roles)
		repo.AssertExpectations(t)
	})
}

func TestService_UpdatePlan(t *testing.T) {
	t.Run("administrador changes plan", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("UpdateOrganizationPlan", mock.Anything, "org-1", "business").Return(int64(4), nil)

		svc := NewService(repo, new(mockCounter), nil)
		limits, err := svc.UpdatePlan(context.Background(), adminSession("free"), " Business ")
		require.NoError(t, err)

		assert.Equal(t, plan.Business, limits.Plan)
		assert.True(t, limits.UnlimitedObras)
	})

	t.Run("gerente denied", func(t *testing.T) {
		repo := new(mockRepo)
		sess := permission.NewSession("g-1", "org-1", []string{"Gerente"}, "pro")

		svc := NewService(repo, new(mockCounter), nil)
		_, err := svc.UpdatePlan(context.Background(), sess, "business")

		assert.True(t, errors.Is(err, core.ErrPermissionDenied))
		repo.AssertNotCalled(t, "UpdateOrganizationPlan", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown plan", func(t *testing.T) {
		svc := NewService(new(mockRepo), new(mockCounter), nil)
		_, err := svc.UpdatePlan(context.Background(), adminSession("free"), "platinum")

		assert.True(t, errors.Is(err, core.ErrInvalidInput))
	})
}

func TestService_DeleteUser(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		found   *User
		wantErr error
	}{
		{
			name:    "self",
			target:  "admin-1",
			wantErr: core.ErrForbidden,
		},
		{
			name:    "another administrador",
			target:  "admin-2",
			found:   member("admin-2", "Administrador"),
			wantErr: core.ErrForbidden,
		},
		{
			name:   "colaborador",
			target: "u-3",
			found:  member("u-3", "Colaborador"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			if tt.found != nil {
				repo.On("GetByID", mock.Anything, tt.target).Return(tt.found, nil)
			}
			repo.On("SoftDelete", mock.Anything, tt.target).Return(nil)

			svc := NewService(repo, new(mockCounter), nil)
			err := svc.DeleteUser(context.Background(), adminSession("pro"), tt.target)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			repo.AssertCalled(t, "SoftDelete", mock.Anything, tt.target)
		})
	}
}

func TestService_GetMe_RequiresUser(t *testing.T) {
	svc := NewService(new(mockRepo), new(mockCounter), nil)
	_, err := svc.GetMe(context.Background(), "")

	assert.True(t, errors.Is(err, core.ErrUnauthorized))
}

func TestService_DeleteMe(t *testing.T) {
	tests := []struct {
		name    string
		self    *User
		admins  int
		wantErr error
	}{
		{name: "last administrador", self: member("admin-1", "Administrador"), admins: 1, wantErr: core.ErrConflict},
		{name: "one of two administradores", self: member("admin-1", "Administrador"), admins: 2},
		{name: "colaborador", self: member("u-3", "Colaborador")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			repo.On("GetByID", mock.Anything, tt.self.ID).Return(tt.self, nil)
			repo.On("CountAdmins", mock.Anything, "org-1").Return(tt.admins, nil)
			repo.On("SoftDelete", mock.Anything, tt.self.ID).Return(nil)

			svc := NewService(repo, new(mockCounter), nil)
			err := svc.DeleteMe(context.Background(), tt.self.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			repo.AssertCalled(t, "SoftDelete", mock.Anything, tt.self.ID)
		})
	}
}
