// AngelaMos | 2026
// service_test.go

package obra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/metaconstrutor/api/internal/activity"
	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/permission"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, o *Obra) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, orgID, id string) (*Obra, error) {
	args := m.Called(ctx, orgID, id)
	if o := args.Get(0); o != nil {
		return o.(*Obra), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, o *Obra) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockRepo) SoftDelete(ctx context.Context, orgID, id string) error {
	return m.Called(ctx, orgID, id).Error(0)
}

func (m *mockRepo) List(ctx context.Context, orgID string, params ListObrasParams) ([]Obra, int, error) {
	args := m.Called(ctx, orgID, params)
	obras, _ := args.Get(0).([]Obra)
	return obras, args.Int(1), args.Error(2)
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

func session(role, planID string) permission.Session {
	return permission.NewSession("user-1", "org-1", []string{role}, planID)
}

func TestService_Create_PlanLimits(t *testing.T) {
	tests := []struct {
		name    string
		plan    string
		obras   int
		wantErr error
	}{
		{name: "free with no obras", plan: "free", obras: 0},
		{name: "free at one obra", plan: "free", obras: 1, wantErr: core.ErrPlanLimitReached},
		{name: "basic under quota", plan: "basic", obras: 4},
		{name: "basic at quota", plan: "basic", obras: 5, wantErr: core.ErrPlanLimitReached},
		{name: "pro over quota", plan: "pro", obras: 25, wantErr: core.ErrPlanLimitReached},
		{name: "business unlimited", plan: "business", obras: 500},
		{name: "unknown plan behaves as free", plan: "platinum", obras: 1, wantErr: core.ErrPlanLimitReached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			counter := new(mockCounter)
			rec := &recorder{}

			counter.On("Count", mock.Anything, "org-1").
				Return(permission.Usage{Obras: tt.obras}, nil)
			repo.On("Create", mock.Anything, mock.AnythingOfType("*obra.Obra")).Return(nil)

			svc := NewService(repo, counter, rec)
			o, err := svc.Create(context.Background(), session("Administrador", tt.plan), CreateObraRequest{
				Name: "Residencial Aurora",
			})

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				assert.Empty(t, rec.entries)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, StatusPlanejamento, o.Status)
			assert.Equal(t, "user-1", o.CreatedBy)
			assert.Equal(t, "org-1", o.OrganizationID)
			require.Len(t, rec.entries, 1)
			assert.Equal(t, "obras.create", rec.entries[0].Action)
		})
	}
}

func TestService_Create_ColaboradorDenied(t *testing.T) {
	repo := new(mockRepo)
	counter := new(mockCounter)
	counter.On("Count", mock.Anything, "org-1").Return(permission.Usage{}, nil)

	svc := NewService(repo, counter, nil)
	_, err := svc.Create(context.Background(), session("Colaborador", "enterprise"), CreateObraRequest{
		Name: "Galpão",
	})

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PERMISSION_DENIED", appErr.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	counter.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
}

func TestService_Create_InvalidDates(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)

	svc := NewService(new(mockRepo), new(mockCounter), nil)
	_, err := svc.Create(context.Background(), session("Gerente", "pro"), CreateObraRequest{
		Name:      "Ponte",
		StartDate: &start,
		EndDate:   &end,
	})

	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestService_Update(t *testing.T) {
	existing := func() *Obra {
		return &Obra{ID: "o-1", OrganizationID: "org-1", Name: "Antiga", Status: StatusPlanejamento}
	}

	t.Run("applies partial fields", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetByID", mock.Anything, "org-1", "o-1").Return(existing(), nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		status := "em_andamento"
		svc := NewService(repo, new(mockCounter), nil)
		o, err := svc.Update(context.Background(), session("Gerente", "free"), "o-1", UpdateObraRequest{
			Status: &status,
		})
		require.NoError(t, err)

		assert.Equal(t, StatusEmAndamento, o.Status)
		assert.Equal(t, "Antiga", o.Name)
	})

	t.Run("colaborador cannot edit", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, new(mockCounter), nil)
		_, err := svc.Update(context.Background(), session("Colaborador", "pro"), "o-1", UpdateObraRequest{})

		assert.True(t, errors.Is(err, core.ErrPermissionDenied))
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("edits ignore quota", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetByID", mock.Anything, "org-1", "o-1").Return(existing(), nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		svc := NewService(repo, new(mockCounter), nil)
		_, err := svc.Update(context.Background(), session("Administrador", "free"), "o-1", UpdateObraRequest{})
		require.NoError(t, err)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("gerente deletes", func(t *testing.T) {
		repo := new(mockRepo)
		rec := &recorder{}
		repo.On("SoftDelete", mock.Anything, "org-1", "o-1").Return(nil)

		svc := NewService(repo, new(mockCounter), rec)
		require.NoError(t, svc.Delete(context.Background(), session("Gerente", "pro"), "o-1"))
		assert.Len(t, rec.entries, 1)
	})

	t.Run("missing obra", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("SoftDelete", mock.Anything, "org-1", "o-9").
			Return(core.ErrNotFound)

		rec := &recorder{}
		svc := NewService(repo, new(mockCounter), rec)
		err := svc.Delete(context.Background(), session("Administrador", "pro"), "o-9")

		assert.True(t, errors.Is(err, core.ErrNotFound))
		assert.Empty(t, rec.entries)
	})
}
