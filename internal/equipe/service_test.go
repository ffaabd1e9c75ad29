// AngelaMos | 2026
// service_test.go

package equipe

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/permission"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, e *Equipe) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, orgID, id string) (*Equipe, error) {
	args := m.Called(ctx, orgID, id)
	if e := args.Get(0); e != nil {
		return e.(*Equipe), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, e *Equipe) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockRepo) SoftDelete(ctx context.Context, orgID, id string) error {
	return m.Called(ctx, orgID, id).Error(0)
}

func (m *mockRepo) List(ctx context.Context, orgID string, params ListEquipesParams) ([]Equipe, int, error) {
	args := m.Called(ctx, orgID, params)
	equipes, _ := args.Get(0).([]Equipe)
	return equipes, args.Int(1), args.Error(2)
}

func session(role string) permission.Session {
	return permission.NewSession("user-1", "org-1", []string{role}, "free")
}

func TestService_RoleGates(t *testing.T) {
	tests := []struct {
		role    string
		allowed bool
	}{
		{role: "Administrador", allowed: true},
		{role: "Gerente", allowed: true},
		{role: "Colaborador", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			repo := new(mockRepo)
			repo.On("List", mock.Anything, "org-1", mock.Anything).Return([]Equipe{}, 0, nil)
			repo.On("Create", mock.Anything, mock.Anything).Return(nil)

			svc := NewService(repo, nil)

			_, _, listErr := svc.List(context.Background(), session(tt.role), ListEquipesParams{})
			_, createErr := svc.Create(context.Background(), session(tt.role), CreateEquipeRequest{
				Name:    "Fundação",
				Members: []string{"João", "Maria"},
			})

			if tt.allowed {
				assert.NoError(t, listErr)
				assert.NoError(t, createErr)
				return
			}
			assert.True(t, errors.Is(listErr, core.ErrPermissionDenied))
			assert.True(t, errors.Is(createErr, core.ErrPermissionDenied))
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Create_NotMetered(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, nil)
	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), session("Gerente"), CreateEquipeRequest{Name: "Turno"})
		require.NoError(t, err)
	}
	repo.AssertNumberOfCalls(t, "Create", 3)
}

func TestService_Update_ReplacesMembers(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetByID", mock.Anything, "org-1", "eq-1").Return(&Equipe{
		ID:             "eq-1",
		OrganizationID: "org-1",
		Name:           "Acabamento",
		Members:        core.StringList{"Ana"},
	}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	members := []string{"Bruno", "Carla"}
	svc := NewService(repo, nil)
	e, err := svc.Update(context.Background(), session("Administrador"), "eq-1", UpdateEquipeRequest{
		Members: &members,
	})
	require.NoError(t, err)

	assert.Equal(t, core.StringList{"Bruno", "Carla"}, e.Members)
	assert.Equal(t, "Acabamento", e.Name)
}

func TestService_CreateForeignObra(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("create equipe: obra: %w", core.ErrNotFound))

	svc := NewService(repo, nil)
	other := "b5f1c0de-0000-4000-8000-000000000002"

	_, err := svc.Create(context.Background(), session("Gerente"), CreateEquipeRequest{
		ObraID: &other,
		Name:   "Fundação",
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}
