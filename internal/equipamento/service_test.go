// AngelaMos | 2026
// service_test.go

package equipamento

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
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, e *Equipamento) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, orgID, id string) (*Equipamento, error) {
	args := m.Called(ctx, orgID, id)
	if e := args.Get(0); e != nil {
		return e.(*Equipamento), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, e *Equipamento) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockRepo) SoftDelete(ctx context.Context, orgID, id string) error {
	return m.Called(ctx, orgID, id).Error(0)
}

func (m *mockRepo) List(
	ctx context.Context,
	orgID string,
	params ListEquipamentosParams,
) ([]Equipamento, int, error) {
	args := m.Called(ctx, orgID, params)
	items, _ := args.Get(0).([]Equipamento)
	return items, args.Int(1), args.Error(2)
}

type recorder struct {
	entries []activity.Entry
}

func (r *recorder) Record(_ context.Context, e activity.Entry) {
	r.entries = append(r.entries, e)
}

func session(role string) permission.Session {
	return permission.NewSession("user-1", "org-1", []string{role}, "basic")
}

func TestService_ColaboradorViewsOnly(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetByID", mock.Anything, "org-1", "eq-1").
		Return(&Equipamento{ID: "eq-1", OrganizationID: "org-1", Status: StatusDisponivel}, nil)

	svc := NewService(repo, nil)

	_, err := svc.Get(context.Background(), session("Colaborador"), "eq-1")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), session("Colaborador"), "eq-1")
	assert.True(t, errors.Is(err, core.ErrPermissionDenied))
	repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Create(t *testing.T) {
	obraID := "7c9e6679-7425-40de-944b-e07fc1f90ae7"

	tests := []struct {
		name    string
		req     CreateEquipamentoRequest
		want    Status
		wantErr error
	}{
		{
			name: "defaults to disponivel",
			req:  CreateEquipamentoRequest{Name: "Betoneira"},
			want: StatusDisponivel,
		},
		{
			name: "in use with obra",
			req:  CreateEquipamentoRequest{Name: "Grua", Status: "em_uso", ObraID: &obraID},
			want: StatusEmUso,
		},
		{
			name:    "in use without obra",
			req:     CreateEquipamentoRequest{Name: "Grua", Status: "em_uso"},
			wantErr: core.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			rec := &recorder{}
			repo.On("Create", mock.Anything, mock.Anything).Return(nil)

			svc := NewService(repo, rec)
			e, err := svc.Create(context.Background(), session("Gerente"), tt.req)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Status)
			require.Len(t, rec.entries, 1)
			assert.Equal(t, "equipamentos", rec.entries[0].Kind)
		})
	}
}

func TestService_Update_Maintenance(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetByID", mock.Anything, "org-1", "eq-1").
		Return(&Equipamento{ID: "eq-1", OrganizationID: "org-1", Name: "Serra", Status: StatusDisponivel}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	status := "manutencao"
	svc := NewService(repo, nil)
	e, err := svc.Update(context.Background(), session("Administrador"), "eq-1", UpdateEquipamentoRequest{
		Status: &status,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusManutencao, e.Status)
}
