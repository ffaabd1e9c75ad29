// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/health"
	"github.com/metaconstrutor/api/internal/middleware"
	"github.com/metaconstrutor/api/internal/permission"
)

type stubCounter struct{}

func (stubCounter) Count(context.Context, string) (permission.Usage, error) {
	return permission.Usage{Obras: 3, Usuarios: 2, Creditos: 120}, nil
}

type stubStore struct {
	cleared string
}

func (s *stubStore) Clear(_ context.Context, org string) error {
	s.cleared = org
	return nil
}

func router(h *Handler, role string) http.Handler {
	sess := permission.NewSession("u-1", "org-1", []string{role}, "basic")

	r := chi.NewRouter()
	h.RegisterRoutes(r, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithSession(req.Context(), sess)))
		})
	})
	return r
}

func newHandler(store *stubStore) *Handler {
	return NewHandler(HandlerConfig{
		Dependencies: []health.Dependency{
			{Name: "database", Checker: health.CheckerFunc(func(context.Context) error { return nil })},
		},
		Counter:  stubCounter{},
		Activity: store,
	})
}

func TestStats_Gate(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{role: "Administrador", want: http.StatusOK},
		{role: "Gerente", want: http.StatusForbidden},
		{role: "Colaborador", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router(newHandler(&stubStore{}), tt.role).
				ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestOrganizationUsage(t *testing.T) {
	rec := httptest.NewRecorder()
	router(newHandler(&stubStore{}), "Administrador").
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/organizacao", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data OrganizationUsageResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, 2, body.Data.Remaining["obras"])
	assert.Equal(t, 1, body.Data.Remaining["usuarios"])
	assert.Equal(t, 380, body.Data.Remaining["creditos"])
}

func TestClearActivity(t *testing.T) {
	store := &stubStore{}

	rec := httptest.NewRecorder()
	router(newHandler(store), "Administrador").
		ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/atividades", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "org-1", store.cleared)

	rec = httptest.NewRecorder()
	router(newHandler(&stubStore{}), "Gerente").
		ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/atividades", nil))

	var body core.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "PERMISSION_DENIED", body.Error.Code)
}
