// AngelaMos | 2026
// handler_test.go

package obra

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/middleware"
	"github.com/metaconstrutor/api/internal/permission"
)

func withSession(s permission.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithSession(r.Context(), s)))
		})
	}
}

func newRouter(svc *Service, s permission.Session) http.Handler {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, withSession(s))
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) core.Response {
	t.Helper()
	var body core.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHandler_Create_PlanLimit(t *testing.T) {
	repo := new(mockRepo)
	counter := new(mockCounter)
	counter.On("Count", mock.Anything, "org-1").Return(permission.Usage{Obras: 1}, nil)

	router := newRouter(NewService(repo, counter, nil), session("Administrador", "free"))

	req := httptest.NewRequest(http.MethodPost, "/obras", strings.NewReader(`{"name":"Torre"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "PLAN_LIMIT_REACHED", body.Error.Code)
}

func TestHandler_Create_Validation(t *testing.T) {
	router := newRouter(NewService(new(mockRepo), new(mockCounter), nil), session("Administrador", "pro"))

	req := httptest.NewRequest(http.MethodPost, "/obras", strings.NewReader(`{"status":"demolida"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
}

func TestHandler_Create_BackendFailure(t *testing.T) {
	counter := new(mockCounter)
	counter.On("Count", mock.Anything, "org-1").Return(permission.Usage{}, assert.AnError)

	router := newRouter(NewService(new(mockRepo), counter, nil), session("Administrador", "pro"))

	req := httptest.NewRequest(http.MethodPost, "/obras", strings.NewReader(`{"name":"Torre"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Contains(t, body.Error.Message, "try again")
}

func TestHandler_Get_NotFound(t *testing.T) {
	missing := "7d4f2a9e-5b1c-4c8e-9a3f-1e2d3c4b5a69"
	tests := []struct {
		name string
		path string
	}{
		{"unknown id", "/obras/" + missing},
		{"malformed id", "/obras/not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			repo.On("GetByID", mock.Anything, "org-1", missing).Return(nil, core.ErrNotFound)

			router := newRouter(NewService(repo, new(mockCounter), nil), session("Colaborador", "pro"))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusNotFound, rec.Code)
			body := decodeBody(t, rec)
			require.NotNil(t, body.Error)
			assert.Equal(t, "NOT_FOUND", body.Error.Code)
		})
	}
}

func TestHandler_Delete_MalformedIDSkipsRepository(t *testing.T) {
	repo := new(mockRepo)
	router := newRouter(NewService(repo, new(mockCounter), nil), session("Administrador", "pro"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/obras/42", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_List(t *testing.T) {
	repo := new(mockRepo)
	repo.On("List", mock.Anything, "org-1", mock.MatchedBy(func(p ListObrasParams) bool {
		return p.Status == "pausada" && p.Page == 2
	})).Return([]Obra{{ID: "o-1", Name: "Escola"}}, 21, nil)

	router := newRouter(NewService(repo, new(mockCounter), nil), session("Colaborador", "pro"))

	req := httptest.NewRequest(http.MethodGet, "/obras?status=pausada&page=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 21, body.Meta.Total)
}
