// AngelaMos | 2026
// handler_test.go

package access

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaconstrutor/api/internal/middleware"
	"github.com/metaconstrutor/api/internal/permission"
)

type fixedCounter struct {
	usage permission.Usage
	err   error
}

func (c fixedCounter) Count(context.Context, string) (permission.Usage, error) {
	return c.usage, c.err
}

func serve(t *testing.T, counter fixedCounter, sess permission.Session, target string) (int, map[string]any) {
	t.Helper()

	r := chi.NewRouter()
	NewHandler(counter).RegisterRoutes(r, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithSession(req.Context(), sess)))
		})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestHandler_Me_FreePlanAtLimit(t *testing.T) {
	sess := permission.NewSession("u-1", "org-1", []string{"Administrador"}, "free")

	code, body := serve(t, fixedCounter{usage: permission.Usage{Obras: 1, Usuarios: 1}}, sess, "/me/permissions")
	require.Equal(t, http.StatusOK, code)

	data := body["data"].(map[string]any)
	assert.Equal(t, "free", data["plan"])

	caps := data["capabilities"].(map[string]any)
	obras := caps["resources"].(map[string]any)["obras"].(map[string]any)
	assert.Equal(t, true, obras["is_at_limit"])
	assert.Equal(t, false, obras["can_create"])
	assert.Equal(t, true, obras["can_edit"])
}

func TestHandler_Me_CounterFailure(t *testing.T) {
	sess := permission.NewSession("u-1", "org-1", []string{"Gerente"}, "pro")

	code, body := serve(t, fixedCounter{err: assert.AnError}, sess, "/me/permissions")

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, false, body["success"])
}

func TestHandler_Check(t *testing.T) {
	gerente := permission.NewSession("u-2", "org-1", []string{"Gerente"}, "pro")

	tests := []struct {
		name       string
		query      string
		wantRoute  any
		wantAction any
	}{
		{
			name:      "relatorios allowed",
			query:     "?route=/relatorios",
			wantRoute: true,
		},
		{
			name:      "configuracoes denied",
			query:     "?route=/configuracoes/geral",
			wantRoute: false,
		},
		{
			name:       "backup denied",
			query:      "?action=sistema.backup",
			wantAction: false,
		},
		{
			name:       "both",
			query:      "?route=/equipes&action=rdo.approve",
			wantRoute:  true,
			wantAction: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := serve(t, fixedCounter{}, gerente, "/permissions/check"+tt.query)
			require.Equal(t, http.StatusOK, code)

			data := body["data"].(map[string]any)
			if tt.wantRoute != nil {
				assert.Equal(t, tt.wantRoute, data["route"].(map[string]any)["allowed"])
			}
			if tt.wantAction != nil {
				assert.Equal(t, tt.wantAction, data["action"].(map[string]any)["allowed"])
			}
		})
	}
}

func TestHandler_Check_RequiresQuery(t *testing.T) {
	sess := permission.NewSession("u-1", "org-1", nil, "")

	code, _ := serve(t, fixedCounter{}, sess, "/permissions/check")
	assert.Equal(t, http.StatusBadRequest, code)
}
