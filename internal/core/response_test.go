// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("get obra: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"permission", ErrPermissionDenied, http.StatusForbidden, "PERMISSION_DENIED"},
		{"plan limit", ErrPlanLimitReached, http.StatusForbidden, "PLAN_LIMIT_REACHED"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"duplicate", ErrDuplicateKey, http.StatusConflict, "DUPLICATE"},
		{"conflict", fmt.Errorf("rdo already approved: %w", ErrConflict), http.StatusConflict, "CONFLICT"},
		{"invalid", fmt.Errorf("end before start: %w", ErrInvalidInput), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"app error", PlanLimitError("upgrade to add more obras"), http.StatusForbidden, "PLAN_LIMIT_REACHED"},
		{"backend", fmt.Errorf("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleServiceError(rec, tt.err, "obra")

			assert.Equal(t, tt.status, rec.Code)
			body := decodeResponse(t, rec)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleServiceError_BackendHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleServiceError(rec, fmt.Errorf("pq: password authentication failed"), "obra")

	body := decodeResponse(t, rec)
	assert.NotContains(t, body.Error.Message, "password")
	assert.Contains(t, body.Error.Message, "try again")
}

func TestPaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []string{"a", "b"}, 2, 2, 5)

	body := decodeResponse(t, rec)
	require.NotNil(t, body.Meta)
	assert.True(t, body.Success)
	assert.Equal(t, 3, body.Meta.TotalPages)
	assert.Equal(t, 5, body.Meta.Total)
}

func TestPageFromRequest(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
		offset   int
	}{
		{"", 1, 20, 0},
		{"page=3&page_size=10", 3, 10, 20},
		{"page=0&page_size=1000", 1, 100, 0},
		{"page=abc&page_size=-4", 1, 20, 0},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/v1/obras?"+tt.query, nil)
		p := PageFromRequest(req)
		assert.Equal(t, tt.page, p.Page, tt.query)
		assert.Equal(t, tt.pageSize, p.PageSize, tt.query)
		assert.Equal(t, tt.offset, p.Offset(), tt.query)
	}
}

type decodeTarget struct {
	Name       string `json:"name"        validate:"required,min=3"`
	WorkedHour int    `json:"worked_hour" validate:"gte=0,lte=24"`
}

func TestDecodeJSON(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name    string
		body    string
		ok      bool
		code    string
		message string
	}{
		{"valid", `{"name":"Torre A","worked_hour":8}`, true, "", ""},
		{"malformed", `{"name":`, false, "BAD_REQUEST", ""},
		{"missing name", `{"worked_hour":8}`, false, "VALIDATION_ERROR", "name is required"},
		{"hours out of range", `{"name":"Torre A","worked_hour":30}`, false, "VALIDATION_ERROR", "worked_hour must be less than or equal to 24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var dst decodeTarget
			ok := DecodeJSON(rec, req, v, &dst)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, "Torre A", dst.Name)
				return
			}

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeResponse(t, rec)
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.message != "" {
				assert.Contains(t, body.Error.Message, tt.message)
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "worked_hours", toSnakeCase("WorkedHours"))
	assert.Equal(t, "obra_id", toSnakeCase("ObraID"))
}
