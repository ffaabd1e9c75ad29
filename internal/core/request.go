// AngelaMos | 2026
// request.go

package core

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// DecodeJSON reads the request body into dst and validates it, writing a
// 400 and returning false on failure.
func DecodeJSON(
	w http.ResponseWriter,
	r *http.Request,
	v *validator.Validate,
	dst any,
) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		BadRequest(w, "invalid request body")
		return false
	}

	if err := v.Struct(dst); err != nil {
		JSONError(w, ValidationError(FormatValidationError(err)))
		return false
	}

	return true
}

// PathID returns the URL parameter name. Ids are UUIDs, so anything else
// cannot match a row and gets a 404 for resource without a query.
func PathID(w http.ResponseWriter, r *http.Request, name, resource string) (string, bool) {
	id := chi.URLParam(r, name)
	if uuid.Validate(id) != nil {
		NotFound(w, resource)
		return "", false
	}
	return id, true
}
