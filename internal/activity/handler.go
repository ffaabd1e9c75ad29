// AngelaMos | 2026
// handler.go

package activity

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/middleware"
)

const defaultLimit = 50

type Reader interface {
	Recent(ctx context.Context, organizationID string, limit int) ([]Entry, error)
}

type Handler struct {
	feed Reader
}

func NewHandler(feed Reader) *Handler {
	return &Handler{feed: feed}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.With(authenticator).Get("/atividades", h.List)
}

// List returns the caller's organization feed. Every role may read it.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	limit := core.QueryInt(r, "limit", defaultLimit)

	entries, err := h.feed.Recent(r.Context(), sess.OrganizationID, limit)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, entries)
}
