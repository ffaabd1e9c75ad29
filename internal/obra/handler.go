// AngelaMos | 2026
// handler.go

package obra

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/obras", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{obraID}", h.Get)
		r.Put("/{obraID}", h.Update)
		r.Delete("/{obraID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	params := ListObrasParams{
		PageParams: core.PageFromRequest(r),
		Search:     r.URL.Query().Get("search"),
		Status:     r.URL.Query().Get("status"),
	}

	obras, total, err := h.service.List(r.Context(), sess, params)
	if err != nil {
		core.HandleServiceError(w, err, "obra")
		return
	}

	core.Paginated(w, ToObraResponseList(obras), params.Page, params.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	id, ok := core.PathID(w, r, "obraID", "obra")
	if !ok {
		return
	}

	o, err := h.service.Get(r.Context(), sess, id)
	if err != nil {
		core.HandleServiceError(w, err, "obra")
		return
	}

	core.OK(w, ToObraResponse(o))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	var req CreateObraRequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	o, err := h.service.Create(r.Context(), sess, req)
	if err != nil {
		core.HandleServiceError(w, err, "obra")
		return
	}

	core.Created(w, ToObraResponse(o))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	var req UpdateObraRequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	id, ok := core.PathID(w, r, "obraID", "obra")
	if !ok {
		return
	}

	o, err := h.service.Update(r.Context(), sess, id, req)
	if err != nil {
		core.HandleServiceError(w, err, "obra")
		return
	}

	core.OK(w, ToObraResponse(o))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	id, ok := core.PathID(w, r, "obraID", "obra")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), sess, id); err != nil {
		core.HandleServiceError(w, err, "obra")
		return
	}

	core.NoContent(w)
}
