// AngelaMos | 2026
// handler.go

package equipamento

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
	r.Route("/equipamentos", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{equipamentoID}", h.Get)
		r.Put("/{equipamentoID}", h.Update)
		r.Delete("/{equipamentoID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	params := ListEquipamentosParams{
		PageParams: core.PageFromRequest(r),
		ObraID:     r.URL.Query().Get("obra_id"),
		Status:     r.URL.Query().Get("status"),
		Category:   r.URL.Query().Get("categoria"),
	}

	items, total, err := h.service.List(r.Context(), sess, params)
	if err != nil {
		core.HandleServiceError(w, err, "equipamento")
		return
	}

	core.Paginated(w, ToEquipamentoResponseList(items), params.Page, params.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	id, ok := core.PathID(w, r, "equipamentoID", "equipamento")
	if !ok {
		return
	}

	e, err := h.service.Get(r.Context(), sess, id)
	if err != nil {
		core.HandleServiceError(w, err, "equipamento")
		return
	}

	core.OK(w, ToEquipamentoResponse(e))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	var req CreateEquipamentoRequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	e, err := h.service.Create(r.Context(), sess, req)
	if err != nil {
		core.HandleServiceError(w, err, "equipamento")
		return
	}

	core.Created(w, ToEquipamentoResponse(e))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	var req UpdateEquipamentoRequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	id, ok := core.PathID(w, r, "equipamentoID", "equipamento")
	if !ok {
		return
	}

	e, err := h.service.Update(r.Context(), sess, id, req)
	if err != nil {
		core.HandleServiceError(w, err, "equipamento")
		return
	}

	core.OK(w, ToEquipamentoResponse(e))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	id, ok := core.PathID(w, r, "equipamentoID", "equipamento")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), sess, id); err != nil {
		core.HandleServiceError(w, err, "equipamento")
		return
	}

	core.NoContent(w)
}
