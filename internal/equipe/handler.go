// AngelaMos | 2026
// handler.go

package equipe

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
	r.Route("/equipes", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{equipeID}", h.Get)
		r.Put("/{equipeID}", h.Update)
		r.Delete("/{equipeID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	params := ListEquipesParams{
		PageParams: core.PageFromRequest(r),
		ObraID:     r.URL.Query().Get("obra_id"),
	}

	equipes, total, err := h.service.List(r.Context(), sess, params)
	if err != nil {
		core.HandleServiceError(w, err, "equipe")
		return
	}

	core.Paginated(w, ToEquipeResponseList(equipes), params.Page, params.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	id, ok := core.PathID(w, r, "equipeID", "equipe")
	if !ok {
		return
	}

	e, err := h.service.Get(r.Context(), sess, id)
	if err != nil {
		core.HandleServiceError(w, err, "equipe")
		return
	}

	core.OK(w, ToEquipeResponse(e))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	var req CreateEquipeRequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	e, err := h.service.Create(r.Context(), sess, req)
	if err != nil {
		core.HandleServiceError(w, err, "equipe")
		return
	}

	core.Created(w, ToEquipeResponse(e))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	var req UpdateEquipeRequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	id, ok := core.PathID(w, r, "equipeID", "equipe")
	if !ok {
		return
	}

	e, err := h.service.Update(r.Context(), sess, id, req)
	if err != nil {
		core.HandleServiceError(w, err, "equipe")
		return
	}

	core.OK(w, ToEquipeResponse(e))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	id, ok := core.PathID(w, r, "equipeID", "equipe")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), sess, id); err != nil {
		core.HandleServiceError(w, err, "equipe")
		return
	}

	core.NoContent(w)
}
