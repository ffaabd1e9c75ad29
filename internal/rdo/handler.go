// AngelaMos | 2026
// handler.go

package rdo

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
	r.Route("/rdos", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{rdoID}", h.Get)
		r.Put("/{rdoID}", h.Update)
		r.Delete("/{rdoID}", h.Delete)
		r.Post("/{rdoID}/enviar", h.Submit)
		r.Post("/{rdoID}/aprovar", h.Approve)
		r.Post("/{rdoID}/rejeitar", h.Reject)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	params := ListRDOsParams{
		PageParams: core.PageFromRequest(r),
		ObraID:     r.URL.Query().Get("obra_id"),
		Status:     r.URL.Query().Get("status"),
	}

	rdos, total, err := h.service.List(r.Context(), sess, params)
	if err != nil {
		core.HandleServiceError(w, err, "rdo")
		return
	}

	core.Paginated(w, ToRDOResponseList(rdos), params.Page, params.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	id, ok := core.PathID(w, r, "rdoID", "rdo")
	if !ok {
		return
	}

	rdo, err := h.service.Get(r.Context(), sess, id)
	if err != nil {
		core.HandleServiceError(w, err, "rdo")
		return
	}

	core.OK(w, ToRDOResponse(rdo))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	var req CreateRDORequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	rdo, err := h.service.Create(r.Context(), sess, req)
	if err != nil {
		core.HandleServiceError(w, err, "rdo")
		return
	}

	core.Created(w, ToRDOResponse(rdo))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	var req UpdateRDORequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	id, ok := core.PathID(w, r, "rdoID", "rdo")
	if !ok {
		return
	}

	rdo, err := h.service.Update(r.Context(), sess, id, req)
	if err != nil {
		core.HandleServiceError(w, err, "rdo")
		return
	}

	core.OK(w, ToRDOResponse(rdo))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	id, ok := core.PathID(w, r, "rdoID", "rdo")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), sess, id); err != nil {
		core.HandleServiceError(w, err, "rdo")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	id, ok := core.PathID(w, r, "rdoID", "rdo")
	if !ok {
		return
	}

	rdo, err := h.service.Submit(r.Context(), sess, id)
	if err != nil {
		core.HandleServiceError(w, err, "rdo")
		return
	}

	core.OK(w, ToRDOResponse(rdo))
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	id, ok := core.PathID(w, r, "rdoID", "rdo")
	if !ok {
		return
	}

	rdo, err := h.service.Approve(r.Context(), sess, id)
	if err != nil {
		core.HandleServiceError(w, err, "rdo")
		return
	}

	core.OK(w, ToRDOResponse(rdo))
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	var req RejectRDORequest
	if !core.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	id, ok := core.PathID(w, r, "rdoID", "rdo")
	if !ok {
		return
	}

	rdo, err := h.service.Reject(r.Context(), sess, id, req.Reason)
	if err != nil {
		core.HandleServiceError(w, err, "rdo")
		return
	}

	core.OK(w, ToRDOResponse(rdo))
}
