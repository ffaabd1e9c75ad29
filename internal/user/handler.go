// AngelaMos | 2026
// handler.go

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/middleware"
	"github.com/metaconstrutor/api/internal/permission"
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
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me", h.GetMe)
		r.Put("/me", h.UpdateMe)
		r.Delete("/me", h.DeleteMe)
	})

	r.Route("/usuarios", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireAction(permission.ActionUsuariosManage))

		r.Get("/", h.ListUsers)
		r.Post("/", h.InviteUser)
		r.Get("/{userID}", h.GetUser)
		r.Put("/{userID}", h.UpdateUser)
		r.Put("/{userID}/roles", h.UpdateUserRoles)
		r.Delete("/{userID}", h.DeleteUser)
	})

	r.Route("/organizacao", func(r chi.Router) {
		r.Use(authenticator)

		r.Put("/plano", h.UpdatePlan)
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		core.HandleServiceError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.UpdateMe(r.Context(), userID, req)
	if err != nil {
		core.HandleServiceError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.service.DeleteMe(r.Context(), userID); err != nil {
		core.HandleServiceError(w, err, "user")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	params := ListUsersParams{
		PageParams: core.PageFromRequest(r),
		Search:     r.URL.Query().Get("search"),
		Role:       r.URL.Query().Get("role"),
	}

	users, total, err := h.service.ListUsers(r.Context(), sess, params)
	if err != nil {
		core.HandleServiceError(w, err, "user")
		return
	}

	core.Paginated(
		w,
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) InviteUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	var req InviteUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.Invite(r.Context(), sess, req)
	if err != nil {
		core.HandleServiceError(w, err, "user")
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	id, ok := core.PathID(w, r, "userID", "user")
	if !ok {
		return
	}

	user, err := h.service.GetUser(r.Context(), sess, id)
	if err != nil {
		core.HandleServiceError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, ok := core.PathID(w, r, "userID", "user")
	if !ok {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), sess, id, req)
	if err != nil {
		core.HandleServiceError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateUserRoles(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	var req UpdateUserRolesRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, ok := core.PathID(w, r, "userID", "user")
	if !ok {
		return
	}

	user, err := h.service.UpdateUserRoles(r.Context(), sess, id, req.Roles)
	if err != nil {
		core.HandleServiceError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	var req UpdatePlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	limits, err := h.service.UpdatePlan(r.Context(), sess, req.Plan)
	if err != nil {
		core.HandleServiceError(w, err, "plan")
		return
	}

	core.OK(w, limits)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	id, ok := core.PathID(w, r, "userID", "user")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), sess, id); err != nil {
		core.HandleServiceError(w, err, "user")
		return
	}

	core.NoContent(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	return core.DecodeJSON(w, r, h.validator, dst)
}
