// AngelaMos | 2026
// handler.go

// Package access exposes the caller's resolved permissions over HTTP.
package access

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/middleware"
	"github.com/metaconstrutor/api/internal/permission"
	"github.com/metaconstrutor/api/internal/plan"
	"github.com/metaconstrutor/api/internal/usage"
)

type Handler struct {
	counter usage.Counter
}

func NewHandler(counter usage.Counter) *Handler {
	return &Handler{counter: counter}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me/permissions", h.Me)
		r.Get("/permissions/check", h.Check)
	})
}

type PermissionsResponse struct {
	UserID       string                  `json:"user_id"`
	Roles        []string                `json:"roles"`
	Plan         plan.ID                 `json:"plan"`
	Limits       plan.Limits             `json:"limits"`
	Usage        permission.Usage        `json:"usage"`
	Actions      []permission.Action     `json:"actions"`
	Capabilities permission.Capabilities `json:"capabilities"`
}

type CheckResponse struct {
	Route  *RouteCheck  `json:"route,omitempty"`
	Action *ActionCheck `json:"action,omitempty"`
}

type RouteCheck struct {
	Path    string `json:"path"`
	Allowed bool   `json:"allowed"`
}

type ActionCheck struct {
	Name    string `json:"name"`
	Known   bool   `json:"known"`
	Allowed bool   `json:"allowed"`
}

// Me resolves the caller's capabilities against a fresh usage count.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	current, err := h.counter.Count(r.Context(), sess.OrganizationID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	limits := sess.Limits()

	core.OK(w, PermissionsResponse{
		UserID:       sess.UserID,
		Roles:        sess.RoleNames(),
		Plan:         limits.Plan,
		Limits:       limits,
		Usage:        current,
		Actions:      sess.Actions(),
		Capabilities: permission.Resolve(sess, limits, current),
	})
}

// Check answers ?route= and ?action= queries for the caller. At least one
// must be given.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	route := r.URL.Query().Get("route")
	action := r.URL.Query().Get("action")

	if route == "" && action == "" {
		core.BadRequest(w, "route or action is required")
		return
	}

	var resp CheckResponse

	if route != "" {
		resp.Route = &RouteCheck{
			Path:    permission.NormalizeRoute(route),
			Allowed: sess.CanAccess(route),
		}
	}

	if action != "" {
		a, known := permission.ParseAction(action)
		resp.Action = &ActionCheck{
			Name:    action,
			Known:   known,
			Allowed: known && sess.Can(a),
		}
	}

	core.OK(w, resp)
}
