// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/health"
	"github.com/metaconstrutor/api/internal/middleware"
	"github.com/metaconstrutor/api/internal/permission"
	"github.com/metaconstrutor/api/internal/plan"
	"github.com/metaconstrutor/api/internal/usage"
)

type ActivityStore interface {
	Clear(ctx context.Context, organizationID string) error
}

type Handler struct {
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	deps       []health.Dependency
	counter    usage.Counter
	activity   ActivityStore
	startedAt  time.Time
}

type HandlerConfig struct {
	DBStats      func() sql.DBStats
	RedisStats   func() *redis.PoolStats
	Dependencies []health.Dependency
	Counter      usage.Counter
	Activity     ActivityStore
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		deps:       cfg.Dependencies,
		counter:    cfg.Counter,
		activity:   cfg.Activity,
		startedAt:  time.Now(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAction(permission.ActionSistemaLogs))

			r.Get("/stats", h.GetSystemStats)
			r.Get("/stats/runtime", h.GetRuntimeStats)
			r.Get("/organizacao", h.GetOrganizationUsage)
		})

		r.With(middleware.RequireAction(permission.ActionSistemaBackup)).
			Delete("/atividades", h.ClearActivity)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	checks := health.Run(r.Context(), h.deps)

	core.OK(w, SystemStatsResponse{
		Healthy:  health.AllHealthy(checks),
		Checks:   checks,
		Database: h.getDBStats(),
		Redis:    h.getRedisStats(),
		Runtime:  h.runtimeStats(),
	})
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.runtimeStats())
}

// GetOrganizationUsage reports the caller's organization against its plan.
func (h *Handler) GetOrganizationUsage(w http.ResponseWriter, r *http.Request) {
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
	core.OK(w, OrganizationUsageResponse{
		OrganizationID: sess.OrganizationID,
		Limits:         limits,
		Usage:          current,
		Remaining: map[plan.Resource]int{
			plan.ResourceObras:    limits.Remaining(plan.ResourceObras, current.Obras),
			plan.ResourceUsuarios: limits.Remaining(plan.ResourceUsuarios, current.Usuarios),
			plan.ResourceCreditos: limits.Remaining(plan.ResourceCreditos, current.Creditos),
		},
	})
}

func (h *Handler) ClearActivity(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.RequireSession(w, r)
	if !ok {
		return
	}

	if err := h.activity.Clear(r.Context(), sess.OrganizationID); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) runtimeStats() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		Uptime:       time.Since(h.startedAt).Round(time.Second).String(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     mem.Alloc,
		MemSys:       mem.Sys,
		NumGC:        mem.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}
