// AngelaMos | 2026
// wire.go

package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/metaconstrutor/api/internal/access"
	"github.com/metaconstrutor/api/internal/activity"
	"github.com/metaconstrutor/api/internal/admin"
	"github.com/metaconstrutor/api/internal/auth"
	"github.com/metaconstrutor/api/internal/config"
	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/equipamento"
	"github.com/metaconstrutor/api/internal/equipe"
	"github.com/metaconstrutor/api/internal/health"
	"github.com/metaconstrutor/api/internal/middleware"
	"github.com/metaconstrutor/api/internal/obra"
	"github.com/metaconstrutor/api/internal/rdo"
	"github.com/metaconstrutor/api/internal/server"
	"github.com/metaconstrutor/api/internal/usage"
	"github.com/metaconstrutor/api/internal/user"
)

type infrastructure struct {
	db        *core.Database
	redis     *core.Redis
	telemetry *core.Telemetry
}

// connect opens Postgres and Redis and installs tracing. A tracing failure
// is logged and the service runs without spans.
func connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*infrastructure, error) {
	infra := &infrastructure{}

	tel, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
		tel = &core.Telemetry{}
	}
	infra.telemetry = tel

	if infra.db, err = core.NewDatabase(ctx, cfg.Database); err != nil {
		return nil, err
	}
	logger.Info("database connected", "max_open_conns", cfg.Database.MaxOpenConns)

	if infra.redis, err = core.NewRedis(ctx, cfg.Redis); err != nil {
		infra.close(logger)
		return nil, err
	}
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	return infra, nil
}

func (i *infrastructure) close(logger *slog.Logger) {
	if err := i.redis.Close(); err != nil {
		logger.Error("redis close", "error", err)
	}
	if err := i.db.Close(); err != nil {
		logger.Error("database close", "error", err)
	}
}

// buildServer wires every feature package onto one router. Everything
// under /v1 except sign-in goes through token verification and then the
// per-organization plan budget.
func buildServer(
	cfg *config.Config,
	infra *infrastructure,
	logger *slog.Logger,
) (*server.Server, auth.Repository, error) {
	db, rdb := infra.db.DB, infra.redis.Client

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("signing key loaded", "algorithm", "ES256", "key_id", jwtManager.KeyID())

	feed := activity.NewFeed(rdb, activity.Config{
		MaxEntries: cfg.Activity.MaxEntries,
		TTL:        cfg.Activity.TTL,
	}, logger)
	counter := usage.NewRepository(db)

	users := user.NewService(user.NewRepository(db), counter, feed)
	authRepo := auth.NewRepository(db)
	authSvc := auth.NewService(authRepo, jwtManager, users, rdb)

	deps := []health.Dependency{
		{Name: "database", Checker: infra.db},
		{Name: "redis", Checker: infra.redis},
	}
	healthHandler := health.NewHandler(deps...)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()
	router.Use(
		middleware.RequestID,
		middleware.Tracing,
		middleware.Logger(logger),
		middleware.IPRateLimiter(rdb, middleware.PerMinute(cfg.RateLimit.Requests, cfg.RateLimit.Burst)),
		middleware.SecurityHeaders(cfg.IsProduction()),
		middleware.CORS(cfg.CORS),
	)

	healthHandler.RegisterRoutes(router)
	router.Get("/.well-known/jwks.json", jwtManager.JWKSHandler())

	budgets, unknown := middleware.PlanBudgetsWithOverrides(cfg.RateLimit.PlanRequests)
	if len(unknown) > 0 {
		logger.Warn("ignoring rate limit overrides for unknown plans", "plans", unknown)
	}
	verify := middleware.Authenticator(authSvc)
	throttle := middleware.PlanRateLimiter(rdb, budgets)
	authenticated := func(next http.Handler) http.Handler {
		return verify(throttle(next))
	}

	type routes interface {
		RegisterRoutes(chi.Router, func(http.Handler) http.Handler)
	}
	features := []routes{
		auth.NewHandler(authSvc),
		user.NewHandler(users),
		access.NewHandler(counter),
		activity.NewHandler(feed),
		obra.NewHandler(obra.NewService(obra.NewRepository(db), counter, feed)),
		rdo.NewHandler(rdo.NewService(rdo.NewRepository(db), feed)),
		equipe.NewHandler(equipe.NewService(equipe.NewRepository(db), feed)),
		equipamento.NewHandler(equipamento.NewService(equipamento.NewRepository(db), feed)),
		admin.NewHandler(admin.HandlerConfig{
			DBStats:      infra.db.Stats,
			RedisStats:   infra.redis.PoolStats,
			Dependencies: deps,
			Counter:      counter,
			Activity:     feed,
		}),
	}

	router.Route("/v1", func(r chi.Router) {
		for _, f := range features {
			f.RegisterRoutes(r, authenticated)
		}
	})

	return srv, authRepo, nil
}
