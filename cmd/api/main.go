// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/metaconstrutor/api/internal/auth"
	"github.com/metaconstrutor/api/internal/config"
	"github.com/metaconstrutor/api/internal/migrations"
)

const (
	drainDelay      = 5 * time.Second
	janitorInterval = time.Hour
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	generateKeys := flag.Bool("generate-keys", false, "write a new ES256 key pair to the configured paths and exit")
	migrate := flag.Bool("migrate", false, "apply pending schema migrations before serving")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	if *generateKeys {
		err = writeKeys(cfg.JWT)
	} else {
		err = run(cfg, *migrate)
	}
	if err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func writeKeys(cfg config.JWTConfig) error {
	if err := auth.GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath); err != nil {
		return fmt.Errorf("generate keys: %w", err)
	}
	slog.Info("key pair written", "private", cfg.PrivateKeyPath, "public", cfg.PublicKeyPath)
	return nil
}

func run(cfg *config.Config, migrate bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	logger.Info("starting",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	infra, err := connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer infra.close(logger)

	if migrate || cfg.Database.AutoMigrate {
		applied, err := migrations.Up(ctx, infra.db.DB, logger)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("schema up to date", "applied", applied)
	}

	srv, authRepo, err := buildServer(cfg, infra, logger)
	if err != nil {
		return err
	}

	go auth.RunJanitor(ctx, authRepo, janitorInterval, logger)

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+2*drainDelay,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := infra.telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown", "error", err)
	}

	logger.Info("stopped")
	return nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
