package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/goodwill/internal/app/apiapp"
	"github.com/ivankudzin/goodwill/internal/config"
	"github.com/ivankudzin/goodwill/internal/infra/logger"
)

const (
	defaultConfigPath = "configs/config.yaml"
	shutdownTimeout   = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := configPath(os.Getenv)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", cfgPath, err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Env)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()
	log.Info("starting goodwill api", startupFields(cfgPath, cfg)...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := apiapp.New(ctx, cfg, log)
	if err != nil {
		log.Error("create api app", zap.Error(err))
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down goodwill api")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown api app", zap.Error(err))
			return err
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("api server failed", zap.Error(err))
			return err
		}
	}
	return nil
}

func configPath(getenv func(string) string) string {
	if path := getenv("APP_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

func startupFields(cfgPath string, cfg config.Config) []zap.Field {
	return []zap.Field{
		zap.String("config", cfgPath),
		zap.String("env", cfg.Env),
		zap.String("addr", cfg.HTTP.Addr),
		zap.Bool("migrate_on_start", cfg.Postgres.MigrateOnStart),
		zap.Int("monthly_likes", cfg.Remote.Limits.MonthlyLikes),
		zap.Int("new_user_likes", cfg.Remote.Limits.NewUserLikes),
	}
}
