package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms/api"
	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms/auth"
	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms/config"
)

type Config struct {
	Port        string        `env:"PORT" env-default:"8080"`
	Environment string        `env:"ENVIRONMENT" env-default:"development"`
	DatabaseURL string        `env:"DATABASE_URL" env-default:""`
	StorageURL  string        `env:"STORAGE_URL" env-default:""`
	TokenSecret string        `env:"TOKEN_SECRET" env-default:""`
	TokenTTL    time.Duration `env:"TOKEN_TTL" env-default:"12h"`
	LogFormat   string        `env:"LOG_FORMAT" env-default:"text"`
}

func main() {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("failed to read environment", "err", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	serverConfig, err := config.Load(
		config.WithServer(cfg.Port, cfg.Environment),
		config.WithDatabaseURL(cfg.DatabaseURL),
		config.WithStorageURL(cfg.StorageURL),
		config.WithToken(cfg.TokenSecret, cfg.TokenTTL),
	)
	if err != nil {
		logger.Error("failed to load server configuration", "err", err)
		os.Exit(1)
	}

	if serverConfig.DatabaseType == "postgres" {
		if err := config.PingPostgres(serverConfig.DatabaseURL); err != nil {
			logger.Error("database check failed", "err", err)
			os.Exit(1)
		}
	}

	svc, tagCache, err := serverConfig.BuildService()
	if err != nil {
		logger.Error("failed to build service", "err", err)
		os.Exit(1)
	}

	authSvc, err := serverConfig.BuildAuthService()
	if err != nil {
		logger.Error("failed to build auth service", "err", err)
		os.Exit(1)
	}
	if err := seedAdmin(authSvc, logger); err != nil {
		logger.Error("failed to seed admin account", "err", err)
		os.Exit(1)
	}

	server := api.NewServer(svc, authSvc, tagCache,
		api.WithEnvironment(serverConfig.Environment),
		api.WithLogger(logger),
	)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: server.Routes(),
	}

	go func() {
		logger.Info("aqua-cms server starting",
			"port", serverConfig.Port,
			"environment", serverConfig.Environment,
			"database", serverConfig.DatabaseType,
			"storage", serverConfig.DefaultStorageBackend)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
		os.Exit(1)
	}

	logger.Info("server exiting")
}

func newLogger(cfg Config) *slog.Logger {
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// seedAdmin creates a pre-confirmed editor account from ADMIN_EMAIL and
// ADMIN_PASSWORD so a fresh deployment has a way to sign in. Skipped when
// either variable is unset or the account already exists.
func seedAdmin(authSvc *auth.Service, logger *slog.Logger) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	ctx := context.Background()
	result, err := authSvc.SignUp(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return nil
		}
		return err
	}
	if err := authSvc.ConfirmSignUp(ctx, email, result.ConfirmationCode); err != nil {
		return err
	}

	logger.Info("seeded admin account", "email", email)
	return nil
}
