package app

import (
	"context"
	"os"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog"

	v1 "github.com/avgarcia/go-tasklist/internal/delivery/http/v1"
	"github.com/avgarcia/go-tasklist/internal/services"
	"github.com/avgarcia/go-tasklist/internal/storage"
)

// Run wires the application together: config, logger, database, services,
// and the HTTP server. Everything is constructed here and passed down;
// nothing lives in package-level state.
func Run() error {
	bootstrapLogger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger()

	cfg, err := readConfig()
	if err != nil {
		bootstrapLogger.Error().
			Err(err).
			Msg("failed to read env")
		return err
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		bootstrapLogger.Error().
			Err(err).
			Str("env", cfg.Env).
			Msg("failed to build logger")
		return err
	}
	logger.Info().
		Str("env", cfg.Env).
		Msg("read env")

	ctx := context.Background()
	pgPool, err := connectPostgres(ctx, logger, cfg.Postgres)
	if err != nil {
		return err
	}
	defer func() {
		pgPool.Close()
		logger.Info().Msg("disconnected from postgres")
	}()

	store := storage.NewPostgresStore(logger, pgPool)
	err = store.Migrate(ctx)
	if err != nil {
		return err
	}

	authService := services.NewAuthService(logger, store, argon2id.DefaultParams, cfg.Auth.AutoRegister)
	taskService := services.NewTaskService(logger, store)

	handler := v1.New(
		logger,
		store,
		authService,
		taskService,
		cfg.Session.Issuer,
		[]byte(cfg.Session.SigningKey),
		cfg.Session.TTL,
	)

	return listenAndServeHTTP(cfg, logger, handler)
}
