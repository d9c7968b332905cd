package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/avgarcia/go-tasklist/internal/config"
	v1 "github.com/avgarcia/go-tasklist/internal/delivery/http/v1"
)

func listenAndServeHTTP(cfg *config.Config, logger zerolog.Logger, handler v1.Handler) error {
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	v1.RegisterRoutes(router, handler)

	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("host", cfg.HTTP.Host).
			Str("port", cfg.HTTP.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for the interrupt signal to gracefully shut down the server.
	// kill (no params) by default sends syscall.SIGTERM,
	// kill -2 is syscall.SIGINT.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		logger.Error().
			Err(err).
			Msg("failed to listen and serve http")
		return err
	case <-quit:
	}

	logger.Info().Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		return err
	}
	logger.Info().Msg("shut down http server")

	return nil
}
