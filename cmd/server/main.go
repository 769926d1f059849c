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

	"github.com/joho/godotenv"

	"github.com/garrettladley/payconiq/internal/callback"
	"github.com/garrettladley/payconiq/internal/config"
	"github.com/garrettladley/payconiq/internal/server"
	"github.com/garrettladley/payconiq/internal/server/handler"
	"github.com/garrettladley/payconiq/internal/service/webhook"
	"github.com/garrettladley/payconiq/internal/storage"
	"github.com/garrettladley/payconiq/internal/xhttp"
	"github.com/garrettladley/payconiq/internal/xslog"
)

const (
	keyPort         = "port"
	keyCertificates = "certificates_url"

	shutdownTimeout = 30 * time.Second
)

func main() {
	_ = godotenv.Load()

	logger := xslog.NewLoggerFromEnv(os.Stdout)
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", xslog.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Read()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if cfg.Payconiq.ProfileID == "" {
		return errors.New("PAYCONIQ_PROFILE_ID is required")
	}

	logger.InfoContext(ctx, "initializing cache", xslog.CacheDriver(string(cfg.Cache.Driver)))
	cache, err := storage.Open(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.ErrorContext(ctx, "failed to close cache", xslog.Error(err))
		}
	}()

	endpoints := cfg.Payconiq.Endpoints()
	verifier := callback.NewVerifier(cfg.Payconiq.ProfileID, endpoints.Certificates,
		callback.WithProduction(cfg.Payconiq.Env.IsProduction()),
		callback.WithCache(cache),
		callback.WithHTTPClient(xhttp.NewHTTPClient(
			xhttp.WithTimeout(cfg.Payconiq.Timeout),
			xhttp.WithConnectTimeout(cfg.Payconiq.ConnectTimeout),
		)),
		callback.WithLogger(logger),
	)

	processor := webhook.NewProcessor(verifier, cache, nil)

	httpServer := server.New(cfg.Port, server.NewHandler(logger, server.Handlers{
		Webhook: handler.NewWebhook(processor),
		Health:  handler.NewHealth(cache),
	}))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting server",
			xslog.Version(),
			slog.String(keyPort, cfg.Port),
			slog.String(keyCertificates, endpoints.Certificates),
			xslog.Production(cfg.Payconiq.Env.IsProduction()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
		logger.InfoContext(ctx, "shutdown signal received, initiating graceful shutdown")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.InfoContext(ctx, "server stopped")
	return nil
}
