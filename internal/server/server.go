// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/unitywave/trustgate/internal/config"
	"github.com/unitywave/trustgate/internal/crypt"
	"github.com/unitywave/trustgate/internal/database"
	"github.com/unitywave/trustgate/internal/fingerprint"
	"github.com/unitywave/trustgate/internal/handlers"
	"github.com/unitywave/trustgate/internal/janitor"
	"github.com/unitywave/trustgate/internal/repository"
	"github.com/unitywave/trustgate/internal/services/audit"
	"github.com/unitywave/trustgate/internal/services/email"
	"github.com/unitywave/trustgate/internal/services/trust"
	"github.com/unitywave/trustgate/internal/services/verification"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting trustgate",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Field encryption key, loaded once
	codec, err := crypt.NewFromHex(cfg.Crypto.Key)
	if err != nil {
		return fmt.Errorf("failed to load encryption key: %w", err)
	}

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// Context extractor
	extractor, err := fingerprint.New(cfg.GeoIP.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open GeoIP database: %w", err)
	}
	defer func() {
		if closeErr := extractor.Close(); closeErr != nil {
			slog.Error("failed to close GeoIP reader", "error", closeErr)
		}
	}()

	// Services
	repo := repository.New(db, codec)
	auditSvc := audit.NewService(repo, codec)
	trustSvc := trust.NewService(repo, auditSvc)

	mailer, err := email.NewService(&cfg.SMTP, cfg.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to create email service: %w", err)
	}
	verificationSvc := verification.NewService(repo, mailer, auditSvc)

	// Retention sweeps
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go janitor.New(repo).Run(janitorCtx)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	setupMiddleware(e)
	setupRoutes(e, handlers.New(repo, trustSvc, verificationSvc, auditSvc, extractor))

	return startWithGracefulShutdown(ctx, e, cfg)
}

func setupRoutes(e *echo.Echo, h *handlers.Handlers) {
	e.GET("/health", h.Health)

	e.POST("/auth/evaluate", h.Evaluate)
	e.POST("/auth/primary", h.EstablishPrimary)
	e.POST("/auth/logout-event", h.LogoutEvent)
	e.GET("/auth/verify-login", h.VerifyLogin)
	e.GET("/auth/block-device", h.BlockDevice)

	e.GET("/context-data/primary", h.GetPrimaryContext)
	e.GET("/context-data/trusted", h.ListTrustedContexts)
	e.GET("/context-data/blocked", h.ListBlockedContexts)
	e.DELETE("/context-data/:id", h.DeleteContext)
	e.PATCH("/context-data/block/:id", h.BlockContext)
	e.PATCH("/context-data/unblock/:id", h.UnblockContext)
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
