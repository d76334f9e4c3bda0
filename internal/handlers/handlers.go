// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers is the thin HTTP adapter over the trust engine. The
// upstream auth gateway validates credentials and forwards the user
// identity in headers; everything here routes into library operations.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/unitywave/trustgate/internal/fingerprint"
	"github.com/unitywave/trustgate/internal/repository"
	"github.com/unitywave/trustgate/internal/services/audit"
	"github.com/unitywave/trustgate/internal/services/trust"
	"github.com/unitywave/trustgate/internal/services/verification"
)

// Identity headers set by the upstream gateway after credential
// validation.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	repo         *repository.Repository
	trust        *trust.Service
	verification *verification.Service
	audit        *audit.Service
	extractor    *fingerprint.Extractor
}

// New creates a new Handlers instance.
func New(repo *repository.Repository, trustSvc *trust.Service, verificationSvc *verification.Service, auditSvc *audit.Service, extractor *fingerprint.Extractor) *Handlers {
	return &Handlers{
		repo:         repo,
		trust:        trustSvc,
		verification: verificationSvc,
		audit:        auditSvc,
		extractor:    extractor,
	}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// identity reads the authenticated user from the gateway headers.
func identity(c echo.Context) (uuid.UUID, string, error) {
	rawID := c.Request().Header.Get(HeaderUserID)
	email := c.Request().Header.Get(HeaderUserEmail)

	if rawID == "" || email == "" {
		return uuid.Nil, "", fmt.Errorf("missing identity headers")
	}

	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid user id: %w", err)
	}

	return userID, email, nil
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"message": msg})
}
