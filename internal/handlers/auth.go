// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/unitywave/trustgate/internal/models"
	"github.com/unitywave/trustgate/internal/repository"
	"github.com/unitywave/trustgate/internal/services/trust"
	"github.com/unitywave/trustgate/internal/services/verification"
)

// User-facing responses. Security outcomes get distinct messages;
// internal failures all collapse to the same one.
const (
	msgTrusted     = "Login context verified"
	msgPending     = "Access blocked due to suspicious activity. Verification email was sent to your email address."
	msgBlocked     = "You've been blocked due to suspicious login activity. Please contact support."
	msgNoBaseline  = "Login verification failed"
	msgServerError = "Something went wrong"
	msgLinkInvalid = "Verification link is invalid or has expired"
	msgLoginOK     = "Login verified"
	msgDeviceBlock = "Device blocked"
)

// Evaluate runs the trust evaluation for the current sign-in attempt.
// The caller has already validated credentials; the response status maps
// the outcome: 200 trusted, 401 pending verification, 403 blocked, 500
// for no-baseline and internal failures (fail closed).
func (h *Handlers) Evaluate(c echo.Context) error {
	userID, email, err := identity(c)
	if err != nil {
		return message(c, http.StatusBadRequest, msgServerError)
	}

	ctx := c.Request().Context()
	fp := h.extractor.FromRequest(c.Request())

	outcome, err := h.trust.Evaluate(ctx, userID, email, fp)
	if err != nil {
		slog.Error("trust evaluation failed", "user_id", userID, "error", err)
		h.audit.Record(ctx, models.CategorySignIn, models.LevelError, "trust evaluation failed", nil)
		return message(c, http.StatusInternalServerError, msgServerError)
	}

	switch outcome.Decision {
	case trust.Trusted:
		return message(c, http.StatusOK, msgTrusted)

	case trust.Blocked:
		return message(c, http.StatusForbidden, msgBlocked)

	case trust.PendingVerification:
		if outcome.FreshlyCreated {
			// The candidate write is already durable; a mail failure is
			// surfaced but rolls nothing back.
			if err := h.verification.IssuePendingVerification(ctx, outcome.Candidate); err != nil {
				slog.Error("could not send verification email", "user_id", userID, "error", err)
				return message(c, http.StatusInternalServerError, msgServerError)
			}
		}
		return message(c, http.StatusUnauthorized, msgPending)

	case trust.NoBaseline:
		slog.Error("evaluation without primary context", "user_id", userID)
		return message(c, http.StatusInternalServerError, msgNoBaseline)
	}

	return message(c, http.StatusInternalServerError, msgServerError)
}

// VerifyLogin consumes a verification link and promotes the candidate.
func (h *Handlers) VerifyLogin(c echo.Context) error {
	return h.consumeLink(c, h.verification.ConsumeLoginVerification, msgLoginOK)
}

// BlockDevice consumes a block link; the user reported the device as not
// theirs.
func (h *Handlers) BlockDevice(c echo.Context) error {
	return h.consumeLink(c, h.verification.ConsumeBlockLink, msgDeviceBlock)
}

type consumeFunc func(ctx context.Context, tokenID uuid.UUID, email string) error

func (h *Handlers) consumeLink(c echo.Context, consume consumeFunc, okMsg string) error {
	tokenID, email, err := linkParams(c)
	if err == nil {
		err = consume(c.Request().Context(), tokenID, email)
	}

	if errors.Is(err, verification.ErrInvalidVerification) {
		return message(c, http.StatusBadRequest, msgLinkInvalid)
	}
	if err != nil {
		slog.Error("could not consume verification link", "error", err)
		return message(c, http.StatusInternalServerError, msgServerError)
	}

	return message(c, http.StatusOK, okMsg)
}

// EstablishPrimary records the home context once, when signup email
// verification completes.
func (h *Handlers) EstablishPrimary(c echo.Context) error {
	userID, email, err := identity(c)
	if err != nil {
		return message(c, http.StatusBadRequest, msgServerError)
	}

	ctx := c.Request().Context()
	fp := h.extractor.FromRequest(c.Request())

	primary, err := h.trust.EstablishPrimary(ctx, userID, email, fp)
	if errors.Is(err, repository.ErrPrimaryExists) {
		return message(c, http.StatusConflict, "Primary context already exists")
	}
	if err != nil {
		slog.Error("could not establish primary context", "user_id", userID, "error", err)
		return message(c, http.StatusInternalServerError, msgServerError)
	}

	return c.JSON(http.StatusCreated, primary)
}

// LogoutEvent records a logout in the audit trail.
func (h *Handlers) LogoutEvent(c echo.Context) error {
	_, email, err := identity(c)
	if err != nil {
		return message(c, http.StatusBadRequest, msgServerError)
	}

	fp := h.extractor.FromRequest(c.Request())
	h.audit.Record(c.Request().Context(), models.CategoryLogout, models.LevelInfo, "user "+email+" signed out", &fp)
	return message(c, http.StatusOK, "ok")
}

// linkParams parses the token and email query parameters shared by both
// link consumers. Any parse failure maps to the uniform invalid-link
// response.
func linkParams(c echo.Context) (uuid.UUID, string, error) {
	tokenID, err := uuid.Parse(c.QueryParam("token"))
	if err != nil {
		return uuid.Nil, "", verification.ErrInvalidVerification
	}

	email := c.QueryParam("email")
	if email == "" {
		return uuid.Nil, "", verification.ErrInvalidVerification
	}

	return tokenID, email, nil
}
