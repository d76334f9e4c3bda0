// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/unitywave/trustgate/internal/models"
	"github.com/unitywave/trustgate/internal/repository"
)

// GetPrimaryContext returns the caller's primary context.
func (h *Handlers) GetPrimaryContext(c echo.Context) error {
	userID, _, err := identity(c)
	if err != nil {
		return message(c, http.StatusBadRequest, msgServerError)
	}

	primary, err := h.repo.GetPrimaryContext(c.Request().Context(), userID)
	if errors.Is(err, repository.ErrNotFound) {
		return message(c, http.StatusNotFound, "Not found")
	}
	if err != nil {
		slog.Error("could not load primary context", "user_id", userID, "error", err)
		return message(c, http.StatusInternalServerError, msgServerError)
	}

	return c.JSON(http.StatusOK, primary)
}

// ListTrustedContexts returns the caller's known-good contexts.
func (h *Handlers) ListTrustedContexts(c echo.Context) error {
	userID, _, err := identity(c)
	if err != nil {
		return message(c, http.StatusBadRequest, msgServerError)
	}

	list, err := h.repo.ListTrustedContexts(c.Request().Context(), userID)
	if err != nil {
		slog.Error("could not list trusted contexts", "user_id", userID, "error", err)
		return message(c, http.StatusInternalServerError, msgServerError)
	}

	return c.JSON(http.StatusOK, list)
}

// ListBlockedContexts returns the caller's blocked candidates.
func (h *Handlers) ListBlockedContexts(c echo.Context) error {
	userID, _, err := identity(c)
	if err != nil {
		return message(c, http.StatusBadRequest, msgServerError)
	}

	list, err := h.repo.ListBlockedCandidates(c.Request().Context(), userID)
	if err != nil {
		slog.Error("could not list blocked contexts", "user_id", userID, "error", err)
		return message(c, http.StatusInternalServerError, msgServerError)
	}

	return c.JSON(http.StatusOK, list)
}

// DeleteContext removes a candidate context by id.
func (h *Handlers) DeleteContext(c echo.Context) error {
	return h.mutateCandidate(c, h.repo.DeleteCandidateContext, "Context deleted")
}

// BlockContext blocks a candidate context by id.
func (h *Handlers) BlockContext(c echo.Context) error {
	return h.mutateCandidate(c, func(ctx context.Context, id int64) error {
		if err := h.repo.BlockCandidate(ctx, id); err != nil {
			return err
		}
		h.audit.Record(ctx, models.CategoryContext, models.LevelWarn, "context blocked by administrator", nil)
		return nil
	}, "Context blocked")
}

// UnblockContext lifts a block on a candidate context by id.
func (h *Handlers) UnblockContext(c echo.Context) error {
	return h.mutateCandidate(c, func(ctx context.Context, id int64) error {
		if err := h.repo.UnblockCandidate(ctx, id); err != nil {
			return err
		}
		h.audit.Record(ctx, models.CategoryContext, models.LevelInfo, "context unblocked by administrator", nil)
		return nil
	}, "Context unblocked")
}

func (h *Handlers) mutateCandidate(c echo.Context, mutate func(ctx context.Context, id int64) error, okMsg string) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return message(c, http.StatusBadRequest, "Invalid context id")
	}

	err = mutate(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return message(c, http.StatusNotFound, "Not found")
	}
	if err != nil {
		slog.Error("could not update candidate context", "id", id, "error", err)
		return message(c, http.StatusInternalServerError, msgServerError)
	}

	return message(c, http.StatusOK, okMsg)
}
