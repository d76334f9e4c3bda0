// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/unitywave/trustgate/internal/models"
)

// CreatePrimaryContext establishes the user's home context. A user can
// have at most one; a second call returns ErrPrimaryExists.
func (r *Repository) CreatePrimaryContext(ctx context.Context, userID uuid.UUID, email string, fp models.Fingerprint) (*models.PrimaryContext, error) {
	sealed, err := r.sealFingerprint(fp)
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO primary_contexts (user_id, email, ip, country, city, browser, os, platform, device, device_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, email, sealed.IP, sealed.Country, sealed.City, sealed.Browser,
		sealed.OS, sealed.Platform, sealed.Device, sealed.DeviceType)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrPrimaryExists
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.getPrimaryContext(ctx, `SELECT * FROM primary_contexts WHERE id = ?`, id)
}

// GetPrimaryContext retrieves a user's primary context with fingerprint
// fields decrypted.
func (r *Repository) GetPrimaryContext(ctx context.Context, userID uuid.UUID) (*models.PrimaryContext, error) {
	return r.getPrimaryContext(ctx, `SELECT * FROM primary_contexts WHERE user_id = ?`, userID)
}

// DeletePrimaryContext removes a user's primary context. Administrative
// reset only; evaluation never calls this.
func (r *Repository) DeletePrimaryContext(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM primary_contexts WHERE user_id = ?`, userID)
	return err
}

func (r *Repository) getPrimaryContext(ctx context.Context, query string, arg any) (*models.PrimaryContext, error) {
	var pc models.PrimaryContext
	if err := r.db.GetContext(ctx, &pc, query, arg); err != nil {
		return nil, wrapError(err)
	}

	fp, err := r.openFingerprint(pc.Fingerprint)
	if err != nil {
		return nil, err
	}
	pc.Fingerprint = fp
	return &pc, nil
}
