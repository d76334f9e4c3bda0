// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/unitywave/trustgate/internal/models"
)

// CreateTrustedContext records a promoted candidate as a known-good
// context. Fingerprint fields are encrypted before storage.
func (r *Repository) CreateTrustedContext(ctx context.Context, userID uuid.UUID, email string, fp models.Fingerprint) error {
	sealed, err := r.sealFingerprint(fp)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO trusted_contexts (user_id, email, ip, country, city, browser, os, platform, device, device_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, email, sealed.IP, sealed.Country, sealed.City, sealed.Browser,
		sealed.OS, sealed.Platform, sealed.Device, sealed.DeviceType)
	return err
}

// ListTrustedContexts returns a user's known-good contexts, decrypted,
// newest first.
func (r *Repository) ListTrustedContexts(ctx context.Context, userID uuid.UUID) ([]models.TrustedContext, error) {
	var list []models.TrustedContext
	err := r.db.SelectContext(ctx, &list,
		`SELECT * FROM trusted_contexts WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}

	for i := range list {
		fp, err := r.openFingerprint(list[i].Fingerprint)
		if err != nil {
			return nil, err
		}
		list[i].Fingerprint = fp
	}
	return list, nil
}
