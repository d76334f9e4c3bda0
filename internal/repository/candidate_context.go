// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/unitywave/trustgate/internal/models"
)

// compositeKeyWhere matches a candidate by user and all eight fingerprint
// fields. Every field participates; a one-field change is a different
// candidate.
const compositeKeyWhere = `user_id = ? AND ip = ? AND country = ? AND city = ?
	AND browser = ? AND os = ? AND platform = ? AND device = ? AND device_type = ?`

func compositeKeyArgs(userID uuid.UUID, fp models.Fingerprint) []any {
	return []any{
		userID, fp.IP, fp.Country, fp.City,
		fp.Browser, fp.OS, fp.Platform, fp.Device, fp.DeviceType,
	}
}

// GetCandidateByFingerprint looks up a candidate by its composite key.
func (r *Repository) GetCandidateByFingerprint(ctx context.Context, userID uuid.UUID, fp models.Fingerprint) (*models.CandidateContext, error) {
	var cc models.CandidateContext
	err := r.db.GetContext(ctx, &cc,
		`SELECT * FROM candidate_contexts WHERE `+compositeKeyWhere,
		compositeKeyArgs(userID, fp)...)
	if err != nil {
		return nil, wrapError(err)
	}
	return &cc, nil
}

// GetCandidateByID retrieves a candidate by its id.
func (r *Repository) GetCandidateByID(ctx context.Context, id int64) (*models.CandidateContext, error) {
	var cc models.CandidateContext
	if err := r.db.GetContext(ctx, &cc, `SELECT * FROM candidate_contexts WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &cc, nil
}

// EnsureCandidateContext inserts a candidate for (user, fingerprint) if
// none exists and returns the stored record. The returned bool is true
// when this call created the record. The insert races safely: the unique
// composite index plus ON CONFLICT DO NOTHING guarantee a single record
// per key under concurrent creation attempts.
func (r *Repository) EnsureCandidateContext(ctx context.Context, userID uuid.UUID, email string, fp models.Fingerprint) (*models.CandidateContext, bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO candidate_contexts (user_id, email, ip, country, city, browser, os, platform, device, device_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, ip, country, city, browser, os, platform, device, device_type) DO NOTHING`,
		userID, email, fp.IP, fp.Country, fp.City, fp.Browser,
		fp.OS, fp.Platform, fp.Device, fp.DeviceType)
	if err != nil {
		return nil, false, err
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	cc, err := r.GetCandidateByFingerprint(ctx, userID, fp)
	if err != nil {
		return nil, false, err
	}
	return cc, inserted > 0, nil
}

// IncrementUnverifiedAttempts bumps the retry counter by one in a single
// statement and returns the new count.
func (r *Repository) IncrementUnverifiedAttempts(ctx context.Context, id int64) (int, error) {
	var attempts int
	err := r.db.QueryRowContext(ctx,
		`UPDATE candidate_contexts SET unverified_attempts = unverified_attempts + 1
		 WHERE id = ? RETURNING unverified_attempts`, id).Scan(&attempts)
	if err != nil {
		return 0, wrapError(err)
	}
	return attempts, nil
}

// TrustCandidate marks a candidate as verified by its owner.
func (r *Repository) TrustCandidate(ctx context.Context, id int64) error {
	return r.setCandidateFlags(ctx, id, true, false)
}

// BlockCandidate marks a candidate as permanently rejected.
func (r *Repository) BlockCandidate(ctx context.Context, id int64) error {
	return r.setCandidateFlags(ctx, id, false, true)
}

// UnblockCandidate lifts a block, returning the candidate to trusted.
func (r *Repository) UnblockCandidate(ctx context.Context, id int64) error {
	return r.setCandidateFlags(ctx, id, true, false)
}

func (r *Repository) setCandidateFlags(ctx context.Context, id int64, trusted, blocked bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE candidate_contexts SET is_trusted = ?, is_blocked = ? WHERE id = ?`,
		trusted, blocked, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCandidateContext removes a candidate by id.
func (r *Repository) DeleteCandidateContext(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM candidate_contexts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBlockedCandidates returns a user's blocked candidates, newest first.
func (r *Repository) ListBlockedCandidates(ctx context.Context, userID uuid.UUID) ([]models.CandidateContext, error) {
	var list []models.CandidateContext
	err := r.db.SelectContext(ctx, &list,
		`SELECT * FROM candidate_contexts WHERE user_id = ? AND is_blocked = 1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	return list, nil
}
