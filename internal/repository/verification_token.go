// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/unitywave/trustgate/internal/models"
)

// CreateVerificationToken stores a new one-time token.
func (r *Repository) CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO verification_tokens (id, candidate_id, email, purpose, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		token.ID, token.CandidateID, token.Email, token.Purpose, token.ExpiresAt)
	return err
}

// GetVerificationToken retrieves a token by id.
func (r *Repository) GetVerificationToken(ctx context.Context, id uuid.UUID) (*models.VerificationToken, error) {
	var token models.VerificationToken
	if err := r.db.GetContext(ctx, &token, `SELECT * FROM verification_tokens WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &token, nil
}

// DeleteCandidateVerificationTokens removes all outstanding tokens for a
// candidate, both purposes.
func (r *Repository) DeleteCandidateVerificationTokens(ctx context.Context, candidateID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM verification_tokens WHERE candidate_id = ?`, candidateID)
	return err
}

// DeleteExpiredVerificationTokens sweeps tokens past their TTL and
// returns how many were removed.
func (r *Repository) DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM verification_tokens WHERE expires_at < ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
