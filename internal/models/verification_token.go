// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"time"

	"github.com/google/uuid"
)

// Verification token purposes.
const (
	PurposeLoginVerify = "login-verify"
	PurposeLoginBlock  = "login-block"
)

// VerificationToken is an ephemeral one-time proof mailed to the user.
// Deleted on use or swept after expiry.
type VerificationToken struct { //nolint:govet // fieldalignment: readability over optimization
	ID          uuid.UUID `db:"id" json:"id"`
	CandidateID int64     `db:"candidate_id" json:"candidate_id"`
	Email       string    `db:"email" json:"email"`
	Purpose     string    `db:"purpose" json:"purpose"`
	ExpiresAt   time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Expired reports whether the token's TTL has elapsed.
func (t *VerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
