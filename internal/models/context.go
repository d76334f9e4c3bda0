// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"time"

	"github.com/google/uuid"
)

// PrimaryContext is the one fingerprint established as a user's home device
// when they complete email verification after signup. At most one exists per
// user and it is never mutated by evaluation.
type PrimaryContext struct { //nolint:govet // fieldalignment: readability over optimization
	ID          int64     `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Email       string    `db:"email" json:"email"`
	Fingerprint `json:"fingerprint"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CandidateContext tracks a fingerprint seen during sign-in that did not
// match the user's primary context. Looked up by the composite key
// (user, fingerprint) — all eight fingerprint fields participate.
// IsTrusted and IsBlocked are never both true.
type CandidateContext struct { //nolint:govet // fieldalignment: readability over optimization
	ID          int64     `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Email       string    `db:"email" json:"email"`
	Fingerprint `json:"fingerprint"`
	// UnverifiedAttempts counts repeat sign-ins against this candidate
	// while it is still pending verification.
	UnverifiedAttempts int       `db:"unverified_attempts" json:"unverified_attempts"`
	IsTrusted          bool      `db:"is_trusted" json:"is_trusted"`
	IsBlocked          bool      `db:"is_blocked" json:"is_blocked"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// Pending reports whether the candidate still awaits a verification outcome.
func (c *CandidateContext) Pending() bool {
	return !c.IsTrusted && !c.IsBlocked
}

// TrustedContext is a known-good context recorded when a candidate is
// promoted via the verification link. Fingerprint fields are encrypted at
// the storage boundary.
type TrustedContext struct { //nolint:govet // fieldalignment: readability over optimization
	ID          int64     `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Email       string    `db:"email" json:"email"`
	Fingerprint `json:"fingerprint"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
