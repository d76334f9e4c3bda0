// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"github.com/unitywave/trustgate/internal/crypt"
	"github.com/unitywave/trustgate/internal/database"
	"github.com/unitywave/trustgate/internal/models"
	"github.com/unitywave/trustgate/internal/repository"
)

// NewTestCodec creates a codec with a fixed key for tests.
func NewTestCodec(t *testing.T) *crypt.Codec {
	t.Helper()
	codec, err := crypt.New(bytes.Repeat([]byte{0x42}, crypt.KeySize))
	require.NoError(t, err)
	return codec
}

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db, NewTestCodec(t))
	return db, repo
}

// NewFingerprint builds a realistic desktop fingerprint with the given IP.
func NewFingerprint(ip string) models.Fingerprint {
	return models.Fingerprint{
		IP:         ip,
		Country:    "Germany",
		City:       "Cologne",
		Browser:    "Firefox 143.0",
		OS:         "Linux x86_64",
		Platform:   "Linux",
		Device:     models.Unknown,
		DeviceType: models.DeviceDesktop,
	}
}

// NewTestPrimary establishes a primary context for a fresh user and
// returns the user id.
func NewTestPrimary(t *testing.T, repo *repository.Repository, email string, fp models.Fingerprint) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	_, err := repo.CreatePrimaryContext(context.Background(), userID, email, fp)
	require.NoError(t, err)
	return userID
}

// NewTestCandidate creates a pending candidate context.
func NewTestCandidate(t *testing.T, repo *repository.Repository, userID uuid.UUID, email string, fp models.Fingerprint) *models.CandidateContext {
	t.Helper()
	cc, created, err := repo.EnsureCandidateContext(context.Background(), userID, email, fp)
	require.NoError(t, err)
	require.True(t, created)
	return cc
}
