// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitywave/trustgate/internal/models"
	"github.com/unitywave/trustgate/internal/repository"
	"github.com/unitywave/trustgate/internal/testutil"
)

func newToken(candidateID int64, purpose string, expiresAt time.Time) *models.VerificationToken {
	return &models.VerificationToken{
		ID:          uuid.New(),
		CandidateID: candidateID,
		Email:       "anna@example.com",
		Purpose:     purpose,
		ExpiresAt:   expiresAt,
	}
}

func TestVerificationToken_CreateAndGet(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	cc := testutil.NewTestCandidate(t, repo, uuid.New(), "anna@example.com", testutil.NewFingerprint("198.51.100.1"))
	token := newToken(cc.ID, models.PurposeLoginVerify, time.Now().Add(30*time.Minute))

	require.NoError(t, repo.CreateVerificationToken(ctx, token))

	got, err := repo.GetVerificationToken(ctx, token.ID)
	require.NoError(t, err)
	assert.Equal(t, cc.ID, got.CandidateID)
	assert.Equal(t, models.PurposeLoginVerify, got.Purpose)
	assert.WithinDuration(t, token.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestVerificationToken_GetNotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetVerificationToken(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteCandidateVerificationTokens(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	cc := testutil.NewTestCandidate(t, repo, uuid.New(), "anna@example.com", testutil.NewFingerprint("198.51.100.1"))
	verify := newToken(cc.ID, models.PurposeLoginVerify, time.Now().Add(30*time.Minute))
	block := newToken(cc.ID, models.PurposeLoginBlock, time.Now().Add(30*time.Minute))
	require.NoError(t, repo.CreateVerificationToken(ctx, verify))
	require.NoError(t, repo.CreateVerificationToken(ctx, block))

	require.NoError(t, repo.DeleteCandidateVerificationTokens(ctx, cc.ID))

	_, err := repo.GetVerificationToken(ctx, verify.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetVerificationToken(ctx, block.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteExpiredVerificationTokens(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	cc := testutil.NewTestCandidate(t, repo, uuid.New(), "anna@example.com", testutil.NewFingerprint("198.51.100.1"))
	expired := newToken(cc.ID, models.PurposeLoginVerify, time.Now().Add(-time.Minute))
	live := newToken(cc.ID, models.PurposeLoginBlock, time.Now().Add(30*time.Minute))
	require.NoError(t, repo.CreateVerificationToken(ctx, expired))
	require.NoError(t, repo.CreateVerificationToken(ctx, live))

	removed, err := repo.DeleteExpiredVerificationTokens(ctx, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = repo.GetVerificationToken(ctx, expired.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetVerificationToken(ctx, live.ID)
	assert.NoError(t, err)
}
