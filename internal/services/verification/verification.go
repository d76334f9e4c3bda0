// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package verification drives the out-of-band email workflow that
// promotes a candidate context to trusted or marks it blocked.
package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/unitywave/trustgate/internal/models"
	"github.com/unitywave/trustgate/internal/repository"
	"github.com/unitywave/trustgate/internal/services/audit"
)

// TokenTTL is how long a verification link stays valid.
const TokenTTL = 30 * time.Minute

// ErrInvalidVerification covers every failed consumption: unknown token,
// expired token, wrong purpose, email mismatch. One uniform error so the
// response never leaks which check failed.
var ErrInvalidVerification = errors.New("verification link is invalid or has expired")

// Mailer delivers the login verification message. Satisfied by the email
// service.
type Mailer interface {
	SendLoginVerification(ctx context.Context, to string, fp models.Fingerprint, verifyToken, blockToken uuid.UUID) error
}

// Service issues and consumes verification tokens.
type Service struct {
	repo   *repository.Repository
	mailer Mailer
	audit  *audit.Service
	now    func() time.Time
}

// NewService creates a verification service.
func NewService(repo *repository.Repository, mailer Mailer, auditSvc *audit.Service) *Service {
	return &Service{
		repo:   repo,
		mailer: mailer,
		audit:  auditSvc,
		now:    time.Now,
	}
}

// IssuePendingVerification creates the verify/block token pair for a
// freshly created candidate and emails both links. Callers invoke this
// at most once per candidate creation — repeat sign-ins against a
// still-pending candidate must not trigger another mail. Tokens are
// persisted before the mail call, so a mail-provider failure leaves
// trust state consistent; the error only tells the caller delivery
// failed.
func (s *Service) IssuePendingVerification(ctx context.Context, candidate *models.CandidateContext) error {
	verifyToken := &models.VerificationToken{
		ID:          uuid.New(),
		CandidateID: candidate.ID,
		Email:       candidate.Email,
		Purpose:     models.PurposeLoginVerify,
		ExpiresAt:   s.now().Add(TokenTTL),
	}
	blockToken := &models.VerificationToken{
		ID:          uuid.New(),
		CandidateID: candidate.ID,
		Email:       candidate.Email,
		Purpose:     models.PurposeLoginBlock,
		ExpiresAt:   s.now().Add(TokenTTL),
	}

	if err := s.repo.CreateVerificationToken(ctx, verifyToken); err != nil {
		return fmt.Errorf("storing verification token: %w", err)
	}
	if err := s.repo.CreateVerificationToken(ctx, blockToken); err != nil {
		return fmt.Errorf("storing block token: %w", err)
	}

	if err := s.mailer.SendLoginVerification(ctx, candidate.Email, candidate.Fingerprint, verifyToken.ID, blockToken.ID); err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}

	return nil
}

// ConsumeLoginVerification redeems a verify link: the candidate becomes
// trusted and a known-context record is stored for future matching.
func (s *Service) ConsumeLoginVerification(ctx context.Context, tokenID uuid.UUID, email string) error {
	candidate, err := s.consume(ctx, tokenID, email, models.PurposeLoginVerify)
	if err != nil {
		return err
	}

	if err := s.repo.TrustCandidate(ctx, candidate.ID); err != nil {
		return fmt.Errorf("trusting candidate: %w", err)
	}
	if err := s.repo.CreateTrustedContext(ctx, candidate.UserID, candidate.Email, candidate.Fingerprint); err != nil {
		return fmt.Errorf("recording trusted context: %w", err)
	}
	if err := s.repo.DeleteCandidateVerificationTokens(ctx, candidate.ID); err != nil {
		return fmt.Errorf("clearing tokens: %w", err)
	}

	s.audit.Record(ctx, models.CategoryContext, models.LevelInfo, "context verified by owner", &candidate.Fingerprint)
	return nil
}

// ConsumeBlockLink redeems a block link: the user reported the device as
// not theirs, so the candidate is blocked unconditionally.
func (s *Service) ConsumeBlockLink(ctx context.Context, tokenID uuid.UUID, email string) error {
	candidate, err := s.consume(ctx, tokenID, email, models.PurposeLoginBlock)
	if err != nil {
		return err
	}

	if err := s.repo.BlockCandidate(ctx, candidate.ID); err != nil {
		return fmt.Errorf("blocking candidate: %w", err)
	}
	if err := s.repo.DeleteCandidateVerificationTokens(ctx, candidate.ID); err != nil {
		return fmt.Errorf("clearing tokens: %w", err)
	}

	s.audit.Record(ctx, models.CategoryContext, models.LevelWarn, "context blocked by owner", &candidate.Fingerprint)
	return nil
}

// consume validates a token and resolves its candidate. Every validation
// failure maps to ErrInvalidVerification with no state change; only
// storage trouble surfaces as a distinct error.
func (s *Service) consume(ctx context.Context, tokenID uuid.UUID, email, purpose string) (*models.CandidateContext, error) {
	token, err := s.repo.GetVerificationToken(ctx, tokenID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidVerification
	}
	if err != nil {
		return nil, fmt.Errorf("loading token: %w", err)
	}

	if token.Purpose != purpose || token.Email != email || token.Expired(s.now()) {
		return nil, ErrInvalidVerification
	}

	candidate, err := s.repo.GetCandidateByID(ctx, token.CandidateID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidVerification
	}
	if err != nil {
		return nil, fmt.Errorf("loading candidate: %w", err)
	}

	if candidate.Email != email {
		return nil, ErrInvalidVerification
	}

	return candidate, nil
}
