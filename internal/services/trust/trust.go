// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package trust implements the login-trust decision engine. Every
// authenticated sign-in attempt is evaluated against the user's primary
// context and candidate contexts; the outcome decides whether the sign-in
// proceeds, requires out-of-band verification, or is rejected.
package trust

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/unitywave/trustgate/internal/models"
	"github.com/unitywave/trustgate/internal/repository"
	"github.com/unitywave/trustgate/internal/services/audit"
)

// MaxUnverifiedAttempts is the retry budget for a pending candidate.
// Reaching it blocks the candidate permanently; there is no automatic
// path back to trusted.
const MaxUnverifiedAttempts = 3

// Decision is the mutually-exclusive result of one evaluation.
type Decision int

const (
	// NoBaseline means the user has no primary context yet. A data
	// integrity precondition failed, not a security signal; callers must
	// fail the sign-in with a server error.
	NoBaseline Decision = iota
	// Trusted means the fingerprint matches the primary context or a
	// verified candidate. Sign-in proceeds.
	Trusted
	// Blocked means the fingerprint matches a blocked candidate. Sign-in
	// is rejected permanently.
	Blocked
	// PendingVerification means the fingerprint belongs to a candidate
	// still awaiting verification. Sign-in is rejected for now.
	PendingVerification
)

func (d Decision) String() string {
	switch d {
	case NoBaseline:
		return "no-baseline"
	case Trusted:
		return "trusted"
	case Blocked:
		return "blocked"
	case PendingVerification:
		return "pending-verification"
	}
	return fmt.Sprintf("decision(%d)", int(d))
}

// Outcome is the full result of one evaluation. FreshlyCreated is set
// only when this call created the candidate; the caller issues the
// verification email exactly then, never on retries.
type Outcome struct {
	Decision       Decision
	FreshlyCreated bool
	Candidate      *models.CandidateContext
}

// Service is the trust evaluator. It reads the primary context, owns all
// candidate mutations during evaluation, and never touches the primary.
type Service struct {
	repo  *repository.Repository
	audit *audit.Service
}

// NewService creates the trust evaluator.
func NewService(repo *repository.Repository, auditSvc *audit.Service) *Service {
	return &Service{repo: repo, audit: auditSvc}
}

// Evaluate runs the decision state machine for one sign-in attempt.
// Expected security states come back as Outcome values; a non-nil error
// means a storage failure and the caller must fail closed, never default
// to trusted.
func (s *Service) Evaluate(ctx context.Context, userID uuid.UUID, email string, fp models.Fingerprint) (Outcome, error) {
	primary, err := s.repo.GetPrimaryContext(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return Outcome{Decision: NoBaseline}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("loading primary context: %w", err)
	}

	if fp.Equal(primary.Fingerprint) {
		s.audit.Record(ctx, models.CategorySignIn, models.LevelInfo, "sign-in from primary context", &fp)
		return Outcome{Decision: Trusted}, nil
	}

	candidate, created, err := s.repo.EnsureCandidateContext(ctx, userID, email, fp)
	if err != nil {
		return Outcome{}, fmt.Errorf("ensuring candidate context: %w", err)
	}

	if created {
		s.audit.Record(ctx, models.CategorySignIn, models.LevelInfo, "sign-in from unrecognized context", &fp)
		return Outcome{Decision: PendingVerification, FreshlyCreated: true, Candidate: candidate}, nil
	}

	switch {
	case candidate.IsBlocked:
		s.audit.Record(ctx, models.CategorySignIn, models.LevelWarn, "sign-in attempt from blocked context", &fp)
		return Outcome{Decision: Blocked, Candidate: candidate}, nil
	case candidate.IsTrusted:
		s.audit.Record(ctx, models.CategorySignIn, models.LevelInfo, "sign-in from verified context", &fp)
		return Outcome{Decision: Trusted, Candidate: candidate}, nil
	}

	// Still pending: count the retry and escalate once the budget is
	// spent. The increment is a single atomic statement, so concurrent
	// retries cannot under-count.
	attempts, err := s.repo.IncrementUnverifiedAttempts(ctx, candidate.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("counting unverified attempt: %w", err)
	}
	candidate.UnverifiedAttempts = attempts

	if attempts >= MaxUnverifiedAttempts {
		if err := s.repo.BlockCandidate(ctx, candidate.ID); err != nil {
			return Outcome{}, fmt.Errorf("blocking candidate: %w", err)
		}
		candidate.IsBlocked = true
		candidate.IsTrusted = false

		s.audit.Record(ctx, models.CategorySignIn, models.LevelWarn,
			"context blocked after too many unverified sign-in attempts", &fp)
		return Outcome{Decision: Blocked, Candidate: candidate}, nil
	}

	s.audit.Record(ctx, models.CategorySignIn, models.LevelInfo, "repeat sign-in from unverified context", &fp)
	return Outcome{Decision: PendingVerification, Candidate: candidate}, nil
}

// EstablishPrimary records the user's home context once, when they first
// complete email verification after signup. A second call returns
// repository.ErrPrimaryExists.
func (s *Service) EstablishPrimary(ctx context.Context, userID uuid.UUID, email string, fp models.Fingerprint) (*models.PrimaryContext, error) {
	primary, err := s.repo.CreatePrimaryContext(ctx, userID, email, fp)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.CategoryContext, models.LevelInfo, "primary context established", &fp)
	return primary, nil
}
