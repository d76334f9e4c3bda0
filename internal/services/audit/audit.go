// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package audit appends auth events to the bounded audit log. Sign-in
// entries carry the triggering fingerprint as an encrypted structured
// record so raw IP and location never reach plaintext storage.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/unitywave/trustgate/internal/crypt"
	"github.com/unitywave/trustgate/internal/models"
	"github.com/unitywave/trustgate/internal/repository"
)

// Service records audit entries.
type Service struct {
	repo  *repository.Repository
	codec *crypt.Codec
}

// NewService creates a new audit service.
func NewService(repo *repository.Repository, codec *crypt.Codec) *Service {
	return &Service{repo: repo, codec: codec}
}

// Record appends one entry. Fire-and-forget for the caller: the write is
// synchronous, but failures are logged instead of propagated so audit
// trouble never fails an auth decision.
func (s *Service) Record(ctx context.Context, category, level, message string, fp *models.Fingerprint) {
	entry := &models.AuditEntry{
		Message:  message,
		Category: category,
		Level:    level,
	}

	if fp != nil {
		sealed, err := s.sealContext(*fp)
		if err != nil {
			slog.Error("failed to seal audit context", "error", err)
			return
		}
		entry.Context = sealed
	}

	if err := s.repo.AppendAuditEntry(ctx, entry); err != nil {
		slog.Error("failed to append audit entry",
			"category", category,
			"level", level,
			"error", err,
		)
	}
}

// DecryptContext recovers the fingerprint stored in an entry, for
// inspection tooling. Entries without context return nil.
func (s *Service) DecryptContext(entry *models.AuditEntry) (*models.Fingerprint, error) {
	if len(entry.Context) == 0 {
		return nil, nil
	}

	plain, err := s.codec.Decrypt(entry.Context)
	if err != nil {
		return nil, err
	}

	var fp models.Fingerprint
	if err := json.Unmarshal(plain, &fp); err != nil {
		return nil, err
	}
	return &fp, nil
}

// sealContext serializes the fingerprint as JSON and encrypts it. A
// structured record, not a joined string: decode never needs splitting.
func (s *Service) sealContext(fp models.Fingerprint) ([]byte, error) {
	plain, err := json.Marshal(fp)
	if err != nil {
		return nil, err
	}
	return s.codec.Encrypt(plain)
}
