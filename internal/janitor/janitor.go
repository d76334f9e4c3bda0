// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package janitor enforces the time-bounded retention contracts: expired
// verification tokens and audit entries past the retention window are
// swept on a fixed interval. SQLite has no storage-native TTL, so the
// sweep implements it.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/unitywave/trustgate/internal/repository"
)

const (
	// AuditRetention is how long audit entries are kept.
	AuditRetention = 7 * 24 * time.Hour
	// DefaultInterval is how often the sweep runs.
	DefaultInterval = 5 * time.Minute
)

// Janitor sweeps expired records in the background.
type Janitor struct {
	repo     *repository.Repository
	interval time.Duration
}

// New creates a janitor with the default interval.
func New(repo *repository.Repository) *Janitor {
	return &Janitor{repo: repo, interval: DefaultInterval}
}

// Run sweeps periodically until ctx is cancelled. Run once immediately
// so a restart doesn't extend retention by a full interval.
func (j *Janitor) Run(ctx context.Context) {
	j.Sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep removes expired tokens and stale audit entries. Failures are
// logged and retried on the next tick.
func (j *Janitor) Sweep(ctx context.Context) {
	now := time.Now()

	tokens, err := j.repo.DeleteExpiredVerificationTokens(ctx, now)
	if err != nil {
		slog.Error("failed to sweep expired verification tokens", "error", err)
	}

	entries, err := j.repo.DeleteAuditEntriesBefore(ctx, now.Add(-AuditRetention))
	if err != nil {
		slog.Error("failed to sweep audit entries", "error", err)
	}

	if tokens > 0 || entries > 0 {
		slog.Debug("janitor sweep complete", "tokens", tokens, "audit_entries", entries)
	}
}
