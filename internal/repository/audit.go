// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/unitywave/trustgate/internal/models"
)

// AppendAuditEntry writes one append-only audit record.
func (r *Repository) AppendAuditEntry(ctx context.Context, entry *models.AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_entries (context, message, category, level) VALUES (?, ?, ?, ?)`,
		entry.Context, entry.Message, entry.Category, entry.Level)
	return err
}

// ListRecentAuditEntries returns the newest entries up to limit.
func (r *Repository) ListRecentAuditEntries(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM audit_entries ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteAuditEntriesBefore drops entries older than cutoff and returns
// how many were removed. The janitor calls this to enforce retention.
func (r *Repository) DeleteAuditEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_entries WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
