// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Audit categories.
const (
	CategorySignIn  = "sign-in"
	CategoryLogout  = "logout"
	CategoryContext = "context"
)

// Audit severities.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// AuditEntry is an append-only record of an evaluation outcome or auth
// event. Context, when present, is the encrypted fingerprint summary of
// the request that triggered the entry; it is nil for entries without
// request context. Entries are swept after the retention window.
type AuditEntry struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64     `db:"id" json:"id"`
	Context   []byte    `db:"context" json:"-"`
	Message   string    `db:"message" json:"message"`
	Category  string    `db:"category" json:"category"`
	Level     string    `db:"level" json:"level"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
