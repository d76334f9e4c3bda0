// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package repository is the storage adapter for the trust engine. Field
// encryption for primary and trusted contexts happens here, at the
// encode/decode boundary, so the evaluation logic above stays free of
// cryptographic side effects.
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/vinovest/sqlx"

	"github.com/unitywave/trustgate/internal/crypt"
	"github.com/unitywave/trustgate/internal/models"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrPrimaryExists is returned when a user already has a primary context.
	ErrPrimaryExists = errors.New("primary context already exists")
)

// Repository wraps the database connection and the field codec.
type Repository struct {
	db    *sqlx.DB
	codec *crypt.Codec
}

// New creates a new Repository instance.
func New(db *sqlx.DB, codec *crypt.Codec) *Repository {
	return &Repository{db: db, codec: codec}
}

// wrapError converts database errors to repository errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a SQLite unique constraint
// failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// sealFingerprint encrypts every fingerprint field for storage.
func (r *Repository) sealFingerprint(fp models.Fingerprint) (models.Fingerprint, error) {
	fields := []*string{
		&fp.IP, &fp.Country, &fp.City, &fp.Browser,
		&fp.OS, &fp.Platform, &fp.Device, &fp.DeviceType,
	}
	for _, f := range fields {
		sealed, err := r.codec.EncryptString(*f)
		if err != nil {
			return models.Fingerprint{}, err
		}
		*f = sealed
	}
	return fp, nil
}

// openFingerprint decrypts a fingerprint read from storage.
func (r *Repository) openFingerprint(fp models.Fingerprint) (models.Fingerprint, error) {
	fields := []*string{
		&fp.IP, &fp.Country, &fp.City, &fp.Browser,
		&fp.OS, &fp.Platform, &fp.Device, &fp.DeviceType,
	}
	for _, f := range fields {
		plain, err := r.codec.DecryptString(*f)
		if err != nil {
			return models.Fingerprint{}, err
		}
		*f = plain
	}
	return fp, nil
}
