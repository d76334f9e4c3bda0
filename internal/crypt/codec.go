// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package crypt provides the symmetric encryption boundary used by the
// storage adapter and the audit log. Values are sealed with AES-256-GCM
// using a fresh random nonce per value; the nonce is prepended to the
// ciphertext. The key is loaded once from configuration at startup and
// never mutated afterwards.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

// KeySize is the required key length in bytes (AES-256).
const KeySize = 32

var (
	// ErrInvalidKey is returned when the configured key is not 32 bytes.
	ErrInvalidKey = errors.New("encryption key must be 32 bytes")
	// ErrInvalidCiphertext is returned for data too short to contain a
	// nonce or that fails authentication.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// Codec seals and opens individual field values.
type Codec struct {
	aead cipher.AEAD
}

// New creates a Codec from a raw 32-byte key.
func New(key []byte) (*Codec, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}

	return &Codec{aead: aead}, nil
}

// NewFromHex creates a Codec from a hex-encoded key, the format used in
// configuration.
func NewFromHex(hexKey string) (*Codec, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding encryption key: %w", err)
	}
	return New(key)
}

// Encrypt seals plaintext with a fresh random nonce.
func (c *Codec) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens data produced by Encrypt.
func (c *Codec) Decrypt(data []byte) ([]byte, error) {
	if len(data) < c.aead.NonceSize() {
		return nil, ErrInvalidCiphertext
	}

	nonce, ciphertext := data[:c.aead.NonceSize()], data[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidCiphertext
	}
	return plaintext, nil
}

// EncryptString seals a string value for storage in a text column.
func (c *Codec) EncryptString(plaintext string) (string, error) {
	sealed, err := c.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString opens a value produced by EncryptString.
func (c *Codec) DecryptString(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	plaintext, err := c.Decrypt(data)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
