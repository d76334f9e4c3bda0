// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package crypt_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitywave/trustgate/internal/crypt"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x07}, crypt.KeySize)
}

func TestNew_RejectsBadKeyLength(t *testing.T) {
	_, err := crypt.New([]byte("too short"))
	assert.ErrorIs(t, err, crypt.ErrInvalidKey)

	_, err = crypt.New(bytes.Repeat([]byte{1}, 64))
	assert.ErrorIs(t, err, crypt.ErrInvalidKey)
}

func TestNewFromHex(t *testing.T) {
	codec, err := crypt.NewFromHex(hex.EncodeToString(testKey()))
	require.NoError(t, err)

	sealed, err := codec.EncryptString("203.0.113.7")
	require.NoError(t, err)

	plain, err := codec.DecryptString(sealed)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", plain)
}

func TestNewFromHex_InvalidEncoding(t *testing.T) {
	_, err := crypt.NewFromHex("not hex at all")
	assert.Error(t, err)
}

func TestEncrypt_FreshNoncePerValue(t *testing.T) {
	codec, err := crypt.New(testKey())
	require.NoError(t, err)

	// Same plaintext must never produce the same ciphertext twice.
	first, err := codec.Encrypt([]byte("same value"))
	require.NoError(t, err)
	second, err := codec.Encrypt([]byte("same value"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecrypt_RejectsTamperedData(t *testing.T) {
	codec, err := crypt.New(testKey())
	require.NoError(t, err)

	sealed, err := codec.Encrypt([]byte("payload"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xff
	_, err = codec.Decrypt(sealed)
	assert.ErrorIs(t, err, crypt.ErrInvalidCiphertext)
}

func TestDecrypt_RejectsShortData(t *testing.T) {
	codec, err := crypt.New(testKey())
	require.NoError(t, err)

	_, err = codec.Decrypt([]byte{1, 2, 3})
	assert.ErrorIs(t, err, crypt.ErrInvalidCiphertext)
}

func TestDecryptString_RejectsBadBase64(t *testing.T) {
	codec, err := crypt.New(testKey())
	require.NoError(t, err)

	_, err = codec.DecryptString("%%% not base64 %%%")
	assert.ErrorIs(t, err, crypt.ErrInvalidCiphertext)
}

func TestDecrypt_WrongKey(t *testing.T) {
	codec, err := crypt.New(testKey())
	require.NoError(t, err)
	other, err := crypt.New(bytes.Repeat([]byte{0x08}, crypt.KeySize))
	require.NoError(t, err)

	sealed, err := codec.Encrypt([]byte("payload"))
	require.NoError(t, err)

	_, err = other.Decrypt(sealed)
	assert.ErrorIs(t, err, crypt.ErrInvalidCiphertext)
}
