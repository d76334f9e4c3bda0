// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitywave/trustgate/internal/config"
	"github.com/unitywave/trustgate/internal/models"
)

func validSMTPConfig() *config.SMTPConfig {
	return &config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "testuser",
		Password: "testpass",
		From:     "noreply@example.com",
		FromName: "Unity Wave",
		TLS:      true,
	}
}

func TestNewService(t *testing.T) {
	svc, err := NewService(validSMTPConfig(), "https://auth.example.com")

	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestNewService_MissingHost(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.Host = ""

	_, err := NewService(cfg, "https://auth.example.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP host is required")
}

func TestNewService_MissingFrom(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.From = ""

	_, err := NewService(cfg, "https://auth.example.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP from address is required")
}

func TestNewService_TrailingSlashTrimmed(t *testing.T) {
	svc, err := NewService(validSMTPConfig(), "https://auth.example.com/")

	require.NoError(t, err)
	assert.Equal(t, "https://auth.example.com", svc.baseURL)
}

func TestLoginVerificationBody(t *testing.T) {
	fp := models.Fingerprint{
		IP:         "203.0.113.7",
		Country:    "Germany",
		City:       "Cologne",
		Browser:    "Firefox 143.0",
		OS:         "Linux x86_64",
		Platform:   "Linux",
		Device:     models.Unknown,
		DeviceType: models.DeviceDesktop,
	}

	verifyURL := "https://auth.example.com/auth/verify-login?token=" + uuid.New().String() + "&email=anna@example.com"
	blockURL := "https://auth.example.com/auth/block-device?token=" + uuid.New().String() + "&email=anna@example.com"

	body := loginVerificationBody(fp, verifyURL, blockURL)

	assert.Contains(t, body, "203.0.113.7")
	assert.Contains(t, body, "Cologne, Germany")
	assert.Contains(t, body, "Firefox 143.0")
	assert.Contains(t, body, verifyURL)
	assert.Contains(t, body, blockURL)
	assert.Contains(t, body, "expire in 30 minutes")
}
