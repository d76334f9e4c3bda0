// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestBuildBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		expected string
	}{
		{
			name:     "default port omitted",
			cfg:      &Config{Server: ServerConfig{Host: "localhost", Port: 80}},
			expected: "http://localhost",
		},
		{
			name:     "custom port kept",
			cfg:      &Config{Server: ServerConfig{Host: "localhost", Port: 8080}},
			expected: "http://localhost:8080",
		},
		{
			name:     "remote host",
			cfg:      &Config{Server: ServerConfig{Host: "auth.example.com", Port: 9000}},
			expected: "http://auth.example.com:9000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildBaseURL(tt.cfg))
		})
	}
}

func TestFlags(t *testing.T) {
	flags := Flags()
	assert.NotEmpty(t, flags)

	flagNames := make(map[string]bool)
	for _, f := range flags {
		for _, name := range f.Names() {
			flagNames[name] = true
		}
	}

	assert.True(t, flagNames["host"], "should have host flag")
	assert.True(t, flagNames["port"], "should have port flag")
	assert.True(t, flagNames["base-url"], "should have base-url flag")
	assert.True(t, flagNames["log-level"], "should have log-level flag")
	assert.True(t, flagNames["database-dsn"], "should have database-dsn flag")
	assert.True(t, flagNames["smtp-host"], "should have smtp-host flag")
	assert.True(t, flagNames["crypto-key"], "should have crypto-key flag")
	assert.True(t, flagNames["geoip-db"], "should have geoip-db flag")
}

func TestNewFromCLI(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.Equal(t, "localhost", cfg.Server.Host)
			assert.Equal(t, 8080, cfg.Server.Port)
			assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
			assert.Equal(t, "info", cfg.Log.Level)
			assert.Equal(t, "text", cfg.Log.Format)
			assert.Equal(t, "./data/trustgate.db", cfg.Database.DSN)
			assert.Equal(t, 587, cfg.SMTP.Port)
			assert.True(t, cfg.SMTP.TLS)
			return nil
		},
	}

	require.NoError(t, app.Run(context.Background(), []string{"test"}))
}

func TestNewFromCLI_WithCustomValues(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.Equal(t, "0.0.0.0", cfg.Server.Host)
			assert.Equal(t, 9090, cfg.Server.Port)
			assert.Equal(t, "https://auth.example.com", cfg.Server.BaseURL)
			assert.Equal(t, ":memory:", cfg.Database.DSN)
			assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
			assert.Equal(t, "deadbeef", cfg.Crypto.Key)
			return nil
		},
	}

	require.NoError(t, app.Run(context.Background(), []string{
		"test",
		"--host", "0.0.0.0",
		"--port", "9090",
		"--base-url", "https://auth.example.com",
		"--database-dsn", ":memory:",
		"--smtp-host", "smtp.example.com",
		"--crypto-key", "deadbeef",
	}))
}
