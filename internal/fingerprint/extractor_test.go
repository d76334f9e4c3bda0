// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package fingerprint_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitywave/trustgate/internal/fingerprint"
	"github.com/unitywave/trustgate/internal/models"
)

const (
	firefoxLinuxUA = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"
	iphoneUA       = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Mobile/15E148 Safari/604.1"
)

func newExtractor(t *testing.T) *fingerprint.Extractor {
	t.Helper()
	e, err := fingerprint.New("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestExtract_DesktopBrowser(t *testing.T) {
	e := newExtractor(t)

	fp := e.Extract("203.0.113.7", firefoxLinuxUA)

	assert.Equal(t, "203.0.113.7", fp.IP)
	assert.Equal(t, "Firefox 115.0", fp.Browser)
	assert.Equal(t, "Linux", fp.Platform)
	assert.Equal(t, models.DeviceDesktop, fp.DeviceType)
	// No GeoIP database configured: location degrades, never fails.
	assert.Equal(t, models.Unknown, fp.Country)
	assert.Equal(t, models.Unknown, fp.City)
}

func TestExtract_MobileWinsOverTablet(t *testing.T) {
	e := newExtractor(t)

	fp := e.Extract("198.51.100.1", iphoneUA)

	assert.Equal(t, models.DeviceMobile, fp.DeviceType)
	assert.Equal(t, "iPhone", fp.Device)
}

func TestExtract_EmptyInputDegradesToUnknown(t *testing.T) {
	e := newExtractor(t)

	fp := e.Extract("", "")

	assert.Equal(t, models.Fingerprint{
		IP:         models.Unknown,
		Country:    models.Unknown,
		City:       models.Unknown,
		Browser:    models.Unknown,
		OS:         models.Unknown,
		Platform:   models.Unknown,
		Device:     models.Unknown,
		DeviceType: models.Unknown,
	}, fp)
}

func TestExtract_GarbageUserAgent(t *testing.T) {
	e := newExtractor(t)

	fp := e.Extract("203.0.113.7", ")(*&^%$#@! not a user agent")

	// Malformed input never panics, fields degrade individually.
	assert.Equal(t, "203.0.113.7", fp.IP)
	assert.Equal(t, models.Unknown, fp.Browser)
	assert.Equal(t, models.Unknown, fp.OS)
}

func TestFromRequest_ForwardedForWins(t *testing.T) {
	e := newExtractor(t)

	req := httptest.NewRequest("POST", "/auth/evaluate", nil)
	req.RemoteAddr = "10.0.0.1:58312"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	req.Header.Set("User-Agent", firefoxLinuxUA)

	fp := e.FromRequest(req)
	assert.Equal(t, "203.0.113.7", fp.IP)
}

func TestFromRequest_RemoteAddrFallback(t *testing.T) {
	e := newExtractor(t)

	req := httptest.NewRequest("POST", "/auth/evaluate", nil)
	req.RemoteAddr = "192.0.2.33:41000"

	fp := e.FromRequest(req)
	assert.Equal(t, "192.0.2.33", fp.IP)
}

func TestFingerprintEqual(t *testing.T) {
	e := newExtractor(t)

	a := e.Extract("203.0.113.7", firefoxLinuxUA)
	b := e.Extract("203.0.113.7", firefoxLinuxUA)
	assert.True(t, a.Equal(b))

	// A single changed field is a different context.
	c := e.Extract("203.0.113.8", firefoxLinuxUA)
	assert.False(t, a.Equal(c))
}
