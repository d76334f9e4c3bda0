// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package fingerprint derives the normalized request context used by the
// trust evaluator. Extraction is a pure function of the request metadata:
// malformed or missing input never fails, it degrades to "unknown" per
// field.
package fingerprint

import (
	"net"
	"net/http"
	"strings"

	"github.com/mileusna/useragent"
	"github.com/oschwald/geoip2-golang"

	"github.com/unitywave/trustgate/internal/models"
)

// Extractor turns raw request metadata into a models.Fingerprint.
// The GeoIP reader is optional; without it country and city resolve to
// "unknown".
type Extractor struct {
	geo *geoip2.Reader
}

// New creates an Extractor. dbPath points at a MaxMind City database and
// may be empty to disable geolocation.
func New(dbPath string) (*Extractor, error) {
	if dbPath == "" {
		return &Extractor{}, nil
	}

	reader, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &Extractor{geo: reader}, nil
}

// Close releases the GeoIP reader, if any.
func (e *Extractor) Close() error {
	if e.geo == nil {
		return nil
	}
	return e.geo.Close()
}

// FromRequest extracts the fingerprint of an HTTP request.
func (e *Extractor) FromRequest(r *http.Request) models.Fingerprint {
	return e.Extract(clientIP(r), r.UserAgent())
}

// Extract builds a fingerprint from a client IP and user-agent string.
func (e *Extractor) Extract(ip, rawUA string) models.Fingerprint {
	fp := models.Fingerprint{
		IP:         orUnknown(ip),
		Country:    models.Unknown,
		City:       models.Unknown,
		Browser:    models.Unknown,
		OS:         models.Unknown,
		Platform:   models.Unknown,
		Device:     models.Unknown,
		DeviceType: models.Unknown,
	}

	e.locate(ip, &fp)
	parseUserAgent(rawUA, &fp)

	return fp
}

// locate fills country and city from the GeoIP database.
func (e *Extractor) locate(ip string, fp *models.Fingerprint) {
	if e.geo == nil {
		return
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return
	}

	record, err := e.geo.City(parsed)
	if err != nil || record == nil {
		return
	}

	fp.Country = orUnknown(record.Country.Names["en"])
	fp.City = orUnknown(record.City.Names["en"])
}

func parseUserAgent(rawUA string, fp *models.Fingerprint) {
	if strings.TrimSpace(rawUA) == "" {
		return
	}

	ua := useragent.Parse(rawUA)

	// Browser only when both name and version parsed.
	if ua.Name != "" && ua.Version != "" {
		fp.Browser = ua.Name + " " + ua.Version
	}

	if ua.OS != "" {
		fp.Platform = ua.OS
		if ua.OSVersion != "" {
			fp.OS = ua.OS + " " + ua.OSVersion
		} else {
			fp.OS = ua.OS
		}
	}

	if ua.Device != "" {
		fp.Device = ua.Device
	}

	// First true flag wins, priority Mobile > Desktop > Tablet.
	switch {
	case ua.Mobile:
		fp.DeviceType = models.DeviceMobile
	case ua.Desktop:
		fp.DeviceType = models.DeviceDesktop
	case ua.Tablet:
		fp.DeviceType = models.DeviceTablet
	}
}

// clientIP resolves the originating client address, preferring proxy
// headers over the socket peer.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.Unknown
	}
	return s
}
