// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

// Unknown is the placeholder value for any fingerprint attribute the
// originating request did not provide.
const Unknown = "unknown"

// Device type classifications, mutually exclusive.
const (
	DeviceMobile  = "Mobile"
	DeviceDesktop = "Desktop"
	DeviceTablet  = "Tablet"
)

// Fingerprint is the normalized 8-field descriptor of the network/device
// context of a request. It is a value type: two fingerprints are the same
// context if and only if every field matches exactly.
type Fingerprint struct {
	IP         string `db:"ip" json:"ip"`
	Country    string `db:"country" json:"country"`
	City       string `db:"city" json:"city"`
	Browser    string `db:"browser" json:"browser"`
	OS         string `db:"os" json:"os"`
	Platform   string `db:"platform" json:"platform"`
	Device     string `db:"device" json:"device"`
	DeviceType string `db:"device_type" json:"device_type"`
}

// Equal reports whether both fingerprints match field-for-field.
// No fuzzy matching: a single changed attribute is a different context.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f == other
}
