// Package fingerprint derives a stable pseudo-identifier from device attributes.
//
// The value is an analytics signal, not a security credential: it only needs to
// be stable for one device across page loads, never unforgeable.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
)

// Unknown is used whenever a fingerprint cannot be derived.
const Unknown = "unknown"

// Device holds the environment attributes fed into the hash. All fields are
// optional; a zero-value Device still hashes deterministically.
type Device struct {
	ScreenWidth         int    `json:"screenWidth"`
	ScreenHeight        int    `json:"screenHeight"`
	ColorDepth          int    `json:"screenColorDepth"`
	PixelDepth          int    `json:"screenPixelDepth"`
	UserAgent           string `json:"userAgent"`
	Language            string `json:"language"`
	Languages           string `json:"languages"`
	Platform            string `json:"platform"`
	HardwareConcurrency int    `json:"hardwareConcurrency"`
	DeviceMemory        int    `json:"deviceMemory"`
	MaxTouchPoints      int    `json:"maxTouchPoints"`
	Timezone            string `json:"timezone"`
	TimezoneOffset      int    `json:"timezoneOffset"`
	Canvas              string `json:"canvas,omitempty"`
	WebGLVendor         string `json:"webglVendor,omitempty"`
	WebGLRenderer       string `json:"webglRenderer,omitempty"`
	Fonts               string `json:"fonts,omitempty"`
}

// Hash returns the hex-encoded sha256 of the canonical serialization of d.
func Hash(d Device) string {
	payload, err := json.Marshal(d)
	if err != nil {
		return Unknown
	}

	sum := sha256.Sum256(payload)

	return hex.EncodeToString(sum[:])
}

// Session computes the fingerprint once and serves the cached value for the
// rest of the session. The value is immutable after the first call.
type Session struct {
	device Device
	once   sync.Once
	value  string
}

// NewSession creates a session-scoped fingerprint source for the given device.
func NewSession(device Device) *Session {
	return &Session{device: device}
}

// Value returns the session fingerprint, computing it on first use.
func (s *Session) Value() string {
	s.once.Do(func() {
		s.value = Hash(s.device)
	})

	return s.value
}
