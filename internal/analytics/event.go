// Package analytics defines the telemetry events the proxy fans out and the
// consumer-side persistence for them.
package analytics

import (
	"encoding/json"
	"time"
)

const (
	// TopicScanTracked carries one event per QR scan hitting /api/track.
	TopicScanTracked = "splash.scan.tracked"
	// TopicMetricsUpdated carries one event per device-metrics snapshot.
	TopicMetricsUpdated = "splash.metrics.updated"
)

// ScanTrackedEvent records one scan attributed to a referral code.
type ScanTrackedEvent struct {
	Ref       string    `json:"ref"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	Forwarded bool      `json:"forwarded"`
	ScannedAt time.Time `json:"scannedAt"`
}

// MetricsUpdatedEvent records one device-metrics snapshot for a code. Metrics
// is kept opaque: the proxy relays it, the store archives it.
type MetricsUpdatedEvent struct {
	Code      string          `json:"code"`
	Metrics   json.RawMessage `json:"metrics"`
	ClientIP  string          `json:"clientIp"`
	Forwarded bool            `json:"forwarded"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
