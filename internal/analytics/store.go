package analytics

import "context"

// Store persists telemetry events consumed off the bus.
type Store interface {
	SaveScan(ctx context.Context, event *ScanTrackedEvent) error
	SaveMetrics(ctx context.Context, event *MetricsUpdatedEvent) error
}
