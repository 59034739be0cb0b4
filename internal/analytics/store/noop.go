package store

import (
	"context"

	"github.com/noonesark/splash/internal/analytics"
	"go.uber.org/zap"
)

// Noop logs telemetry events instead of persisting them. Used when no
// database is configured.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a logging analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveScan(_ context.Context, event *analytics.ScanTrackedEvent) error {
	n.logger.Info("scan event received",
		zap.String("ref", event.Ref),
		zap.String("clientIp", event.ClientIP),
		zap.Bool("forwarded", event.Forwarded),
		zap.Time("scannedAt", event.ScannedAt),
	)

	return nil
}

func (n *Noop) SaveMetrics(_ context.Context, event *analytics.MetricsUpdatedEvent) error {
	n.logger.Info("metrics event received",
		zap.String("code", event.Code),
		zap.Bool("forwarded", event.Forwarded),
		zap.Time("updatedAt", event.UpdatedAt),
	)

	return nil
}

// Compile-time check.
var _ analytics.Store = (*Noop)(nil)
