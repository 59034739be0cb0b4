package analytics

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/noonesark/splash/internal/messaging"
	"go.uber.org/zap"
)

// NewScanConsumer builds a consumer persisting scan events to the store.
func NewScanConsumer(subscriber message.Subscriber, store Store, logger *zap.Logger) *messaging.Consumer[ScanTrackedEvent] {
	handler := func(ctx context.Context, event *ScanTrackedEvent) error {
		if err := store.SaveScan(ctx, event); err != nil {
			return err
		}

		logger.Debug("scan event stored", zap.String("ref", event.Ref))

		return nil
	}

	return messaging.NewConsumer(subscriber, TopicScanTracked, handler, logger)
}

// NewMetricsConsumer builds a consumer persisting metrics snapshots.
func NewMetricsConsumer(subscriber message.Subscriber, store Store, logger *zap.Logger) *messaging.Consumer[MetricsUpdatedEvent] {
	handler := func(ctx context.Context, event *MetricsUpdatedEvent) error {
		if err := store.SaveMetrics(ctx, event); err != nil {
			return err
		}

		logger.Debug("metrics event stored", zap.String("code", event.Code))

		return nil
	}

	return messaging.NewConsumer(subscriber, TopicMetricsUpdated, handler, logger)
}
