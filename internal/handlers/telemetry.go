package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/noonesark/splash/internal/analytics"
	"github.com/noonesark/splash/internal/messaging"
	"github.com/noonesark/splash/internal/upstream"
	"go.uber.org/zap"
)

// TelemetryHandler handles scan tracking and device-metrics updates. Both
// operations are fire-and-forget from the splash page's point of view: once
// the body validates, the caller gets a success no matter what the telemetry
// endpoint does. Events also fan out on the bus for local persistence.
type TelemetryHandler struct {
	upstream       *upstream.Client
	publishScan    messaging.Publish[analytics.ScanTrackedEvent]
	publishMetrics messaging.Publish[analytics.MetricsUpdatedEvent]
	logger         *zap.Logger
	now            func() time.Time
}

// NewTelemetryHandler creates the telemetry proxy handler.
func NewTelemetryHandler(
	client *upstream.Client,
	publishScan messaging.Publish[analytics.ScanTrackedEvent],
	publishMetrics messaging.Publish[analytics.MetricsUpdatedEvent],
	logger *zap.Logger,
) *TelemetryHandler {
	return &TelemetryHandler{
		upstream:       client,
		publishScan:    publishScan,
		publishMetrics: publishMetrics,
		logger:         logger,
		now:            time.Now,
	}
}

func (h *TelemetryHandler) TrackScan(ctx context.Context, in *TrackScanInput) (*TrackScanOutput, error) {
	out := &TrackScanOutput{Status: http.StatusOK}

	ref := in.Body.Ref
	if ref == "" {
		out.Status = http.StatusBadRequest
		out.Body = TrackScanBody{Message: "Missing or invalid ref parameter"}

		return out, nil
	}

	meta := RequestMetaFromContext(ctx)
	forwarded := h.upstream.TelemetryConfigured()
	scannedAt := h.now().UTC()

	event := &analytics.ScanTrackedEvent{
		Ref:       ref,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Forwarded: forwarded,
		ScannedAt: scannedAt,
	}
	if err := h.publishScan(event); err != nil {
		h.logger.Error("failed to publish scan event", zap.String("ref", ref), zap.Error(err))
	}

	if !forwarded {
		h.logger.Info("qr code scanned", zap.String("ref", ref))
		out.Body = TrackScanBody{Success: true, Logged: true}

		return out, nil
	}

	status, err := h.upstream.TrackScan(ctx, &upstream.TrackRequest{
		Ref:       ref,
		Timestamp: scannedAt.Format(time.RFC3339),
	})
	// Telemetry failures never fail the caller.
	if err != nil {
		h.logger.Error("failed to call telemetry endpoint", zap.String("ref", ref), zap.Error(err))
	} else if status < 200 || status >= 300 {
		h.logger.Error("telemetry endpoint error", zap.String("ref", ref), zap.Int("status", status))
	}

	out.Body = TrackScanBody{Success: true}

	return out, nil
}

func (h *TelemetryHandler) UpdateMetrics(ctx context.Context, in *UpdateMetricsInput) (*UpdateMetricsOutput, error) {
	out := &UpdateMetricsOutput{Status: http.StatusOK}

	code := in.Body.Code
	if code == "" {
		out.Status = http.StatusBadRequest
		out.Body = UpdateMetricsBody{Message: "Missing or invalid code parameter"}

		return out, nil
	}

	if len(in.Body.Metrics) == 0 {
		out.Status = http.StatusBadRequest
		out.Body = UpdateMetricsBody{Message: "Missing metrics parameter"}

		return out, nil
	}

	meta := RequestMetaFromContext(ctx)
	forwarded := h.upstream.TelemetryConfigured()
	updatedAt := h.now().UTC()

	event := &analytics.MetricsUpdatedEvent{
		Code:      code,
		Metrics:   in.Body.Metrics,
		ClientIP:  meta.ClientIP,
		Forwarded: forwarded,
		UpdatedAt: updatedAt,
	}
	if err := h.publishMetrics(event); err != nil {
		h.logger.Error("failed to publish metrics event", zap.String("code", code), zap.Error(err))
	}

	if !forwarded {
		h.logger.Info("metrics logged locally", zap.String("code", code))
		out.Body = UpdateMetricsBody{Success: true, Message: "Metrics logged locally"}

		return out, nil
	}

	status, err := h.upstream.UpdateMetrics(ctx, &upstream.UpdateMetricsRequest{
		Code:      code,
		Metrics:   in.Body.Metrics,
		Timestamp: updatedAt.Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Error("failed to call telemetry endpoint", zap.String("code", code), zap.Error(err))
	} else if status < 200 || status >= 300 {
		h.logger.Error("telemetry endpoint error", zap.String("code", code), zap.Int("status", status))
	}

	out.Body = UpdateMetricsBody{Success: true, Message: "Metrics updated successfully"}

	return out, nil
}
