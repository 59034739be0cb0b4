package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/noonesark/splash/internal/analytics"
	"github.com/noonesark/splash/internal/handlers"
	"github.com/noonesark/splash/internal/messaging"
	"github.com/noonesark/splash/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// capturePublish collects published events for assertions.
func capturePublish[T any](events *[]*T) messaging.Publish[T] {
	return func(event *T) error {
		*events = append(*events, event)

		return nil
	}
}

func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ *T) error { return err }
}

func newTelemetryHandler(telemetryURL string, scans *[]*analytics.ScanTrackedEvent, metrics *[]*analytics.MetricsUpdatedEvent) *handlers.TelemetryHandler {
	client := upstream.NewClient(upstream.Config{
		BaseURL:      "http://127.0.0.1:0",
		TelemetryURL: telemetryURL,
	})

	return handlers.NewTelemetryHandler(
		client,
		capturePublish(scans),
		capturePublish(metrics),
		zap.NewNop(),
	)
}

func TestTrackScan(t *testing.T) {
	t.Run("rejects a missing ref", func(t *testing.T) {
		var scans []*analytics.ScanTrackedEvent
		var metrics []*analytics.MetricsUpdatedEvent

		handler := newTelemetryHandler("", &scans, &metrics)

		out, err := handler.TrackScan(context.Background(), &handlers.TrackScanInput{})

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, out.Status)
		assert.False(t, out.Body.Success)
		assert.Equal(t, "Missing or invalid ref parameter", out.Body.Message)
		assert.Empty(t, scans)
	})

	t.Run("logs locally when no telemetry endpoint is configured", func(t *testing.T) {
		var scans []*analytics.ScanTrackedEvent
		var metrics []*analytics.MetricsUpdatedEvent

		handler := newTelemetryHandler("", &scans, &metrics)

		in := &handlers.TrackScanInput{}
		in.Body.Ref = "abc123"

		out, err := handler.TrackScan(metaContext("203.0.113.9"), in)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, out.Status)
		assert.True(t, out.Body.Success)
		assert.True(t, out.Body.Logged)

		require.Len(t, scans, 1)
		assert.Equal(t, "abc123", scans[0].Ref)
		assert.Equal(t, "203.0.113.9", scans[0].ClientIP)
		assert.False(t, scans[0].Forwarded)
	})

	t.Run("forwards with a timestamp when configured", func(t *testing.T) {
		var got upstream.TrackRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		var scans []*analytics.ScanTrackedEvent
		var metrics []*analytics.MetricsUpdatedEvent

		handler := newTelemetryHandler(server.URL, &scans, &metrics)

		in := &handlers.TrackScanInput{}
		in.Body.Ref = "abc123"

		out, err := handler.TrackScan(context.Background(), in)

		require.NoError(t, err)
		assert.True(t, out.Body.Success)
		assert.False(t, out.Body.Logged)

		assert.Equal(t, "abc123", got.Ref)
		_, parseErr := time.Parse(time.RFC3339, got.Timestamp)
		assert.NoError(t, parseErr)

		require.Len(t, scans, 1)
		assert.True(t, scans[0].Forwarded)
	})

	t.Run("succeeds even when the telemetry endpoint fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		var scans []*analytics.ScanTrackedEvent
		var metrics []*analytics.MetricsUpdatedEvent

		handler := newTelemetryHandler(server.URL, &scans, &metrics)

		in := &handlers.TrackScanInput{}
		in.Body.Ref = "abc123"

		out, err := handler.TrackScan(context.Background(), in)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, out.Status)
		assert.True(t, out.Body.Success)
	})

	t.Run("succeeds even when the telemetry endpoint is unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()

		var scans []*analytics.ScanTrackedEvent
		var metrics []*analytics.MetricsUpdatedEvent

		handler := newTelemetryHandler(server.URL, &scans, &metrics)

		in := &handlers.TrackScanInput{}
		in.Body.Ref = "abc123"

		out, err := handler.TrackScan(context.Background(), in)

		require.NoError(t, err)
		assert.True(t, out.Body.Success)
	})

	t.Run("succeeds even when publishing fails", func(t *testing.T) {
		client := upstream.NewClient(upstream.Config{BaseURL: "http://127.0.0.1:0"})
		handler := handlers.NewTelemetryHandler(
			client,
			errorPublish[analytics.ScanTrackedEvent](errors.New("publish error")),
			errorPublish[analytics.MetricsUpdatedEvent](errors.New("publish error")),
			zap.NewNop(),
		)

		in := &handlers.TrackScanInput{}
		in.Body.Ref = "abc123"

		out, err := handler.TrackScan(context.Background(), in)

		require.NoError(t, err)
		assert.True(t, out.Body.Success)
	})
}

func TestUpdateMetrics(t *testing.T) {
	payload := json.RawMessage(`{"screenWidth":390,"timezone":"America/New_York"}`)

	t.Run("rejects a missing code", func(t *testing.T) {
		var scans []*analytics.ScanTrackedEvent
		var metrics []*analytics.MetricsUpdatedEvent

		handler := newTelemetryHandler("", &scans, &metrics)

		in := &handlers.UpdateMetricsInput{}
		in.Body.Metrics = payload

		out, err := handler.UpdateMetrics(context.Background(), in)

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, out.Status)
		assert.Equal(t, "Missing or invalid code parameter", out.Body.Message)
	})

	t.Run("rejects missing metrics", func(t *testing.T) {
		var scans []*analytics.ScanTrackedEvent
		var metrics []*analytics.MetricsUpdatedEvent

		handler := newTelemetryHandler("", &scans, &metrics)

		in := &handlers.UpdateMetricsInput{}
		in.Body.Code = "abc123"

		out, err := handler.UpdateMetrics(context.Background(), in)

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, out.Status)
		assert.Equal(t, "Missing metrics parameter", out.Body.Message)
	})

	t.Run("logs locally when no telemetry endpoint is configured", func(t *testing.T) {
		var scans []*analytics.ScanTrackedEvent
		var metrics []*analytics.MetricsUpdatedEvent

		handler := newTelemetryHandler("", &scans, &metrics)

		in := &handlers.UpdateMetricsInput{}
		in.Body.Code = "abc123"
		in.Body.Metrics = payload

		out, err := handler.UpdateMetrics(context.Background(), in)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, out.Status)
		assert.True(t, out.Body.Success)
		assert.Equal(t, "Metrics logged locally", out.Body.Message)

		require.Len(t, metrics, 1)
		assert.Equal(t, "abc123", metrics[0].Code)
		assert.JSONEq(t, string(payload), string(metrics[0].Metrics))
		assert.False(t, metrics[0].Forwarded)
	})

	t.Run("reports success even when the telemetry endpoint fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		var scans []*analytics.ScanTrackedEvent
		var metrics []*analytics.MetricsUpdatedEvent

		handler := newTelemetryHandler(server.URL, &scans, &metrics)

		in := &handlers.UpdateMetricsInput{}
		in.Body.Code = "abc123"
		in.Body.Metrics = payload

		out, err := handler.UpdateMetrics(context.Background(), in)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, out.Status)
		assert.Equal(t, "Metrics updated successfully", out.Body.Message)

		require.Len(t, metrics, 1)
		assert.True(t, metrics[0].Forwarded)
	})

	t.Run("relays the snapshot opaquely", func(t *testing.T) {
		var got upstream.UpdateMetricsRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		var scans []*analytics.ScanTrackedEvent
		var metrics []*analytics.MetricsUpdatedEvent

		handler := newTelemetryHandler(server.URL, &scans, &metrics)

		in := &handlers.UpdateMetricsInput{}
		in.Body.Code = "abc123"
		in.Body.Metrics = payload

		_, err := handler.UpdateMetrics(context.Background(), in)

		require.NoError(t, err)
		assert.Equal(t, "abc123", got.Code)
		assert.JSONEq(t, string(payload), string(got.Metrics))
	})
}
