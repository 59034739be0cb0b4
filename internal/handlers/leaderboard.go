package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/noonesark/splash/internal/upstream"
	"go.uber.org/zap"
)

// LeaderboardHandler proxies the read-only public metrics: the top-codes
// leaderboards and the recent-ripples feed.
type LeaderboardHandler struct {
	upstream *upstream.Client
	logger   *zap.Logger
}

// NewLeaderboardHandler creates the leaderboard proxy handler.
func NewLeaderboardHandler(client *upstream.Client, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		upstream: client,
		logger:   logger,
	}
}

func (h *LeaderboardHandler) TopCodes(ctx context.Context, _ *struct{}) (*TopCodesOutput, error) {
	out := &TopCodesOutput{Status: http.StatusOK}

	resp, status, err := h.upstream.TopCodes(ctx)
	if err != nil {
		h.logger.Error("top codes unreachable", zap.Error(err))

		out.Status = http.StatusInternalServerError
		out.Body = upstream.TopCodesResponse{
			Message:  "Internal server error",
			Most:     []upstream.MostRipple{},
			Furthest: []upstream.FurthestRipple{},
		}

		return out, nil
	}

	if resp == nil {
		h.logger.Warn("top codes error", zap.Int("status", status))

		out.Status = status
		out.Body = upstream.TopCodesResponse{
			Message:  "Failed to retrieve top codes",
			Most:     []upstream.MostRipple{},
			Furthest: []upstream.FurthestRipple{},
		}

		return out, nil
	}

	out.Body = *resp

	return out, nil
}

func (h *LeaderboardHandler) RecentRipples(ctx context.Context, _ *struct{}) (*RecentRipplesOutput, error) {
	out := &RecentRipplesOutput{Status: http.StatusOK}

	resp, status, err := h.upstream.RecentRipples(ctx)
	if err != nil {
		h.logger.Error("recent ripples unreachable", zap.Error(err))

		out.Status = http.StatusInternalServerError
		out.Body = upstream.RipplesResponse{
			Message: "Failed to connect to metrics service",
			Ripples: []upstream.Ripple{},
		}

		return out, nil
	}

	if resp == nil {
		h.logger.Warn("recent ripples error", zap.Int("status", status))

		out.Status = status
		out.Body = upstream.RipplesResponse{
			Message: fmt.Sprintf("External API error: %d", status),
			Ripples: []upstream.Ripple{},
		}

		return out, nil
	}

	out.Body = *resp

	return out, nil
}
