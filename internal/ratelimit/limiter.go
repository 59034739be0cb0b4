package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// MetadataKey is the operation metadata key holding an EndpointConfig.
const MetadataKey = "rateLimit"

// LimitConfig is one window/max pair.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// EndpointConfig tunes rate limiting for a single operation.
type EndpointConfig struct {
	// Limits replaces the default limits for this endpoint when non-empty.
	Limits []LimitConfig

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// Limiter decides whether a request from the given client key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string, limits []LimitConfig) (allowed bool, exceeded *LimitConfig, err error)
}

// SlidingWindowLimiter checks each configured limit against the store.
// Every window gets its own counter so a burst limit and a daily cap can
// coexist on the same endpoint.
type SlidingWindowLimiter struct {
	store Store
}

// NewSlidingWindowLimiter creates a limiter over the given store.
func NewSlidingWindowLimiter(store Store) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{store: store}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string, limits []LimitConfig) (bool, *LimitConfig, error) {
	for _, limit := range limits {
		windowKey := fmt.Sprintf("%s:%d", key, limit.Window.Milliseconds())

		count, err := l.store.Record(ctx, windowKey, limit.Window)
		if err != nil {
			return false, nil, err
		}

		if count > limit.Max {
			exceeded := limit

			return false, &exceeded, nil
		}
	}

	return true, nil, nil
}

// Compile-time check.
var _ Limiter = (*SlidingWindowLimiter)(nil)
