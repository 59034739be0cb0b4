// Package ratelimit implements sliding-window rate limiting keyed by a
// client fingerprint, with per-endpoint limit configuration carried in
// operation metadata.
package ratelimit

import (
	"context"
	"time"
)

// Store records requests per key inside a sliding window.
type Store interface {
	// Record counts a request against key and returns the number of
	// requests still inside the window, pruning expired entries.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
