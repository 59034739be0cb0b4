// Package handoff passes a newly created share bundle across a navigation boundary.
//
// The slot has a strict read-once contract: Take returns the bundle exactly
// once and deletes it in the same step, so a revisit never sees stale state.
package handoff

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a token has no bundle, including the second
// Take for a token that was already consumed.
var ErrNotFound = errors.New("share bundle not found")

// Bundle is everything the "share your new code" view needs.
type Bundle struct {
	Code              string `json:"code"`
	ReferralLink      string `json:"referralLink"`
	QRCodeDownloadURL string `json:"qrCodeDownloadUrl"`
}

// TokenGenerator mints opaque handoff tokens.
type TokenGenerator func() string

// Slot stores share bundles until their single consumption. No TTL: the
// contract is read-once, not time-based.
type Slot interface {
	// Stash stores the bundle and returns the token that retrieves it.
	Stash(ctx context.Context, bundle *Bundle) (string, error)

	// Take retrieves and deletes the bundle for token in one step.
	Take(ctx context.Context, token string) (*Bundle, error)
}
