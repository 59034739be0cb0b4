package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/noonesark/splash/internal/ratelimit"
)

// RegisterRoutes registers the splash API with per-endpoint rate limit
// configuration. Write operations that mutate upstream state get tight
// budgets; the high-traffic reads stay loose so the ambient overlays can
// poll.
func RegisterRoutes(api huma.API, splash *SplashHandler, telemetry *TelemetryHandler, leaderboard *LeaderboardHandler) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/api/get-metrics-by-code",
		Summary:     "Look up a referral code",
		Description: "Returns registration status, metrics, and the share bundle for a referral code.",
		Tags:        []string{"Referral"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 60},
				},
			},
		},
	}, splash.LookupCode)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/api/register-code",
		Summary:     "Register a referral code",
		Description: "Attaches contact info to a scanned code. The caller IP is derived server-side.",
		Tags:        []string{"Referral"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 50},
				},
			},
		},
	}, splash.RegisterCode)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/api/add-new-referrer",
		Summary:     "Create a new referrer",
		Description: "Mints a brand-new referral code with its share link and QR download.",
		Tags:        []string{"Referral"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 5},
					{Window: 24 * time.Hour, Max: 50},
				},
			},
		},
	}, splash.AddReferrer)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/api/track",
		Summary:     "Track a QR scan",
		Description: "Records one scan. Succeeds even when the telemetry endpoint is down or unset.",
		Tags:        []string{"Telemetry"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 60},
				},
			},
		},
	}, telemetry.TrackScan)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/api/update-code-metrics",
		Summary:     "Update device metrics",
		Description: "Relays a device-metrics snapshot for a code. Telemetry failures are not surfaced.",
		Tags:        []string{"Telemetry"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 60},
				},
			},
		},
	}, telemetry.UpdateMetrics)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/api/get-top-codes",
		Summary:     "Leaderboards",
		Description: "Returns the most-ripples and furthest-ripple leaderboards.",
		Tags:        []string{"Leaderboard"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 120},
				},
			},
		},
	}, leaderboard.TopCodes)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/api/get-recent-ripples",
		Summary:     "Recent ripples",
		Description: "Returns the most recent geolocated scan events.",
		Tags:        []string{"Leaderboard"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 120},
				},
			},
		},
	}, leaderboard.RecentRipples)
}
