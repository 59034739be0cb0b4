package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/noonesark/splash/internal/handlers"
	"github.com/noonesark/splash/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter returns a Huma middleware limiting requests per client.
// Endpoints override or disable the default limits through operation
// metadata under ratelimit.MetadataKey. Requires RequestMeta upstream
// for the client IP.
func RateLimiter(
	api huma.API,
	limiter ratelimit.Limiter,
	defaults []ratelimit.LimitConfig,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		limits := defaults
		path := operationPath(ctx)

		if cfg := endpointConfig(ctx); cfg != nil {
			if cfg.Disabled {
				next(ctx)

				return
			}

			if len(cfg.Limits) > 0 {
				limits = cfg.Limits
			}
		}

		if len(limits) == 0 {
			next(ctx)

			return
		}

		// Route template in the key keeps endpoint budgets independent.
		key := clientKey(ctx) + ":" + path

		allowed, exceeded, err := limiter.Allow(ctx.Context(), key, limits)
		if err != nil {
			logger.Error("rate limit check failed", zap.String("path", path), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !allowed {
			msg := "rate limit exceeded"
			if exceeded != nil {
				msg = fmt.Sprintf("rate limit exceeded: %d requests in %s", exceeded.Max, exceeded.Window)
				logger.Warn("rate limit exceeded",
					zap.String("path", path),
					zap.String("method", ctx.Method()),
					zap.Int64("max", exceeded.Max),
					zap.Duration("window", exceeded.Window),
				)
			}

			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)

			return
		}

		next(ctx)
	}
}

// clientKey hashes IP and User-Agent so raw addresses never become
// storage keys.
func clientKey(ctx huma.Context) string {
	meta := handlers.RequestMetaFromContext(ctx.Context())

	hash := sha256.Sum256([]byte(meta.ClientIP + "|" + meta.UserAgent))

	return hex.EncodeToString(hash[:])
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}

func endpointConfig(ctx huma.Context) *ratelimit.EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[ratelimit.MetadataKey].(ratelimit.EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
