// Package container wires the application dependencies with samber/do.
// Each *Package function registers one concern; the binaries compose the
// set they need.
package container

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/noonesark/splash/internal/analytics"
	"github.com/noonesark/splash/internal/analytics/store"
	"github.com/noonesark/splash/internal/handlers"
	"github.com/noonesark/splash/internal/health"
	"github.com/noonesark/splash/internal/messaging"
	"github.com/noonesark/splash/internal/middleware"
	"github.com/noonesark/splash/internal/ratelimit"
	"github.com/noonesark/splash/internal/upstream"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// Options is the shared configuration surface for both binaries.
type Options struct {
	Port           int    `default:"8888"                                                                    help:"Port to listen on"                                        short:"p"`
	RedisAddr      string `default:"localhost:6379"                                                          help:"Redis server address (empty runs in-memory)"              short:"r"`
	DatabaseURL    string `default:""                                                                        help:"Postgres URL for analytics persistence (consumer only)"`
	MetricsBaseURL string `default:"https://9zkwe85qj4.execute-api.us-east-1.amazonaws.com/public-metrics"   help:"Base URL of the external splash metrics service"`
	TelemetryURL   string `default:""                                                                        help:"Telemetry endpoint URL (empty logs scans locally)"`
	TelemetryKey   string `default:""                                                                        help:"Bearer token for the telemetry endpoint"`
	LogFormat      string `default:"console"                                                                 enum:"console,json"                                             help:"Log output format"`
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the Redis client when an address is configured.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		if options.RedisAddr == "" {
			return nil, fmt.Errorf("redis address not configured")
		}

		return redis.NewClient(&redis.Options{Addr: options.RedisAddr}), nil
	})
}

// PostgresPackage provides the pgx pool when a database URL is configured.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		if options.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL not configured")
		}

		return pgxpool.New(context.Background(), options.DatabaseURL)
	})
}

// UpstreamPackage provides the client for the external splash service.
func UpstreamPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*upstream.Client, error) {
		options := do.MustInvoke[*Options](i)

		return upstream.NewClient(upstream.Config{
			BaseURL:      options.MetricsBaseURL,
			TelemetryURL: options.TelemetryURL,
			TelemetryKey: options.TelemetryKey,
		}), nil
	})
}

// RateLimitPackage provides the sliding window limiter, Redis-backed when
// available.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Limiter, error) {
		options := do.MustInvoke[*Options](i)

		var st ratelimit.Store
		if options.RedisAddr != "" {
			st = ratelimit.NewRedisStore(do.MustInvoke[*redis.Client](i))
		} else {
			st = ratelimit.NewMemoryStore()
		}

		return ratelimit.NewSlidingWindowLimiter(st), nil
	})
}

// PublisherGroupPackage provides the event publisher and the typed publish
// funcs the handlers use. Without Redis, events stay on an in-process
// channel.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		options := do.MustInvoke[*Options](i)
		wmLogger := watermill.NewStdLogger(false, false)

		if options.RedisAddr == "" {
			return messaging.NewPublisherGroup(gochannel.NewGoChannel(gochannel.Config{}, wmLogger)), nil
		}

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: do.MustInvoke[*redis.Client](i),
		}, wmLogger)
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.ScanTrackedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.ScanTrackedEvent](group.Publisher(), analytics.TopicScanTracked), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.MetricsUpdatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.MetricsUpdatedEvent](group.Publisher(), analytics.TopicMetricsUpdated), nil
	})
}

// ConsumerGroupPackage provides the analytics consumers. Requires Redis;
// persistence falls back to logging when Postgres is not configured.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (message.Subscriber, error) {
		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*redis.Client](i),
			ConsumerGroup: "splash-analytics",
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		return subscriber, nil
	})

	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if options.DatabaseURL == "" {
			logger.Warn("no database configured, analytics events will only be logged")

			return store.NewNoop(logger), nil
		}

		return store.NewPostgres(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		subscriber := do.MustInvoke[message.Subscriber](i)
		eventStore := do.MustInvoke[analytics.Store](i)
		logger := do.MustInvoke[*zap.Logger](i)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(analytics.NewScanConsumer(subscriber, eventStore, logger))
		group.Add(analytics.NewMetricsConsumer(subscriber, eventStore, logger))

		return group, nil
	})
}

// HTTPPackage provides the router and API with every route registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Use(middleware.RequestMeta)

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)
		client := do.MustInvoke[*upstream.Client](i)
		limiter := do.MustInvoke[ratelimit.Limiter](i)

		api := humachi.New(router, huma.DefaultConfig("Splash Referral Proxy", "1.0.0"))
		api.UseMiddleware(middleware.RateLimiter(api, limiter, nil, logger))

		splashHandler := handlers.NewSplashHandler(client, logger)
		telemetryHandler := handlers.NewTelemetryHandler(
			client,
			do.MustInvoke[messaging.Publish[analytics.ScanTrackedEvent]](i),
			do.MustInvoke[messaging.Publish[analytics.MetricsUpdatedEvent]](i),
			logger,
		)
		leaderboardHandler := handlers.NewLeaderboardHandler(client, logger)

		handlers.RegisterRoutes(api, splashHandler, telemetryHandler, leaderboardHandler)

		var checker health.Checker
		if options.RedisAddr != "" {
			checker = health.NewRedisChecker(do.MustInvoke[*redis.Client](i))
		}

		health.RegisterRoutes(api, health.NewHandler(checker))

		return api, nil
	})
}
