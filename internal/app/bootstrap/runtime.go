// Package bootstrap builds the runtime pieces of the client from configuration.
package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/hospital-booking-client/internal/app"
	"github.com/wolfman30/hospital-booking-client/internal/auth"
	appconfig "github.com/wolfman30/hospital-booking-client/internal/config"
	"github.com/wolfman30/hospital-booking-client/internal/gateway"
	"github.com/wolfman30/hospital-booking-client/internal/navigation"
	"github.com/wolfman30/hospital-booking-client/internal/notify"
	"github.com/wolfman30/hospital-booking-client/internal/observability/metrics"
	"github.com/wolfman30/hospital-booking-client/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildTokenStore returns the token store selected by TOKEN_STORE. The
// returned close func releases any connection the store holds.
func BuildTokenStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (auth.TokenStore, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	noop := func() {}

	switch cfg.TokenStore {
	case appconfig.TokenStoreMemory:
		return auth.NewMemoryTokenStore(), noop, nil
	case appconfig.TokenStoreFile, "":
		if strings.TrimSpace(cfg.TokenFile) == "" {
			return nil, nil, fmt.Errorf("bootstrap: TOKEN_FILE is required for the file token store")
		}
		return auth.NewFileTokenStore(cfg.TokenFile), noop, nil
	case appconfig.TokenStoreRedis:
		client := BuildRedisClient(ctx, cfg, logger, true)
		if client == nil {
			return nil, nil, fmt.Errorf("bootstrap: redis token store needs a reachable REDIS_ADDR")
		}
		return auth.NewRedisTokenStore(client, cfg.TokenKey, cfg.TokenTTL), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown token store %q", cfg.TokenStore)
	}
}

// BuildGateway returns the HTTP client for the booking and auth APIs. tokens
// may be nil for anonymous calls.
func BuildGateway(cfg *appconfig.Config, tokens gateway.TokenSource, reg prometheus.Registerer, logger *logging.Logger) *gateway.Client {
	return gateway.NewClient(gateway.Config{
		BaseURL:     cfg.APIBaseURL,
		AuthBaseURL: cfg.AuthBaseURL,
		Timeout:     cfg.RequestTimeout,
		Tokens:      tokens,
		Metrics:     metrics.NewGatewayMetrics(reg),
		Logger:      logger,
	})
}

// Runtime is a fully wired client.
type Runtime struct {
	App     *app.App
	Gateway *gateway.Client
	Tokens  auth.TokenStore
	// Metrics gathers the gateway call metrics recorded by this runtime.
	Metrics *prometheus.Registry
	close   func()
}

// WriteMetrics writes the gathered metrics to path in the prometheus text
// format, for node_exporter's textfile collector or a later look.
func (r *Runtime) WriteMetrics(path string) error {
	if r == nil || r.Metrics == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.Metrics); err != nil {
		return fmt.Errorf("bootstrap: write metrics: %w", err)
	}
	return nil
}

// Close releases connections held by the runtime.
func (r *Runtime) Close() {
	if r != nil && r.close != nil {
		r.close()
	}
}

// Build wires the token store, gateway and views from cfg. A nil reg gets a
// fresh registry, exposed as Runtime.Metrics either way.
func Build(ctx context.Context, cfg *appconfig.Config, nav navigation.Navigator, notifier notify.Notifier, reg *prometheus.Registry, logger *logging.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	tokens, closeTokens, err := BuildTokenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	guard := auth.NewGuard(tokens, logger)
	client := BuildGateway(cfg, guard, reg, logger)

	return &Runtime{
		App: app.New(app.Deps{
			Gateway:       client,
			Authenticator: client,
			Tokens:        tokens,
			Navigator:     nav,
			Notifier:      notifier,
			Logger:        logger,
		}),
		Gateway: client,
		Tokens:  tokens,
		Metrics: reg,
		close:   closeTokens,
	}, nil
}
