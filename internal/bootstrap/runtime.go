// Package bootstrap wires process-level dependencies shared by the commands.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"ideahub/internal/cache"
	"ideahub/internal/config"
	"ideahub/internal/database"
	"ideahub/internal/middleware"
	"ideahub/internal/observability"
	"ideahub/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData loads the demo dataset after the schema is applied.
	SeedDemoData bool
}

// Runtime holds the initialized dependencies and their teardown.
type Runtime struct {
	DB             *gorm.DB
	Redis          *redis.Client
	shutdownTracer func(context.Context) error
}

// InitRuntime starts tracing, connects to the database and Redis, and
// optionally seeds demo data. A Redis outage leaves Redis nil.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:  observability.ServiceName,
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSamplerRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	rt := &Runtime{
		DB:             db,
		Redis:          cache.InitRedis(cfg.RedisURL),
		shutdownTracer: shutdown,
	}

	if opts.SeedDemoData || cfg.SeedDemoData {
		sum, err := seed.NewSeeder(db, seed.Options{}).Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("demo seeding failed: %w", err)
		}
		middleware.Logger.Info("demo data ready",
			slog.Int("users", sum.Users), slog.Int("ideas", sum.Ideas), slog.Int("problems", sum.Problems))
	}

	return rt, nil
}

// ShutdownTracing flushes pending spans.
func (r *Runtime) ShutdownTracing(ctx context.Context) error {
	if r.shutdownTracer == nil {
		return nil
	}
	return r.shutdownTracer(ctx)
}
