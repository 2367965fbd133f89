package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// backend bundles what the long-running commands share.
type backend struct {
	sessions *session.Manager
	registry *prometheus.Registry
	metrics  *observability.Metrics
	close    func() error
}

// addSessionFlags registers the flags read by newBackend.
func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().String("redis", "", "Redis address for shared frames and session locks (e.g. localhost:6379)")
	cmd.Flags().String("redis-prefix", "arbor:", "Key prefix for Redis session locks")
	cmd.Flags().Duration("lock-ttl", session.DefaultLockTTL, "Session lock TTL")
}

// newBackend loads the tree and wires the session manager, metrics and, with --redis,
// the shared frame source and distributed locker.
func newBackend(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) (*backend, error) {
	redisAddr, _ := cmd.Flags().GetString("redis")
	prefix, _ := cmd.Flags().GetString("redis-prefix")
	ttl, _ := cmd.Flags().GetDuration("lock-ttl")

	registry := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	b := &backend{registry: registry, metrics: metrics, close: func() error { return nil }}
	engineOpts := []arbor.Option{
		arbor.WithLogger(logger),
		arbor.WithLifecycleHooks(domain.MergeHooks(metrics.Hooks(), observability.LogHooks(logger))),
	}
	sessionOpts := []session.Option{
		session.WithLogger(logger),
		session.WithLockTTL(ttl),
	}

	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", redisAddr, err)
		}
		logger.Info("using redis backend", "address", redisAddr)
		b.close = client.Close
		engineOpts = append(engineOpts, arbor.WithFrameSource(redisAdapter.NewFrameSource(client)))
		sessionOpts = append(sessionOpts, session.WithLocker(redisAdapter.NewLocker(client, prefix)))
	} else {
		engineOpts = append(engineOpts, arbor.WithFrameSource(memory.NewFrameSource(0)))
		sessionOpts = append(sessionOpts, session.WithLocker(memory.NewLocker()))
	}

	engine, err := loadEngine(treePath(cmd, nil), engineOpts...)
	if err != nil {
		_ = b.close()
		return nil, err
	}
	b.sessions = session.NewManager(engine, sessionOpts...)
	return b, nil
}
