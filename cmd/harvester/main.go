package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/user/review-harvester/internal/adapter/filesystem"
	"github.com/user/review-harvester/internal/adapter/postgres"
	redis_adapter "github.com/user/review-harvester/internal/adapter/redis"
	"github.com/user/review-harvester/internal/adapter/resty_fetcher"
	"github.com/user/review-harvester/internal/delivery/http/handler"
	"github.com/user/review-harvester/internal/delivery/http/router"
	"github.com/user/review-harvester/internal/delivery/http/server"
	"github.com/user/review-harvester/internal/entity"
	"github.com/user/review-harvester/internal/repository"
	"github.com/user/review-harvester/internal/usecase"
	"github.com/user/review-harvester/pkg/config"
	"github.com/user/review-harvester/pkg/logger"
	"github.com/user/review-harvester/pkg/metrics"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	summary, err := run(ctx, cfg, reg, log)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	if summary.Interrupted {
		log.Info("interrupted, progress saved up to the last completed film", zap.Int("checkpoint", summary.Checkpoint))
	}
}

// run wires the adapters into the use cases and performs one harvesting run.
func run(ctx context.Context, cfg *config.Config, reg *prometheus.Registry, log *zap.Logger) (*entity.RunSummary, error) {
	m := metrics.New(reg)
	checks := map[string]handler.HealthCheck{}

	fetcher := resty_fetcher.NewRestyFetcher(resty_fetcher.Options{
		Timeout:           cfg.RequestTimeout(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		UserAgents:        cfg.UserAgentList(),
		Proxies:           cfg.ProxyList(),
	}, log)

	// --- Checkpoint store ---
	var checkpointRepo repository.CheckpointRepository
	switch cfg.CheckpointBackend {
	case config.CheckpointBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Info("redis checkpoint backend ready", zap.String("addr", cfg.RedisAddr))
		checkpointRepo = redis_adapter.NewCheckpointRepo(rdb, cfg.ListingURL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	default:
		checkpointRepo = filesystem.NewCheckpointRepo(cfg.CheckpointPath)
	}

	// --- Review sink and failed-page log ---
	var failedPages repository.FailedPageRepository
	openSink := usecase.SinkOpener(func() (repository.ReviewSink, error) {
		sink, err := filesystem.OpenReviewSink(cfg.ReviewsPath)
		if err != nil {
			return nil, err
		}
		return sink, nil
	})
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return nil, err
		}
		log.Info("postgres review sink ready")
		failedPages = postgres.NewFailedPageRepo(pool)
		openSink = func() (repository.ReviewSink, error) { return postgres.NewReviewSink(pool), nil }
		checks["postgres"] = pool.Ping
	}

	// --- Use cases ---
	paginator := usecase.NewPaginator(fetcher, cfg.ReviewURLTemplate, m, log)
	harvester := usecase.NewCatalogHarvester(fetcher, paginator, cfg.ListingURL, m, log)
	walker := usecase.NewReviewWalker(fetcher, failedPages, cfg.ReviewURLTemplate, m, log)
	orchestrator := usecase.NewOrchestrator(
		filesystem.NewCatalogRepo(cfg.CatalogPath),
		checkpointRepo,
		harvester,
		walker,
		openSink,
		m,
		log,
	)

	// --- Status server ---
	if cfg.StatusAddr != "" {
		h := handler.NewHandler(orchestrator, checks, log)
		srv := server.New(cfg.StatusAddr, router.New(h, m, reg, log), log)
		if err := srv.Start(); err != nil {
			return nil, fmt.Errorf("start status server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				log.Error("status server shutdown failed", zap.Error(err))
			}
		}()
	}

	return orchestrator.Run(ctx)
}
