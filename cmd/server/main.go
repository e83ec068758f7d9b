package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	accountservice "ubersystem/internal/accounts/service"
	"ubersystem/internal/admin"
	"ubersystem/internal/admintoken"
	"ubersystem/internal/platform/config"
	"ubersystem/internal/platform/httpserver"
	"ubersystem/internal/platform/logger"
	platformmetrics "ubersystem/internal/platform/metrics"
	platformredis "ubersystem/internal/platform/redis"
	"ubersystem/internal/ratelimit"
	"ubersystem/internal/registration/badges"
	reghandler "ubersystem/internal/registration/handler"
	regmetrics "ubersystem/internal/registration/metrics"
	regservice "ubersystem/internal/registration/service"
	staffhandler "ubersystem/internal/staffing/handler"
	staffmetrics "ubersystem/internal/staffing/metrics"
	staffservice "ubersystem/internal/staffing/service"
	"ubersystem/internal/tracking/feed"
	trackinghandler "ubersystem/internal/tracking/handler"
	trackingmetrics "ubersystem/internal/tracking/metrics"
	trackingservice "ubersystem/internal/tracking/service"
	"ubersystem/pkg/platform/httputil"
)

const (
	shutdownGrace = 10 * time.Second
	badgeLockKey  = "BADGE_LOCK"
	rateKeyPrefix = "ratelimit:admin:"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	store, err := openBackend(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			log.Warn("closing database", "error", err)
		}
	}()

	reg := prometheus.DefaultRegisterer
	var (
		httpMetrics     = platformmetrics.New(reg)
		regMetrics      = regmetrics.New(reg)
		staffMetrics    = staffmetrics.New(reg)
		trackingMetrics = trackingmetrics.New(reg)
	)
	events := config.NewEventStateHolder(cfg.Event)

	tracker, err := trackingservice.New(store.trail,
		trackingservice.WithLogger(log),
		trackingservice.WithMetrics(trackingMetrics),
		trackingservice.WithActorResolver(accountservice.NewNames(store.accounts)),
	)
	if err != nil {
		return err
	}
	accounts, err := accountservice.New(store.tx, store.accounts, tracker, accountservice.WithLogger(log))
	if err != nil {
		return err
	}
	staffing, err := staffservice.New(store.tx, store.jobs, store.shifts, store.attendees, tracker,
		staffservice.WithLogger(log),
		staffservice.WithMetrics(staffMetrics),
	)
	if err != nil {
		return err
	}

	regOpts := []regservice.Option{
		regservice.WithLogger(log),
		regservice.WithMetrics(regMetrics),
		regservice.WithShiftCleaner(staffing),
	}
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		regOpts = append(regOpts, regservice.WithLocker(badges.NewRedisLocker(redisClient.Client, badgeLockKey, cfg.Redis.LockTTL)))
		log.Info("badge numbering uses the redis lock")
	}
	registration, err := regservice.New(store.tx, store.attendees, store.groups, tracker, events, regOpts...)
	if err != nil {
		return err
	}

	tokens, err := admintoken.NewService(cfg.Server.AdminJWTSecret, admintoken.DefaultIssuer, admintoken.DefaultAudience)
	if err != nil {
		return err
	}
	deps := admin.Deps{Logger: log, Metrics: httpMetrics, Tokens: tokens, Accounts: accounts}
	if n := cfg.Server.RateLimitPerMinute; n > 0 {
		var window ratelimit.Window = ratelimit.NewMemoryWindow()
		if redisClient != nil {
			window = ratelimit.NewRedisWindow(redisClient.Client, rateKeyPrefix)
		}
		deps.Limiter = ratelimit.Middleware(window, ratelimit.Policy{Limit: n, Window: time.Minute}, log)
	}

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", health(store, redisClient))
	reghandler.New(registration, deps).Register(r)
	staffhandler.New(staffing, deps).Register(r)
	trackinghandler.New(tracker, deps).Register(r)

	g, ctx := errgroup.WithContext(ctx)
	srv := httpserver.New(cfg.Server.Addr, r)
	g.Go(func() error {
		return httpserver.Run(ctx, srv, shutdownGrace, log)
	})
	if len(cfg.Kafka.Brokers) > 0 {
		relay, closeFeed, err := trackingFeed(ctx, cfg.Kafka, store, trackingMetrics, log)
		if err != nil {
			return err
		}
		defer closeFeed()
		g.Go(func() error {
			return relay.Run(ctx)
		})
	}

	log.Info("ubersystem started", "addr", cfg.Server.Addr, "backend", store.name)
	return g.Wait()
}

// trackingFeed publishes every committed tracking row not yet marked
// published, including rows written while the feed was disabled.
func trackingFeed(ctx context.Context, cfg config.KafkaConfig, store *backend, m *trackingmetrics.Metrics, log *slog.Logger) (*feed.Relay, func(), error) {
	publisher, err := feed.NewKafkaPublisher(cfg.Brokers, cfg.TrackingTopic)
	if err != nil {
		return nil, nil, err
	}
	if err := publisher.EnsureTopic(ctx, 3, 1); err != nil {
		log.Warn("tracking topic not created", "topic", cfg.TrackingTopic, "error", err)
	}
	log.Info("tracking feed enabled", "topic", cfg.TrackingTopic)
	relay := feed.NewRelay(store.tx, store.trail, publisher, feed.WithLogger(log), feed.WithMetrics(m))
	return relay, publisher.Close, nil
}

func health(store *backend, redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		status := map[string]string{"database": "ok"}
		code := http.StatusOK
		if err := store.ping(ctx); err != nil {
			status["database"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if redisClient != nil {
			status["redis"] = "ok"
			if err := redisClient.Health(ctx); err != nil {
				status["redis"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		httputil.WriteJSON(w, code, status)
	}
}
