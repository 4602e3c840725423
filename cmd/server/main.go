package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"locreg/internal/admin"
	jwttoken "locreg/internal/jwt_token"
	lochandler "locreg/internal/loc/handler"
	locmetrics "locreg/internal/loc/metrics"
	"locreg/internal/loc/service"
	"locreg/internal/platform/config"
	"locreg/internal/platform/health"
	"locreg/internal/platform/logger"
	"locreg/internal/platform/tracer"
	"locreg/internal/seeder"
	httptransport "locreg/internal/transport/http"
	"locreg/pkg/platform/middleware/metadata"
	"locreg/pkg/platform/middleware/request"
	outboxmetrics "locreg/pkg/platform/outbox/metrics"
	"locreg/pkg/platform/outbox/worker"
)

const shutdownTimeout = 15 * time.Second

// main wires the registry from configuration and runs the HTTP server and the
// outbox relay until SIGINT or SIGTERM.
func main() {
	config.LoadDotEnv()
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	log.Info("initializing locreg",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"chain_source", cfg.Chain.Source,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	backends, err := openInfra(ctx, cfg, reg, log)
	if err != nil {
		return err
	}
	defer backends.close(log)

	healthHandler := health.New(cfg.Environment)
	backends.registerHealthChecks(healthHandler)

	clock := backends.blockClock(cfg, log)
	stores := backends.stores()

	publisher, closePublishers, err := backends.outboxPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePublishers()

	relay := worker.New(stores.outbox, publisher,
		worker.WithBatchSize(cfg.Outbox.BatchSize),
		worker.WithPollInterval(cfg.Outbox.PollInterval),
		worker.WithRetention(cfg.Outbox.Retention),
		worker.WithCleanupInterval(cfg.Outbox.CleanupInterval),
		worker.WithMetrics(outboxmetrics.NewWithRegisterer(reg)),
		worker.WithLogger(log),
	)

	metrics := locmetrics.NewWithRegisterer(reg)
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(metrics),
		service.WithTracer(tracer.NewOTel("locreg")),
		service.WithLimits(cfg.Limits),
		service.WithEventSink(service.NewOutboxSink(stores.outbox)),
		service.WithIdentityCache(cfg.IdentityCache.Size, cfg.IdentityCache.TTL),
	}
	if backends.db != nil {
		opts = append(opts, service.WithTxRunner(newLocPostgresTx(backends.db.DB(), cfg.TxTimeout)))
	} else {
		opts = append(opts, service.WithTxRunner(service.NewShardedTx(metrics)))
	}
	if len(cfg.LegalOfficers) > 0 {
		opts = append(opts, service.WithCreatorPolicy(service.NewAllowList(cfg.LegalOfficers...)))
	}
	locService := service.New(stores.locs, stores.collections, clock, opts...)

	if cfg.SeedDemo {
		officer := seeder.DemoOfficer
		if len(cfg.LegalOfficers) > 0 {
			officer = cfg.LegalOfficers[0]
		}
		if err := seeder.New(locService, officer, log).SeedAll(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.TokenTTL)
	revocations := backends.revocationList()

	adminOpts := []admin.Option{
		admin.WithTokenRevoker(revocations),
		admin.WithLogger(log),
	}
	if backends.publisher != nil {
		adminOpts = append(adminOpts, admin.WithBlockPublisher(backends.publisher))
	}
	adminService := admin.NewService(stores.locs, stores.outbox, clock, adminOpts...)

	trustedProxies, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("parse trusted proxies: %w", err)
	}

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:         log,
		Loc:            lochandler.New(locService, log),
		Admin:          admin.New(adminService, log),
		Health:         healthHandler,
		JWT:            jwttoken.NewJWTServiceAdapter(jwtService),
		Revocations:    revocations,
		AdminTokenHash: cfg.AdminTokenHash,
		TrustedProxies: trustedProxies,
		RateLimit:      backends.rateLimiter(cfg.RateLimit, reg, log),
		Metrics:        request.NewMetricsWithRegisterer(reg),
		Gatherer:       reg,
	})
	if cfg.AdminTokenHash == "" {
		log.Warn("admin routes disabled: LOCREG_ADMIN_TOKEN_HASH not set")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	relay.Start()

	g, gctx := errgroup.WithContext(ctx)
	if backends.redis != nil {
		g.Go(func() error {
			backends.redis.RunPoolStats(gctx, 15*time.Second)
			return nil
		})
	}
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if err := relay.Stop(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("outbox worker stop: %w", err))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
