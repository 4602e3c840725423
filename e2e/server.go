package e2e

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"locreg/internal/admin"
	jwttoken "locreg/internal/jwt_token"
	lochandler "locreg/internal/loc/handler"
	locmetrics "locreg/internal/loc/metrics"
	"locreg/internal/loc/service"
	collectionstore "locreg/internal/loc/store/collection"
	locstore "locreg/internal/loc/store/loc"
	"locreg/internal/platform/chain"
	"locreg/internal/platform/health"
	httptransport "locreg/internal/transport/http"
	"locreg/pkg/platform/middleware/request"
	"locreg/pkg/platform/outbox/publishers"
	outboxmemory "locreg/pkg/platform/outbox/store/memory"
	"locreg/pkg/platform/outbox/worker"
	"locreg/pkg/secrets"
)

// startInProcessServer runs the registry on in-memory stores and a manual
// block clock, the same wiring the server uses without DATABASE_URL. The
// returned func stops it.
func startInProcessServer() (func(), error) {
	adminToken, err := secrets.Generate()
	if err != nil {
		return nil, err
	}
	adminHash, err := secrets.HashWithCost(adminToken, bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()

	locs := locstore.NewInMemory()
	outboxStore := outboxmemory.New()
	clock := chain.NewManualClock(0)
	metrics := locmetrics.NewWithRegisterer(reg)

	locService := service.New(locs, collectionstore.NewInMemory(), clock,
		service.WithLogger(logger),
		service.WithMetrics(metrics),
		service.WithTxRunner(service.NewShardedTx(metrics)),
		service.WithEventSink(service.NewOutboxSink(outboxStore)),
	)

	revocations := jwttoken.NewInMemoryRevocationList()
	adminService := admin.NewService(locs, outboxStore, clock,
		admin.WithBlockPublisher(clock),
		admin.WithTokenRevoker(revocations),
		admin.WithLogger(logger),
	)

	relay := worker.New(outboxStore, publishers.NewLog(logger),
		worker.WithPollInterval(10*time.Millisecond),
		worker.WithLogger(logger),
	)
	relay.Start()

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:         logger,
		Loc:            lochandler.New(locService, logger),
		Admin:          admin.New(adminService, logger),
		Health:         health.New("test"),
		JWT:            jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(target.signingKey, target.issuer, 15*time.Minute)),
		Revocations:    revocations,
		AdminTokenHash: adminHash,
		Metrics:        request.NewMetricsWithRegisterer(reg),
		Gatherer:       reg,
	})

	srv := httptest.NewServer(router)
	target.baseURL = srv.URL
	target.adminToken = adminToken

	return func() {
		srv.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = relay.Stop(ctx) //nolint:errcheck // test teardown
	}, nil
}
