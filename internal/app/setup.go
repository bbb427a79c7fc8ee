// Package app wires the catalog components into HTTP and gRPC servers.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/events"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/store"
	grpcImpl "github.com/abgdnv/catalog/internal/transport/grpc"
	"github.com/abgdnv/catalog/internal/transport/rest"
	"github.com/abgdnv/catalog/pkg/messaging"
	natsclient "github.com/abgdnv/catalog/pkg/nats"
	"github.com/abgdnv/catalog/pkg/server"
	"github.com/abgdnv/catalog/pkg/telemetry"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

const serviceName = "catalog"

// Storage is a catalog backend: PgStore or InMemory.
type Storage interface {
	Products() store.Products
	Stores() store.Stores
	Ping(ctx context.Context) error
}

type Dependencies struct {
	ProductService     service.ProductService
	StoreService       service.StoreService
	AssociationService service.AssociationService
	Storage            Storage
	Registry           *prometheus.Registry
	Logger             *slog.Logger
}

// SetupDependencies builds the catalog services over storage. A nil publisher
// disables association events.
func SetupDependencies(storage Storage, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	products, stores := storage.Products(), storage.Stores()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if _, err := telemetry.NewMeterProvider(registry); err != nil {
		logger.Warn("domain metrics are not exported", "error", err)
	}

	return &Dependencies{
		ProductService:     service.NewProductManager(products, stores),
		StoreService:       service.NewStoreManager(products, stores),
		AssociationService: service.NewAssociationManager(products, stores, publisher, logger),
		Storage:            storage,
		Registry:           registry,
		Logger:             logger,
	}
}

// HandlerOptions tunes the HTTP surface built by SetupHttpHandler.
type HandlerOptions struct {
	AllowedOrigins []string
	// MetricsPath exposes Prometheus metrics when not empty.
	MetricsPath      string
	ReadinessTimeout time.Duration
}

// SetupHttpHandler initializes the routes and middleware of the catalog.
// Used by tests to drive the full HTTP surface.
func SetupHttpHandler(deps *Dependencies, opts HandlerOptions) http.Handler {
	routerOpts := server.RouterOptions{AllowedOrigins: opts.AllowedOrigins}
	var metrics *web.Metrics
	if opts.MetricsPath != "" {
		metrics = web.NewMetrics(serviceName, deps.Registry)
		routerOpts.Metrics = metrics
	}

	mux := server.NewChiRouter(deps.Logger, routerOpts)
	handler := rest.NewHandler(deps.ProductService, deps.StoreService, deps.AssociationService, deps.Logger)
	handler.RegisterRoutes(mux)
	handler.RegisterProbes(mux, deps.Storage, opts.ReadinessTimeout)
	if metrics != nil {
		mux.Method(http.MethodGet, opts.MetricsPath, metrics.Handler())
	}

	return otelhttp.NewHandler(mux, serviceName)
}

// SetupHttpServer creates and configures an HTTP server for the catalog.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	opts := HandlerOptions{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		ReadinessTimeout: cfg.Probes.ReadinessTimeout,
	}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
	}
	mux := SetupHttpHandler(deps, opts)

	httpCfg := server.HTTPConfig{
		Host:           cfg.HTTPServer.Host,
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

// SetupGrpcServer initializes the gRPC server exposing the association operations.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) (*grpc.Server, *health.Server) {
	registerFunc := func(s *grpc.Server) {
		grpcImpl.RegisterAssociationServiceServer(s, grpcImpl.NewServer(deps.AssociationService, deps.Logger))
	}
	return server.NewGRPCServer(deps.Logger, reflectionEnabled, registerFunc)
}

// SetupPublisher connects to NATS, makes sure the association stream exists
// and returns a circuit-breaking publisher. The returned close function drains
// the connection. With NATS disabled it returns a no-op publisher.
func SetupPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.NATS.Enabled {
		logger.Info("NATS disabled, association events are not published")
		return messaging.NoopPublisher{}, func() {}, nil
	}

	nc, err := natsclient.NewClient(cfg.NATS.Url, cfg.NATS.Timeout)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := nc.Drain(); err != nil {
			logger.Warn("failed to drain NATS connection", "error", err)
		}
	}

	js, err := natsclient.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	stream := cfg.NATS.Stream
	if stream == "" {
		stream = events.StreamName
	}
	if err := natsclient.EnsureStream(ctx, js, stream, events.SubjectWildcard); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to prepare association stream: %w", err)
	}
	logger.Info("NATS stream ready", "stream", stream, "subjects", events.SubjectWildcard)

	publisher := messaging.NewBreakerPublisher("nats-publisher",
		natsclient.NewNatsPublisher(js, cfg.Resilience.Retry),
		cfg.Resilience.CircuitBreaker)
	return publisher, closeFn, nil
}
