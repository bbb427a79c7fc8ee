// Package grpc dials remote gRPC services with the client-side resilience stack.
package grpc

import (
	"fmt"
	"time"

	"github.com/abgdnv/catalog/pkg/client/grpc/interceptors"
	"github.com/abgdnv/catalog/pkg/config"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// NewConn creates a plaintext client connection to addr. Transient failures are
// retried; every attempt goes through the circuit breaker and is bounded by timeout.
func NewConn(addr string, timeout time.Duration, cfg config.ResilienceConfig, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithChainUnaryInterceptor(
			interceptors.NewRetryInterceptor(cfg.Retry),
			interceptors.NewCircuitBreaker("catalog-grpc-client", cfg.CircuitBreaker),
			interceptors.UnaryClientTimeoutInterceptor(timeout),
		),
	}, opts...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client for %s: %w", addr, err)
	}
	return conn, nil
}
