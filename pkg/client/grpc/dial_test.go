package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func Test_NewConn(t *testing.T) {
	// given
	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, health.NewServer())
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	cfg := config.ResilienceConfig{
		Retry:          config.RetryConfig{MaxAttempts: 2, InitialBackoff: 10 * time.Millisecond},
		CircuitBreaker: config.CircuitBreakerConfig{ConsecutiveFailures: 3, ErrorRatePercent: 50, OpenTimeout: time.Second},
	}

	// when
	conn, err := NewConn("passthrough:///bufnet", time.Second, cfg,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	res, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})

	// then
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, res.GetStatus())
}
