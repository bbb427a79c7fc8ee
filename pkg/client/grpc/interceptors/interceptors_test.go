package interceptors

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// scriptedHealth answers Check with a queue of codes, then OK.
type scriptedHealth struct {
	healthpb.UnimplementedHealthServer

	mu        sync.Mutex
	calls     int
	responses []codes.Code
	delay     time.Duration
}

func (s *scriptedHealth) Check(ctx context.Context, _ *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	s.mu.Lock()
	s.calls++
	code := codes.OK
	if len(s.responses) > 0 {
		code = s.responses[0]
		s.responses = s.responses[1:]
	}
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, status.FromContextError(ctx.Err()).Err()
		}
	}
	if code != codes.OK {
		return nil, status.Error(code, "scripted error")
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}

func (s *scriptedHealth) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func setupTestEnvironment(t *testing.T, svc *scriptedHealth, interceptors ...grpc.UnaryClientInterceptor) healthpb.HealthClient {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, svc)
	go func() {
		_ = grpcServer.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(interceptors...),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		grpcServer.Stop()
		_ = lis.Close()
	})
	return healthpb.NewHealthClient(conn)
}

func resilience() (config.RetryConfig, config.CircuitBreakerConfig) {
	return config.RetryConfig{MaxAttempts: 3, InitialBackoff: 10 * time.Millisecond},
		config.CircuitBreakerConfig{ConsecutiveFailures: 6, ErrorRatePercent: 60, OpenTimeout: 5 * time.Second}
}

func Test_Interceptors(t *testing.T) {
	testCases := []struct {
		name      string
		responses []codes.Code
		wantCode  codes.Code
		wantCalls int
	}{
		{name: "happy path", responses: nil, wantCode: codes.OK, wantCalls: 1},
		{name: "retry on transient error", responses: []codes.Code{codes.Unavailable, codes.Unavailable}, wantCode: codes.OK, wantCalls: 3},
		{name: "no retry on not found", responses: []codes.Code{codes.NotFound}, wantCode: codes.NotFound, wantCalls: 1},
		{name: "no retry on failed precondition", responses: []codes.Code{codes.FailedPrecondition}, wantCode: codes.FailedPrecondition, wantCalls: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			retryCfg, cbCfg := resilience()
			svc := &scriptedHealth{responses: tc.responses}
			client := setupTestEnvironment(t, svc, NewRetryInterceptor(retryCfg), NewCircuitBreaker("test", cbCfg))

			// when
			_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})

			// then
			require.Equal(t, tc.wantCode, status.Code(err))
			require.Equal(t, tc.wantCalls, svc.callCount())
		})
	}
}

func Test_CircuitBreakerOpens(t *testing.T) {
	// given
	retryCfg, cbCfg := resilience()
	svc := &scriptedHealth{responses: []codes.Code{
		codes.Unavailable, codes.Unavailable, codes.Unavailable,
		codes.Unavailable, codes.Unavailable, codes.Unavailable,
	}}
	client := setupTestEnvironment(t, svc, NewRetryInterceptor(retryCfg), NewCircuitBreaker("test", cbCfg))

	// when: two calls of three attempts each
	for range 2 {
		_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
		require.Error(t, err)
	}
	require.Equal(t, 6, svc.callCount())

	// then
	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.Error(t, err)
	require.Contains(t, err.Error(), gobreaker.ErrOpenState.Error())
	require.Equal(t, 6, svc.callCount(), "an open breaker must not reach the server")
}

func Test_CircuitBreakerIgnoresDataErrors(t *testing.T) {
	// given
	retryCfg, cbCfg := resilience()
	responses := make([]codes.Code, 10)
	for i := range responses {
		responses[i] = codes.NotFound
	}
	svc := &scriptedHealth{responses: responses}
	client := setupTestEnvironment(t, svc, NewRetryInterceptor(retryCfg), NewCircuitBreaker("test", cbCfg))

	// when
	for range 10 {
		_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
		// then
		require.Equal(t, codes.NotFound, status.Code(err))
	}
	require.Equal(t, 10, svc.callCount())
}

func Test_UnaryClientTimeoutInterceptor(t *testing.T) {
	// given
	svc := &scriptedHealth{delay: 200 * time.Millisecond}
	client := setupTestEnvironment(t, svc, UnaryClientTimeoutInterceptor(50*time.Millisecond))

	// when
	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})

	// then
	require.Equal(t, codes.DeadlineExceeded, status.Code(err))
}

func Test_UnaryClientTimeoutInterceptor_Disabled(t *testing.T) {
	// given
	svc := &scriptedHealth{delay: 100 * time.Millisecond}
	client := setupTestEnvironment(t, svc, UnaryClientTimeoutInterceptor(0))

	// when
	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})

	// then
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
