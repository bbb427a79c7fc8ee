package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func Test_NewChiRouter_CORS(t *testing.T) {
	testCases := []struct {
		name       string
		origins    []string
		wantHeader string
	}{
		{name: "allowed origin", origins: []string{"https://shop.example"}, wantHeader: "https://shop.example"},
		{name: "cors disabled", origins: nil, wantHeader: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := NewChiRouter(discard, RouterOptions{AllowedOrigins: tc.origins})
			mux.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Origin", "https://shop.example")
			rec := httptest.NewRecorder()
			// when
			mux.ServeHTTP(rec, req)
			// then
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.wantHeader, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
		})
	}
}

func Test_NewGRPCServer_Health(t *testing.T) {
	// given
	srv, _ := NewGRPCServer(discard, true)
	lis := bufconn.Listen(1024 * 1024)
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// when
	res, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})

	// then
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, res.GetStatus())
	assert.Contains(t, srv.GetServiceInfo(), "grpc.reflection.v1.ServerReflection")
}

func Test_NewHTTPServer_Addr(t *testing.T) {
	testCases := []struct {
		name string
		cfg  HTTPConfig
		want string
	}{
		{name: "all interfaces", cfg: HTTPConfig{Port: 8080}, want: ":8080"},
		{name: "loopback", cfg: HTTPConfig{Host: "127.0.0.1", Port: 8080}, want: "127.0.0.1:8080"},
		{name: "ipv6", cfg: HTTPConfig{Host: "::1", Port: 8080}, want: "[::1]:8080"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NewHTTPServer(tc.cfg, http.NotFoundHandler()).Addr)
		})
	}
}
