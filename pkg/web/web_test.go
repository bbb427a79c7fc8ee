package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func Test_ParseID(t *testing.T) {
	valid := uuid.New()
	testCases := []struct {
		name       string
		path       string
		wantOK     bool
		wantStatus int
	}{
		{name: "Success - valid uuid", path: "/items/" + valid.String(), wantOK: true, wantStatus: http.StatusOK},
		{name: "Error - malformed uuid", path: "/items/abc", wantOK: false, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var gotID uuid.UUID
			var gotOK bool
			r := chi.NewRouter()
			r.Get("/items/{itemId}", func(w http.ResponseWriter, r *http.Request) {
				gotID, gotOK = ParseID(w, r, discard, "itemId")
				if gotOK {
					w.WriteHeader(http.StatusOK)
				}
			})
			rec := httptest.NewRecorder()
			// when
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			// then
			assert.Equal(t, tc.wantOK, gotOK)
			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantOK {
				assert.Equal(t, valid, gotID)
			} else {
				assert.JSONEq(t, `{"error":"Invalid ID: abc"}`, rec.Body.String())
			}
		})
	}
}

type payload struct {
	Name  string `json:"name"  validate:"required"`
	Price int64  `json:"price" validate:"gt=0"`
}

func Test_DecodeValid(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		wantOK   bool
		wantBody string
	}{
		{name: "Success", body: `{"name":"Tea","price":10}`, wantOK: true},
		{name: "Error - malformed json", body: `{"name":`, wantBody: `{"error":"Invalid request body"}`},
		{name: "Error - validation", body: `{"price":0}`, wantBody: `{"validation_errors":{"Name":"failed on rule: required","Price":"failed on rule: gt"}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dst payload
			// when
			ok := DecodeValid(rec, req, discard, validator.New(), &dst)
			// then
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, payload{Name: "Tea", Price: 10}, dst)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
		})
	}
}

func Test_RespondJSON_NilPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, discard, http.StatusNoContent, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func Test_RequestIDInjector(t *testing.T) {
	// given
	var seen string
	handler := RequestIDInjector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetReqID(r.Context())
	}))
	rec := httptest.NewRecorder()
	// when
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	// then
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func Test_Recoverer(t *testing.T) {
	handler := Recoverer(discard)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func Test_Metrics_UsesRoutePattern(t *testing.T) {
	// given
	metrics := NewMetrics("catalog", prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", metrics.Handler())

	// when
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/"+uuid.NewString(), nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// then
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `catalog_http_requests_total{method="GET",route="/products/{id}",status="404"} 1`)
	assert.Contains(t, body, `catalog_http_request_duration_seconds_count{method="GET",route="/products/{id}"} 1`)
}
