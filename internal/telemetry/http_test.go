package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func okHandler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	t.Parallel()

	t.Run("passes through when metrics is nil", func(t *testing.T) {
		t.Parallel()

		var metrics *HTTPMetrics
		rr := httptest.NewRecorder()
		metrics.Middleware(okHandler(http.StatusOK)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("records route pattern and status", func(t *testing.T) {
		t.Parallel()

		reader, mp := newTestMeterProvider(t)
		metrics, err := NewHTTPMetrics(mp)
		require.NoError(t, err)

		r := chi.NewRouter()
		r.Use(metrics.Middleware)
		r.Get("/v1/sobjects/{name}", okHandler(http.StatusNotFound))

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/sobjects/Account", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)

		total, ok := findMetric(t, reader, "sobject_gateway_http_requests_total")
		require.True(t, ok)
		sum, ok := total.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, sum.DataPoints, 1)

		dp := sum.DataPoints[0]
		assert.Equal(t, int64(1), dp.Value)
		route, _ := dp.Attributes.Value(attribute.Key("route"))
		assert.Equal(t, "/v1/sobjects/{name}", route.AsString())
		status, _ := dp.Attributes.Value(attribute.Key("status_code"))
		assert.Equal(t, "404", status.AsString())

		active, ok := findMetric(t, reader, "sobject_gateway_http_active_requests")
		require.True(t, ok)
		assert.Equal(t, int64(0), sumInt64(t, active))
	})
}

func TestMetricsMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("nil provider passes through", func(t *testing.T) {
		t.Parallel()

		mw, err := MetricsMiddleware(nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		mw(okHandler(http.StatusTeapot)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTeapot, rr.Code)
	})

	t.Run("noop provider", func(t *testing.T) {
		t.Parallel()

		mw, err := MetricsMiddleware(noop.NewMeterProvider())
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		mw(okHandler(http.StatusOK)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestTracingMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("nil provider passes through", func(t *testing.T) {
		t.Parallel()

		rr := httptest.NewRecorder()
		TracingMiddleware(nil)(okHandler(http.StatusOK)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	tests := []struct {
		name       string
		status     int
		wantStatus codes.Code
	}{
		{name: "success", status: http.StatusOK, wantStatus: codes.Ok},
		{name: "client error", status: http.StatusUnprocessableEntity, wantStatus: codes.Error},
		{name: "server error", status: http.StatusBadGateway, wantStatus: codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exporter := tracetest.NewInMemoryExporter()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
			t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

			r := chi.NewRouter()
			r.Use(TracingMiddleware(tp))
			r.Get("/v1/sobjects/{name}/describe", okHandler(tt.status))

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/sobjects/Lead/describe", nil))

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, "GET /v1/sobjects/{name}/describe", spans[0].Name)
			assert.Equal(t, tt.wantStatus, spans[0].Status.Code)

			var hasRoute bool
			for _, attr := range spans[0].Attributes {
				if attr.Key == "http.route" && attr.Value.AsString() == "/v1/sobjects/{name}/describe" {
					hasRoute = true
				}
			}
			assert.True(t, hasRoute)
		})
	}
}
