package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/sobject-gateway/internal/api"
	"github.com/stacklok/sobject-gateway/internal/gateway/mocks"
)

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	// health check doesn't call the service
	server := api.NewServer(mocks.NewMockService(ctrl))

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
}

func TestReadinessEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		check          func(context.Context) error
		expectedStatus int
		expectedKey    string
	}{
		{
			name:           "no check configured",
			expectedStatus: http.StatusOK,
			expectedKey:    "status",
		},
		{
			name:           "service ready",
			check:          func(context.Context) error { return nil },
			expectedStatus: http.StatusOK,
			expectedKey:    "status",
		},
		{
			name:           "service not ready",
			check:          func(context.Context) error { return errors.New("upstream unreachable") },
			expectedStatus: http.StatusServiceUnavailable,
			expectedKey:    "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			t.Cleanup(ctrl.Finish)

			server := api.NewServer(mocks.NewMockService(ctrl), api.WithReadinessCheck(tt.check))

			rr := httptest.NewRecorder()
			server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readiness", nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)

			var response map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
			assert.Contains(t, response, tt.expectedKey)
		})
	}
}

func TestV1RoutesMounted(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().ListSObjects(gomock.Any()).Return([]string{"Account"}, nil)

	server := api.NewServer(svc)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/sobjects", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"sobjects":["Account"],"count":1}`, rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	t.Run("not mounted by default", func(t *testing.T) {
		t.Parallel()
		rr := httptest.NewRecorder()
		api.NewServer(mocks.NewMockService(ctrl)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("served when configured", func(t *testing.T) {
		t.Parallel()
		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("sobject_gateway_policy_reloads_total 1\n"))
		})

		rr := httptest.NewRecorder()
		api.NewServer(mocks.NewMockService(ctrl), api.WithMetricsHandler(handler)).
			ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "sobject_gateway_policy_reloads_total")
	})
}

func TestMiddlewareOrder(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	var seen []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = append(seen, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	server := api.NewServer(mocks.NewMockService(ctrl),
		api.WithMiddlewares(middleware.RequestID, tag("first"), tag("second"), api.LoggingMiddleware))

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"first", "second"}, seen)
}
