package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-login-server/internal/metrics"
)

func TestCollector_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg, func() int { return 3 })

	c.RecordLoginAttempt()
	c.RecordLoginSuccess()
	c.RecordLoginFailure("authentication_failed")
	c.ObserveRequest("/api/user", http.StatusOK, 5*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	for _, metric := range []string{
		"login_server_login_attempts_total",
		"login_server_login_success_total",
		"login_server_login_failure_total",
		"login_server_request_duration_seconds",
		"login_server_active_sessions 3",
	} {
		require.Contains(t, string(body), metric)
	}
}

func TestCollector_NilSessionCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotNil(t, metrics.NewCollector(reg, nil))
}
