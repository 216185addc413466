package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveRequest(http.MethodGet, "/api/health", http.StatusOK, 10*time.Millisecond)
	RecordTransition("proposal", "approve", errors.New("boom"))
	RecordFanoutFailure("audit")
	RecordDenial("blocked")

	body := scrape(t)
	require.Contains(t, body, `dezx_http_requests_total{method="GET",route="/api/health",status="200"}`)
	require.Contains(t, body, `dezx_lifecycle_transitions_total{action="approve",entity="proposal",outcome="error"}`)
	require.Contains(t, body, `dezx_fanout_failures_total{kind="audit"}`)
	require.Contains(t, body, `dezx_access_denials_total{reason="blocked"}`)
}

func TestObserveRequestUnmatchedRoute(t *testing.T) {
	ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)
	require.Contains(t, scrape(t), `route="unmatched"`)
}

func TestTrackInFlight(t *testing.T) {
	done := TrackInFlight()
	require.Contains(t, scrape(t), "dezx_http_inflight_requests 1")
	done()
	require.Contains(t, scrape(t), "dezx_http_inflight_requests 0")
}
