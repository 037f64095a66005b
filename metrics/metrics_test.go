package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequests.WithLabelValues("transactions.list", "200"))
	ObserveUpstream("transactions.list", "200", time.Now().Add(-50*time.Millisecond))
	after := testutil.ToFloat64(UpstreamRequests.WithLabelValues("transactions.list", "200"))
	assert.Equal(t, before+1, after)
}

func TestHandler(t *testing.T) {
	HTTPRequests.WithLabelValues("GET", "/health", "200").Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "fintrack_http_requests_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
