package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.AnalysisDone("ok", 50*time.Millisecond, 10, 2)
	m.AnalysisDone("ok", 10*time.Millisecond, 5, 0)
	m.AnalysisDone("error", 0, 0, 0)
	m.Request("200")
	m.SetWaiting(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.analyses.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyses.WithLabelValues("error")))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.dispatched))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.highlights))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("200")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.queueWaiting))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Request("200")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `combatlog_check_log_api_requests_total{status="200"} 1`)
}
