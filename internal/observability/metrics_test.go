package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.IncCheckIn()
	m.IncValidationFailure("mood")
	m.ObserveInsights(&wellness.Insights{})
	m.ObserveCacheLookup(true)
	m.ObserveReportExport("ok", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.IncCheckIn()
	m.IncCheckIn()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.checkIns))

	m.ObserveInsights(&wellness.Insights{
		Band: wellness.BandNeedsAttention,
		Flags: []wellness.PatternFlag{
			{Kind: wellness.FlagRisk, ID: "chronic-stress"},
			{Kind: wellness.FlagRisk, ID: "mood-sleep-pattern"},
		},
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.insightBands.WithLabelValues("Needs Attention")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.patternFlags.WithLabelValues("risk", "chronic-stress")))

	m.ObserveCacheLookup(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))

	m.ObserveAPI("GET", "/api/checkins", "200", 20*time.Millisecond)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "mindtrack_http_requests_total"))
}
