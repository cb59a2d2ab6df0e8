package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/mindtrack-backend/internal/platform/envutil"
	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	checkIns       prometheus.Counter
	validationFail *prometheus.CounterVec
	insightBands   *prometheus.CounterVec
	patternFlags   *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	reportExports  *prometheus.CounterVec
	reportRender   prometheus.Histogram
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

// Init builds the process-wide metrics once. Later calls return the same
// instance.
func Init() *Metrics {
	initOnce.Do(func() {
		instance = NewMetrics(prometheus.NewRegistry())
	})
	return instance
}

// NewMetrics registers every collector on reg. Tests pass a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindtrack_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mindtrack_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mindtrack_http_inflight_requests",
			Help: "Requests currently being served.",
		}),
		checkIns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mindtrack_checkins_total",
			Help: "Check-ins accepted and stored.",
		}),
		validationFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindtrack_checkin_validation_failures_total",
			Help: "Rejected check-ins by offending field.",
		}, []string{"field"}),
		insightBands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindtrack_insight_bands_total",
			Help: "Derived insights by wellness band.",
		}, []string{"band"}),
		patternFlags: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindtrack_pattern_flags_total",
			Help: "Pattern flags raised by rule id.",
		}, []string{"kind", "id"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindtrack_insight_cache_lookups_total",
			Help: "Insight cache lookups by result.",
		}, []string{"result"}),
		reportExports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindtrack_report_exports_total",
			Help: "Report exports by outcome.",
		}, []string{"outcome"}),
		reportRender: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mindtrack_report_render_seconds",
			Help:    "Time to render a report image.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.checkIns,
		m.validationFail,
		m.insightBands,
		m.patternFlags,
		m.cacheLookups,
		m.reportExports,
		m.reportRender,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) IncCheckIn() {
	if m == nil {
		return
	}
	m.checkIns.Inc()
}

func (m *Metrics) IncValidationFailure(field string) {
	if m == nil {
		return
	}
	if field == "" {
		field = "unknown"
	}
	m.validationFail.WithLabelValues(field).Inc()
}

// ObserveInsights counts the band and every flag of one derivation.
func (m *Metrics) ObserveInsights(in *wellness.Insights) {
	if m == nil || in == nil {
		return
	}
	m.insightBands.WithLabelValues(string(in.Band)).Inc()
	for _, f := range in.Flags {
		m.patternFlags.WithLabelValues(string(f.Kind), f.ID).Inc()
	}
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveReportExport(outcome string, renderDur time.Duration) {
	if m == nil {
		return
	}
	m.reportExports.WithLabelValues(outcome).Inc()
	if renderDur > 0 {
		m.reportRender.Observe(renderDur.Seconds())
	}
}
