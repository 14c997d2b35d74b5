package providers

import (
	"aprd/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var knownStates = []string{"idle", "rotating", "degraded", "disabled"}

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncRotations(iface, reason string)
	IncApplyFailures(iface string)
	ObserveApplyDuration(iface string, duration time.Duration)
	SetClientCount(iface string, count int, known bool)
	SetState(iface, state string)
	IncManualTriggers(iface string, accepted bool)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	rotations       *prometheus.CounterVec
	applyFailures   *prometheus.CounterVec
	applyDuration   *prometheus.HistogramVec
	clients         *prometheus.GaugeVec
	state           *prometheus.GaugeVec
	manualTriggers  *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncRotations(iface, reason string) {
	m.rotations.WithLabelValues(iface, reason).Inc()
}

func (m *MetricsProvider) IncApplyFailures(iface string) {
	m.applyFailures.WithLabelValues(iface).Inc()
}

func (m *MetricsProvider) ObserveApplyDuration(iface string, duration time.Duration) {
	m.applyDuration.WithLabelValues(iface).Observe(duration.Seconds())
}

// SetClientCount records -1 when the station count is unknown.
func (m *MetricsProvider) SetClientCount(iface string, count int, known bool) {
	if !known {
		count = -1
	}
	m.clients.WithLabelValues(iface).Set(float64(count))
}

func (m *MetricsProvider) SetState(iface, state string) {
	for _, s := range knownStates {
		value := 0.0
		if s == state {
			value = 1
		}
		m.state.WithLabelValues(iface, s).Set(value)
	}
}

func (m *MetricsProvider) IncManualTriggers(iface string, accepted bool) {
	result := "accepted"
	if !accepted {
		result = "rate_limited"
	}
	m.manualTriggers.WithLabelValues(iface, result).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aprd_requests_total",
			Help: "Total number of ops HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aprd_request_duration_seconds",
			Help:    "Ops HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aprd_probe_cache_hits_total",
			Help: "Total number of station probe cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aprd_probe_cache_misses_total",
			Help: "Total number of station probe cache misses",
		}),

		rotations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aprd_rotations_total",
			Help: "Successful credential rotations",
		}, []string{"interface", "reason"}),

		applyFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aprd_apply_failures_total",
			Help: "Failed attempts to apply a new AP configuration",
		}, []string{"interface"}),

		applyDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aprd_apply_duration_seconds",
			Help:    "Duration of AP configuration applies in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
		}, []string{"interface"}),

		clients: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "aprd_clients",
			Help: "Associated stations per interface, -1 when unknown",
		}, []string{"interface"}),

		state: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "aprd_interface_state",
			Help: "Current rotation state per interface",
		}, []string{"interface", "state"}),

		manualTriggers: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aprd_manual_triggers_total",
			Help: "Manual rotation triggers by outcome",
		}, []string{"interface", "result"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncRotations(_, _ string)                         {}
func (n *noopMetrics) IncApplyFailures(_ string)                        {}
func (n *noopMetrics) ObserveApplyDuration(_ string, _ time.Duration)   {}
func (n *noopMetrics) SetClientCount(_ string, _ int, _ bool)           {}
func (n *noopMetrics) SetState(_, _ string)                             {}
func (n *noopMetrics) IncManualTriggers(_ string, _ bool)               {}
