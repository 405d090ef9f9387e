package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/limaJavier/groupscheduling/pkg/model"
	"github.com/limaJavier/groupscheduling/pkg/sat"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Manager owns the service metrics and the registry they live in.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Solver metrics
	solves             *prometheus.CounterVec
	solveDuration      *prometheus.HistogramVec
	problemVariables   prometheus.Histogram
	problemConstraints prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Cache metrics
	cacheLookups *prometheus.CounterVec
}

// NewManager creates a metrics manager registered on its own registry unless one is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "groups",
		subsystem:        "scheduler",
		histogramBuckets: prometheus.ExponentialBuckets(1, 4, 10),
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.solves = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "solves_total",
			Help:      "Total number of solves by solver and verdict",
		},
		[]string{"solver", "status"},
	)

	m.solveDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "solve_duration_milliseconds",
			Help:      "Time spent by the solver deciding a compiled problem",
			Buckets:   m.histogramBuckets,
		},
		[]string{"solver"},
	)

	m.problemVariables = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "problem_variables",
		Help:      "Number of boolean variables of compiled problems",
		Buckets:   prometheus.ExponentialBuckets(16, 4, 10),
	})

	m.problemConstraints = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "problem_constraints",
		Help:      "Number of linear constraints of compiled problems",
		Buckets:   prometheus.ExponentialBuckets(16, 4, 10),
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.cacheLookups = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cache_lookups_total",
			Help:      "Total number of result cache lookups by outcome",
		},
		[]string{"result"},
	)
}

// SolveObserver returns a model.Observer recording every solve made with the named solver.
func (m *Manager) SolveObserver(solver string) model.Observer {
	return func(statistics model.Statistics, status sat.Status, elapsed time.Duration) {
		m.solves.WithLabelValues(solver, status.String()).Inc()
		m.solveDuration.WithLabelValues(solver).Observe(milliseconds(elapsed))
		m.problemVariables.Observe(float64(statistics.Variables))
		m.problemConstraints.Observe(float64(statistics.Constraints))
	}
}

func (m *Manager) RecordHTTPRequest(endpoint, method string, statusCode int, duration time.Duration) {
	code := strconv.Itoa(statusCode)
	m.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(milliseconds(duration))
}

func (m *Manager) RecordCacheLookup(result string) {
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Registry returns the registry the metrics live in.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func milliseconds(duration time.Duration) float64 {
	return float64(duration) / float64(time.Millisecond)
}
