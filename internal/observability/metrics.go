package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/interviewprep-backend/internal/platform/envutil"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

const namespace = "interviewprep"

// Metrics is nil-safe: every method is a no-op on a nil receiver so callers never branch on METRICS_ENABLED.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests        *prometheus.CounterVec
	apiLatency         *prometheus.HistogramVec
	apiInflight        prometheus.Gauge
	sessionTransitions *prometheus.CounterVec
	aggregations       *prometheus.HistogramVec
	jobRuns            *prometheus.CounterVec
	jobLatency         *prometheus.HistogramVec
	responses          *prometheus.CounterVec
	chatMessages       *prometheus.CounterVec
}

var (
	metricsOnce sync.Once
	current     *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", true)
}

// Current returns the process metrics, or nil before Init or when disabled.
func Current() *Metrics {
	return current
}

func Init(log *logger.Logger) *Metrics {
	metricsOnce.Do(func() {
		if !Enabled() {
			if log != nil {
				log.Info("metrics disabled")
			}
			return
		}
		current = NewMetrics()
		if log != nil {
			log.Info("metrics initialized")
		}
	})
	return current
}

// NewMetrics builds a metrics set on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Requests currently being served.",
		}),
		sessionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transitions_total",
			Help:      "Interview session status transitions.",
		}, []string{"from", "to"}),
		aggregations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "result_aggregation_duration_seconds",
			Help:      "Result aggregation runs by outcome.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Job executions by type and outcome.",
		}, []string{"job_type", "outcome"}),
		jobLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_run_duration_seconds",
			Help:      "Job handler latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job_type"}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_submitted_total",
			Help:      "Accepted responses by question type.",
		}, []string{"question_type"}),
		chatMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_messages_total",
			Help:      "Chat messages by author.",
		}, []string{"author"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.sessionTransitions,
		m.aggregations,
		m.jobRuns,
		m.jobLatency,
		m.responses,
		m.chatMessages,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncSessionTransition(from, to string) {
	if m == nil {
		return
	}
	m.sessionTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) ObserveAggregation(outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregations.WithLabelValues(outcome).Observe(dur.Seconds())
}

func (m *Metrics) ObserveJob(jobType, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(jobType, outcome).Inc()
	m.jobLatency.WithLabelValues(jobType).Observe(dur.Seconds())
}

func (m *Metrics) IncResponse(questionType string) {
	if m == nil {
		return
	}
	m.responses.WithLabelValues(questionType).Inc()
}

func (m *Metrics) IncChatMessage(fromUser bool) {
	if m == nil {
		return
	}
	author := "assistant"
	if fromUser {
		author = "user"
	}
	m.chatMessages.WithLabelValues(author).Inc()
}
