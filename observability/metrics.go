package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDuration    *prometheus.HistogramVec
	summarizeRequestsTotal *prometheus.CounterVec
	summarizeDuration      *prometheus.HistogramVec
	mailDeliveriesTotal    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetnotes_http_requests_total",
				Help: "Total number of HTTP requests handled.",
			},
			[]string{"route", "method", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meetnotes_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
		summarizeRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetnotes_summarize_requests_total",
				Help: "Total Gemini summarization calls.",
			},
			[]string{"outcome"},
		),
		summarizeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meetnotes_summarize_duration_seconds",
				Help:    "Gemini summarization call duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		mailDeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetnotes_mail_deliveries_total",
				Help: "Send-summary requests by delivery status.",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.summarizeRequestsTotal,
		m.summarizeDuration,
		m.mailDeliveriesTotal,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	statusLabel := strconv.Itoa(status)
	m.httpRequestsTotal.WithLabelValues(route, method, statusLabel).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, statusLabel).Observe(duration.Seconds())
}

func (m *Metrics) ObserveSummarize(success bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "error"
	}
	m.summarizeRequestsTotal.WithLabelValues(outcome).Inc()
	m.summarizeDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *Metrics) ObserveDelivery(status string) {
	if m == nil {
		return
	}
	if status == "" {
		status = "unknown"
	}
	m.mailDeliveriesTotal.WithLabelValues(status).Inc()
}
