package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Delivery outcomes recorded by the webhook handler.
const (
	outcomeAccepted      = "accepted"
	outcomeDuplicate     = "duplicate"
	outcomeMissingSig    = "signature_absent"
	outcomeBadSig        = "signature_mismatch"
	outcomeMalformed     = "malformed"
	outcomeTooLarge      = "too_large"
	outcomePublishFailed = "publish_failed"
)

// Metrics holds the receiver's collectors on a dedicated registry.
type Metrics struct {
	registry         *prometheus.Registry
	deliveries       *prometheus.CounterVec
	handleDuration   *prometheus.HistogramVec
	requestCounter   *prometheus.CounterVec
	publishedTargets prometheus.Counter
}

// NewMetrics registers the receiver collectors on reg, or on a fresh registry when nil.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chargily",
				Subsystem: "webhook",
				Name:      "deliveries_total",
				Help:      "Webhook deliveries by outcome",
			},
			[]string{"outcome"},
		),
		handleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "chargily",
				Subsystem: "webhook",
				Name:      "handle_duration_seconds",
				Help:      "Time spent handling a webhook delivery",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"outcome"},
		),
		requestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chargily",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests served by the receiver",
			},
			[]string{"method", "route", "status"},
		),
		publishedTargets: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "chargily",
				Subsystem: "webhook",
				Name:      "published_total",
				Help:      "Successful publisher deliveries of verified events",
			},
		),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observeDelivery(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(outcome).Inc()
	m.handleDuration.WithLabelValues(outcome).Observe(seconds)
}

func (m *Metrics) addPublished(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.publishedTargets.Add(float64(n))
}
