package hub

import (
	"errors"
	"time"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hassbridge_hub_requests_total",
		Help: "Hub REST requests by operation and outcome.",
	}, []string{"op", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hassbridge_hub_request_duration_seconds",
		Help:    "Hub REST request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	breakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hassbridge_hub_breaker_state",
		Help: "Hub circuit breaker state (0 closed, 1 half-open, 2 open).",
	})
)

func observe(op string, start time.Time, err error) {
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrEntityNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrTransport):
		return "transport_error"
	default:
		return "error"
	}
}
