package discovery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var publishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hassbridge_discovery_publish_total",
	Help: "Discovery config, command and ack messages by outcome.",
}, []string{"kind", "outcome"})

func observe(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	publishTotal.WithLabelValues(kind, outcome).Inc()
}
