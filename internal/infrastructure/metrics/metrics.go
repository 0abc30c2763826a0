package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fileshare"

func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(counterOpts(), []string{"result"})
}

// NewUnregisteredCounter is the same vector outside the default registry.
func NewUnregisteredCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(counterOpts(), []string{"result"})
}

func counterOpts() prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "general_counters",
		Help:      "Outcomes of requests, access resolutions and link lifecycle operations.",
	}
}
