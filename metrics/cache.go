package metrics

import "github.com/prometheus/client_golang/prometheus"

// Cache instruments the API cache.
type Cache struct {
	Requests      *prometheus.CounterVec
	Invalidations *prometheus.CounterVec
	Refetches     prometheus.Counter
	Entries       prometheus.Gauge
}

func NewCache(reg prometheus.Registerer) *Cache {
	return &Cache{
		Requests: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache lookups by result (hit or miss).",
		}, []string{"result"})),
		Invalidations: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Tag invalidations.",
		}, []string{"tag"})),
		Refetches: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "refetch_total",
			Help:      "Refetches of subscribed entries triggered by invalidation.",
		})),
		Entries: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Entries currently held.",
		})),
	}
}
