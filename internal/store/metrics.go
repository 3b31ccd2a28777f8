package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	writes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amiverse_store_writes_total",
		Help: "The total number of store writes by outcome",
	}, []string{"store", "result"})
)

func countWrite(store string, applied bool) {
	result := "applied"
	if !applied {
		result = "stale"
	}
	writes.WithLabelValues(store, result).Inc()
}
