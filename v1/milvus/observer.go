package milvus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// observer tracks store operations for Prometheus. It is nil when no
// registerer is configured; all methods are nil-safe no-ops in that case.
type observer struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
}

func newObserver(reg prometheus.Registerer) *observer {
	if reg == nil {
		return nil
	}

	o := &observer{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vecdb",
			Subsystem: "milvus",
			Name:      "operations_total",
			Help:      "Total store operations by outcome.",
		}, []string{"operation", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vecdb",
			Subsystem: "milvus",
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(o.operations, o.durations)
	return o
}

func (o *observer) observe(operation string, start time.Time, err error) {
	if o == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.operations.WithLabelValues(operation, status).Inc()
	o.durations.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
