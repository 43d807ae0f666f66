package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus registry with the HTTP server serving the
// /metrics endpoint.
type Metrics struct {
	// Server exposes the scrape endpoint.
	Server *http.Server

	// Registry is the isolated registry backing the endpoint.
	Registry *prometheus.Registry

	// Registerer is the registry wrapped with the constant service label.
	// Components register their collectors here.
	Registerer prometheus.Registerer
}

// NewMetrics builds an isolated registry, wraps it with the service label,
// and configures the scrape server.
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()
	registerer := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	if cfg.EnableDefaultCollectors {
		registerer.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	return &Metrics{
		Server: &http.Server{
			Addr:    cfg.Address,
			Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		},
		Registry:   registry,
		Registerer: registerer,
	}
}
