// Package metrics exposes the Prometheus registry and scrape endpoint for
// applications embedding the vector store adapters.
//
// Each Metrics instance owns an isolated registry wrapped with a constant
// service label, so metric names never collide when multiple services run in
// one process. The FX module additionally provides the wrapped
// prometheus.Registerer, which the store adapters pick up as their optional
// observability dependency.
//
// Usage:
//
//	app := fx.New(
//	    metrics.FXModule,
//	    fx.Provide(func() metrics.Config {
//	        return metrics.Config{Address: ":9090", ServiceName: "search-store"}
//	    }),
//	    milvus.FXModule,
//	    // other modules...
//	)
//
// Metrics are served at http://<address>/metrics.
package metrics
