package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FXModule defines the Fx module for the metrics package.
// It provides the Metrics instance and the labeled prometheus.Registerer, and
// manages the lifecycle of the scrape server.
//
// Dependencies required by this module:
// - A metrics.Config instance must be available in the dependency injection container
// - A *zap.Logger is optional
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		func(m *Metrics) prometheus.Registerer { return m.Registerer },
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// LifecycleParams groups the dependencies of RegisterMetricsLifecycle.
type LifecycleParams struct {
	fx.In

	Metrics *Metrics
	Logger  *zap.Logger `optional:"true"`
}

// RegisterMetricsLifecycle starts the scrape server in the background on
// application start and shuts it down gracefully on stop.
//
// Note: This function is automatically invoked by the FXModule and does not
// need to be called directly in application code.
func RegisterMetricsLifecycle(lc fx.Lifecycle, p LifecycleParams) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("starting metrics server", zap.String("address", p.Metrics.Server.Addr))
				if err := p.Metrics.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("metrics server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down metrics server")
			return p.Metrics.Server.Shutdown(ctx)
		},
	})
}
