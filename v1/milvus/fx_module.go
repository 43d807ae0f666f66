package milvus

import (
	"context"

	"go.uber.org/fx"
)

// FXModule defines the Fx module for the milvus package.
// This module integrates the Milvus-backed store into an Fx-based application
// by providing the store factory and registering its lifecycle hooks.
//
// Usage:
//
//	app := fx.New(
//	    milvus.FXModule,
//	    fx.Provide(func() *milvus.Config {
//	        return milvus.DefaultConfig().
//	            WithAddress("localhost:19530").
//	            WithCollectionName("documents")
//	    }),
//	    // other modules...
//	)
//
// Dependencies required by this module:
// - A *milvus.Config instance must be available in the dependency injection container
// - A *zap.Logger and a prometheus.Registerer are optional
var FXModule = fx.Module("milvus",
	fx.Provide(NewStore),
	fx.Invoke(RegisterStoreLifecycle),
)

// RegisterStoreLifecycle closes the underlying SDK client when the
// application shuts down.
//
// Note: This function is automatically invoked by the FXModule and does not
// need to be called directly in application code.
func RegisterStoreLifecycle(lc fx.Lifecycle, store *Store) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
}
