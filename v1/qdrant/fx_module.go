package qdrant

import (
	"context"

	"go.uber.org/fx"
)

// FXModule defines the Fx module for the qdrant package.
// This module integrates the Qdrant-backed store into an Fx-based application
// by providing the store factory and registering its lifecycle hooks.
//
// Usage:
//
//	app := fx.New(
//	    qdrant.FXModule,
//	    fx.Provide(func() *qdrant.Config {
//	        return qdrant.DefaultConfig().
//	            WithEndpoint("localhost", 6334).
//	            WithCollectionName("documents")
//	    }),
//	    // other modules...
//	)
//
// Dependencies required by this module:
// - A *qdrant.Config instance must be available in the dependency injection container
// - A *zap.Logger is optional
var FXModule = fx.Module("qdrant",
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
