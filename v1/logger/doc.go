// Package logger provides the structured zap logger used across the module.
//
// The package exposes a plain *zap.Logger rather than a wrapper type, since
// the store adapters take *zap.Logger as an optional dependency. The FX
// module builds the logger from a Config and flushes buffered entries on
// shutdown.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(func() logger.Config {
//	        return logger.Config{Level: logger.Info, ServiceName: "my-service"}
//	    }),
//	    milvus.FXModule,
//	    // other modules...
//	)
package logger
