// Package logger provides structured logging for the superheroes service.
//
// It wraps Uber's Zap behind a small Logger interface so that every other package
// depends on the interface and tests can pass a no-op or mock implementation.
//
// # Direct Usage (Without FX)
//
//	log, err := logger.NewLoggerClient(logger.Config{
//		Level:       logger.Info,
//		ServiceName: "superheroes",
//	})
//	if err != nil {
//		return err
//	}
//
//	log.Info("Superhero created", nil, map[string]interface{}{
//		"id": 42,
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule, // Provides *LoggerClient and logger.Logger
//		fx.Supply(logger.Config{Level: logger.Info}),
//		fx.WithLogger(logger.FxEventLogger),
//	)
//
// # Tracing Integration
//
// With EnableTracing set, the *WithContext methods read the OpenTelemetry span from the
// context and add trace_id and span_id to the entry so logs and traces can be correlated.
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug          # debug, info, warning, error
//	LOGGER_ENABLE_TRACING=true      # add trace/span ids to context-aware entries
//
// # Thread Safety
//
// All methods are safe for concurrent use by multiple goroutines.
package logger
