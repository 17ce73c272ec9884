package logger

import (
	"context"
	"errors"
	"syscall"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// FXModule defines the Fx module for the logger package.
// It provides *LoggerClient, exposes it as the Logger interface and
// registers the lifecycle hook that flushes buffered entries on shutdown.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Supply(logger.Config{Level: logger.Info}),
//	)
//
// Dependencies required by this module:
// - A logger.Config instance must be available in the dependency injection container
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLoggerClient,
		fx.Annotate(
			func(l *LoggerClient) Logger { return l },
			fx.As(new(Logger)),
		),
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// FxEventLogger routes fx's own lifecycle events through the service logger.
// Pass it to fx.WithLogger.
func FxEventLogger(l *LoggerClient) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: l.Zap}
}

// RegisterLoggerLifecycle handles cleanup (sync) of the Zap logger.
//
// Sync on stderr returns EINVAL/ENOTTY on some platforms; those are ignored.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *LoggerClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			err := client.Zap.Sync()
			if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
				return nil
			}
			return err
		},
	})
}
