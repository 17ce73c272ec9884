package main

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/superheroes/internal/config"
	"github.com/Aleph-Alpha/superheroes/internal/httpapi"
	"github.com/Aleph-Alpha/superheroes/internal/superhero"
	"github.com/Aleph-Alpha/superheroes/internal/web"
	"github.com/Aleph-Alpha/superheroes/pkg/logger"
	"github.com/Aleph-Alpha/superheroes/pkg/metrics"
	"github.com/Aleph-Alpha/superheroes/pkg/postgres"
	"github.com/Aleph-Alpha/superheroes/pkg/tracer"
)

// apiModules wires the REST API: database, domain, HTTP server and the
// observability stack.
func apiModules(cfg *config.API) fx.Option {
	return fx.Options(
		fx.Supply(
			cfg.Logger,
			cfg.Database,
			cfg.Metrics,
			cfg.Tracer,
			httpapi.Config{
				Address:         cfg.Address(),
				Production:      cfg.IsProduction(),
				APIKey:          cfg.APIKey,
				CORSOrigin:      cfg.CORSOrigin,
				RateLimitWindow: cfg.RateLimitWindow(),
				RateLimitMax:    cfg.RateLimitMaxRequests,
				MaxBodyBytes:    httpapi.DefaultMaxBodyBytes,
			},
		),
		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		postgres.FXModule,
		superhero.FXModule,
		httpapi.FXModule,
	)
}

// webModules wires the frontend. It never touches the database.
func webModules(cfg *config.Web) fx.Option {
	return fx.Options(
		fx.Supply(
			cfg.Logger,
			cfg.Tracer,
			web.Config{
				Address:    cfg.Address(),
				BackendURL: cfg.BackendURL,
				APIKey:     cfg.APIKey,
			},
		),
		logger.FXModule,
		tracer.FXModule,
		web.FXModule,
	)
}

// databaseModules wires what migrate and seed need: the repository and seeder.
func databaseModules(cfg *config.Database) fx.Option {
	return fx.Options(
		fx.Supply(cfg.Logger, cfg.Database),
		logger.FXModule,
		postgres.FXModule,
		superhero.FXModule,
	)
}

// runUntilSignal starts app, blocks until SIGINT or SIGTERM and stops it,
// closing the HTTP server and the database pool.
func runUntilSignal(ctx context.Context, app *fx.App) error {
	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	sig := <-app.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return err
	}
	if sig.ExitCode != 0 {
		return fmt.Errorf("stopped with exit code %d", sig.ExitCode)
	}
	return nil
}

// runOnce starts app, runs task and stops app again.
func runOnce(ctx context.Context, app *fx.App, task func(context.Context) error) error {
	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	taskErr := task(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil && taskErr == nil {
		return err
	}
	return taskErr
}
