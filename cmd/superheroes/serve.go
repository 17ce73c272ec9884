package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/superheroes/internal/config"
	"github.com/Aleph-Alpha/superheroes/internal/superhero"
	"github.com/Aleph-Alpha/superheroes/pkg/logger"
)

// serveMigrate applies the schema before the server starts listening.
var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the superheroes REST API",
	Long: `Runs the REST API on PORT until SIGINT or SIGTERM, then drains in-flight
requests and closes the database pool. Prometheus metrics are served on
METRICS_ADDRESS.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply the database schema before serving")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadAPI()
	if err != nil {
		return err
	}

	opts := []fx.Option{fx.WithLogger(logger.FxEventLogger), apiModules(cfg)}
	if serveMigrate {
		opts = append(opts, fx.Invoke(registerMigration))
	}

	if err := runUntilSignal(cmd.Context(), fx.New(opts...)); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// registerMigration runs after the database hooks, so the pool is open.
func registerMigration(lc fx.Lifecycle, repo superhero.Repository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.Migrate(ctx)
		},
	})
}
