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

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the superheroes table",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	var repo superhero.Repository
	app := fx.New(fx.WithLogger(logger.FxEventLogger), databaseModules(cfg), fx.Populate(&repo))

	err = runOnce(cmd.Context(), app, func(ctx context.Context) error {
		return repo.Migrate(ctx)
	})
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	cmd.Println("superheroes table is up to date")
	return nil
}
