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

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all heroes with the default set",
	Long: `Applies the schema, deletes every stored hero and inserts the four default
heroes in one transaction. Existing data is lost.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	var (
		repo   superhero.Repository
		seeder *superhero.Seeder
	)
	app := fx.New(fx.WithLogger(logger.FxEventLogger), databaseModules(cfg), fx.Populate(&repo, &seeder))

	err = runOnce(cmd.Context(), app, func(ctx context.Context) error {
		if err := repo.Migrate(ctx); err != nil {
			return err
		}
		return seeder.Seed(ctx)
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	cmd.Printf("seeded %d superheroes\n", len(superhero.DefaultHeroes))
	return nil
}
