package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/superheroes/internal/config"
	"github.com/Aleph-Alpha/superheroes/pkg/logger"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the superheroes web frontend",
	Long: `Runs the server-rendered frontend on WEB_PORT. Heroes are listed and created
through the REST API at BACKEND_URL using API_KEY.`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func runWeb(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWeb()
	if err != nil {
		return err
	}

	app := fx.New(fx.WithLogger(logger.FxEventLogger), webModules(cfg))
	if err := runUntilSignal(cmd.Context(), app); err != nil {
		return fmt.Errorf("web: %w", err)
	}
	return nil
}
