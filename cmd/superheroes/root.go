package main

import (
	"github.com/spf13/cobra"
)

// rootCmd is the entry point when the binary is called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "superheroes",
	Short: "Register and browse humble superheroes",
	Long: `superheroes runs the REST API (serve), the server-rendered frontend (web)
and the one-shot database tasks (migrate, seed).

All configuration is read from the environment. The API needs APP_ENV, PORT,
DATABASE_URL, CORS_ORIGIN and API_KEY; the frontend needs BACKEND_URL and API_KEY.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.SetVersionTemplate(`{{printf "superheroes version %s\n" .Version}}`)
	rootCmd.AddCommand(serveCmd, webCmd, migrateCmd, seedCmd)
}
