// Command superheroes runs the superheroes REST API, its web frontend and the
// database maintenance tasks.
package main

import "os"

// version can be set during build with -ldflags.
var version = "dev"

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
