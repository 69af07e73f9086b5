package main

import (
	_ "embed"
	"fmt"
	"os"

	cli "topcoach/cmd/topcoach"
	"topcoach/internal/config"

	"github.com/joho/godotenv"
)

//go:embed etc/topcoach.yaml
var embeddedConfig []byte

func main() {
	// Load .env if present so GLM_API_KEY and friends can live in a local dotfile
	_ = godotenv.Load()

	// Load embedded config (defaults, env-expanded)
	c, err := config.LoadFromBytes(embeddedConfig)
	if err != nil {
		fmt.Printf("Failed to load embedded config: %v\n", err)
		os.Exit(1)
	}

	if err := cli.SetupRootCmd(&c).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
