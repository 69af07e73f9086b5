package cli

import (
	"github.com/spf13/cobra"

	"topcoach/internal/config"
)

// Shared CLI flags
var (
	quiet bool
)

// ServerConfig holds the loaded server configuration (set by main)
var ServerConfig *config.Config

// SetupRootCmd configures the root command with all subcommands and flags
func SetupRootCmd(c *config.Config) *cobra.Command {
	ServerConfig = c

	rootCmd := &cobra.Command{
		Use:   "topcoach",
		Short: "Top Coach - AI fitness coaching service",
		Long: `Top Coach is the backend of the Top AI fitness coaching application:
an authenticated chat API backed by SQLite with periodic LLM-driven
conversation summarization.

Just type 'topcoach' to start the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress startup messages")

	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(ConfigCmd())

	return rootCmd
}
