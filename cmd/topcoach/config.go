package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ConfigCmd creates the config command
func ConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Run: func(cmd *cobra.Command, args []string) {
			c := ServerConfig
			fmt.Println("Top Coach Configuration")
			fmt.Println("=======================")
			fmt.Printf("Listen: %s:%d\n", c.Host, c.Port)
			fmt.Printf("Database: %s\n", c.Database.SQLitePath)
			fmt.Printf("Completion endpoint: %s\n", c.GLM.BaseURL)
			fmt.Printf("Chat model: %s\n", c.GLM.ChatModel)
			fmt.Printf("Summary model: %s\n", c.GLM.SummaryModel)
			fmt.Printf("Request timeout: %s\n", c.GLMTimeout())
			fmt.Printf("API key set: %v\n", c.GLM.APIKey != "")
			fmt.Printf("Access secret set: %v\n", c.Auth.AccessSecret != "")
		},
	}
}
