/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/njorddb/pkg/api"
	"github.com/ssargent/njorddb/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the NjordDB REST API server with authentication.

Example:
  njord serve --api-key=mysecretkey --port=8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromCmd(cmd)
		if err != nil {
			return err
		}
		cat, err := catalogFromCmd(cmd)
		if err != nil {
			return err
		}

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.Port
		}

		apiKey, _ := cmd.Flags().GetString("api-key")
		if apiKey == "" {
			apiKey = cfg.Security.APIKey
		}
		if apiKey == "" || apiKey == "auto" {
			apiKey, err = config.GenerateAPIKey(32)
			if err != nil {
				return err
			}
			fmt.Printf("Generated ephemeral API key: %s\n", apiKey)
			fmt.Println("Run 'njord init' to persist a key in the config file.")
		}

		return api.StartServer(cat, api.ServerConfig{
			Port:   port,
			Bind:   cfg.Bind,
			APIKey: apiKey,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default from config)")
	serveCmd.Flags().String("api-key", "", "API key for authentication (default from config)")
}
