package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/njorddb/pkg/config"
)

// initCmd bootstraps a configuration file with a generated API key.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with a generated API key",
	Long: `Create the NjordDB configuration file. An API key is generated and
stored in it; pass --force to overwrite an existing file.

Example:
  njord init --data-dir=/var/lib/njord`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		force, _ := cmd.Flags().GetBool("force")

		if config.ConfigExists(configPath) && !force {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
		}

		dataDir, _ := cmd.Flags().GetString("data-dir")
		cfg, err := config.BootstrapConfig(configPath, dataDir)
		if err != nil {
			return err
		}

		fmt.Printf("Config written to %s\n", configPath)
		fmt.Printf("API key: %s\n", cfg.Security.APIKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
