/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/njorddb/pkg/catalog"
	"github.com/ssargent/njorddb/pkg/config"
)

type contextKey string

const (
	catalogKey contextKey = "catalog"
	configKey  contextKey = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "njord",
	Short: "NjordDB - Concurrent Quadtree Spatial Index",
	Long: `NjordDB keeps a catalog of 2D entities in a concurrent point-quadtree
index, with optional persistence and a REST API over area queries.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init only writes the config file; it does not need a catalog.
		if cmd.Name() == "init" {
			return nil
		}

		cfg, err := loadConfigForCmd(cmd)
		if err != nil {
			return err
		}

		dataDir, _ := cmd.Flags().GetString("data-dir")
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if cfg.DataDir != "" {
			if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data dir: %w", err)
			}
		}

		cat, err := catalog.Open(catalog.Config{
			OriginX:  cfg.World.OriginX,
			OriginY:  cfg.World.OriginY,
			Width:    cfg.World.Width,
			Height:   cfg.World.Height,
			Capacity: cfg.Index.Capacity,
			Threaded: cfg.Index.Threaded,
			DataDir:  cfg.DataDir,
		})
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}

		ctx := context.WithValue(cmd.Context(), catalogKey, cat)
		ctx = context.WithValue(ctx, configKey, cfg)
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if cat, ok := cmd.Context().Value(catalogKey).(*catalog.Catalog); ok {
			return cat.Close()
		}
		return nil
	},
}

func loadConfigForCmd(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}
	if !config.ConfigExists(configPath) {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(configPath)
}

func catalogFromCmd(cmd *cobra.Command) (*catalog.Catalog, error) {
	cat, ok := cmd.Context().Value(catalogKey).(*catalog.Catalog)
	if !ok {
		return nil, fmt.Errorf("catalog not found in context")
	}
	return cat, nil
}

func configFromCmd(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(configKey).(*config.Config)
	if !ok {
		return nil, fmt.Errorf("config not found in context")
	}
	return cfg, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file path (default ~/.config/njord/config.yaml)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory override; empty keeps the configured one")
}
