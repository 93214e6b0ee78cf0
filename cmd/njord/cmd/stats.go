package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

// statsCmd prints catalog and index shape.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog and index statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalogFromCmd(cmd)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cat.Stats())
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
