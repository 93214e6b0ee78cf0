package cmd

import (
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

// removeCmd deletes an entity by id.
var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an entity by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid entity id: %w", err)
		}

		cat, err := catalogFromCmd(cmd)
		if err != nil {
			return err
		}

		if err := cat.Remove(id); err != nil {
			return err
		}

		fmt.Println("removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
