package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// putCmd registers an entity at a point.
var putCmd = &cobra.Command{
	Use:   "put <x> <y> [data]",
	Short: "Register an entity at a point",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid x: %w", err)
		}
		y, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid y: %w", err)
		}
		var data []byte
		if len(args) == 3 {
			data = []byte(args[2])
		}

		cat, err := catalogFromCmd(cmd)
		if err != nil {
			return err
		}

		e, err := cat.Put(x, y, data)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", e.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
}
