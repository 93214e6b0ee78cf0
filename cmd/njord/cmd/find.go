package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// findCmd runs an area query and prints the matches as JSON.
var findCmd = &cobra.Command{
	Use:   "find <x> <y> <w> <h>",
	Short: "Find entities inside a rectangle",
	Long: `Find entities inside the rectangle spanning [x, x+w] x [y, y+h].

Example:
  njord find 50 50 50 50`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		vals := make([]float64, 4)
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return fmt.Errorf("invalid argument %q: %w", a, err)
			}
			vals[i] = v
		}

		cat, err := catalogFromCmd(cmd)
		if err != nil {
			return err
		}

		found := cat.FindInArea(vals[0], vals[1], vals[2], vals[3])

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(found)
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
}
