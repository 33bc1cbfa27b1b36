package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newEnginesCommand() *cobra.Command {
	var fullCredits bool

	cmd := &cobra.Command{
		Use:   "engines",
		Short: "List the registered engines",
		Long: `List every engine registered with the factory, including the
engines derived by meta-engine composition.

The default output is one name per line in registration order. With
--credits, each engine is rendered with its attribution notice and the
problem features it supports.`,
		Example: `  # List engine names
  openplan engines

  # Render engines with credits and supported features
  openplan engines --credits

  # Machine-readable listing
  openplan engines --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := buildFactory()
			if err != nil {
				return err
			}

			if fullCredits {
				return f.WriteEnginesInfo(os.Stdout, true)
			}

			names := f.Engines()
			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(names)
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fullCredits, "credits", false, "render engines with credits and supported features")

	return cmd
}
