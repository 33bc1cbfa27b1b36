package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openplan/openplan/pkg/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration handling",
	}

	cmd.AddCommand(newConfigLocationsCommand())
	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigLocationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "Print the configuration file search path",
		Long: `Print every path a configuration file is looked up at, most specific
first. The first existing file wins; it is marked in the output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			locations := config.Locations()
			active, found := config.DefaultPath()

			if jsonOutput {
				type loc struct {
					Path   string `json:"path"`
					Active bool   `json:"active"`
				}
				out := make([]loc, len(locations))
				for i, path := range locations {
					out[i] = loc{Path: path, Active: found && path == active}
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			for _, path := range locations {
				marker := " "
				if found && path == active {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, path)
			}
			return nil
		},
	}
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective registry after configuration",
		Long: `Build the factory, apply the configuration and print the resulting
registry state: registered engine names and the effective preference list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := buildFactory()
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(f.Snapshot())
			}

			fmt.Println("Engines:")
			for _, name := range f.Engines() {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("Preference list:")
			for _, name := range f.PreferenceList() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}
}
