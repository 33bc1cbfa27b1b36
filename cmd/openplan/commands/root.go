package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openplan/openplan/pkg/config"
	"github.com/openplan/openplan/pkg/engines/builtin"
	"github.com/openplan/openplan/pkg/factory"
)

var (
	// Global flags
	configPath  string
	manifestDir string
	verbose     bool
	jsonOutput  bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "openplan",
		Short: "OpenPlan - Planning Engine Registry and Resolver",
		Long: `OpenPlan maintains a registry of planning engines and resolves
operation-mode requests against it.

Features:
  - Engine registry with per-mode capability matching
  - Meta-engines composing derived engines from registered bases
  - Parallel engine groups and compiler pipelines
  - INI and YAML manifest configuration
  - Transportable registry snapshots`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&manifestDir, "manifests", "", "directory of engine manifest files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(newEnginesCommand())
	rootCmd.AddCommand(newResolveCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newWatchCommand())

	return rootCmd
}

// buildFactory constructs a factory over the builtin catalog and applies
// the configuration file (the explicit --config path, or the first file
// found on the default search path).
func buildFactory() (*factory.Factory, error) {
	f := factory.New(builtin.Catalog(),
		factory.WithLogger(log.Logger),
		factory.WithCreditsStream(os.Stderr),
	)

	loader := config.NewLoader(log.Logger)
	if configPath != "" {
		if err := loader.Apply(f, configPath); err != nil {
			return nil, err
		}
	} else if err := loader.ApplyDefault(f); err != nil {
		return nil, err
	}

	if manifestDir != "" {
		manifests := config.NewManifestLoader(log.Logger)
		if _, err := manifests.ScanDirectory(f, manifestDir); err != nil {
			return nil, err
		}
	}
	return f, nil
}
