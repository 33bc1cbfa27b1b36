package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openplan/openplan/pkg/engine"
	"github.com/openplan/openplan/pkg/factory"
)

// cliProblem is the problem stand-in built from the --features flag.
type cliProblem struct {
	kind engine.ProblemKind
}

func (p cliProblem) Name() string             { return "cli" }
func (p cliProblem) Kind() engine.ProblemKind { return p.kind }

func newResolveCommand() *cobra.Command {
	var (
		name             string
		names            []string
		features         []string
		optimality       string
		anytime          string
		planKind         string
		compilationKind  string
		compilationKinds []string
	)

	cmd := &cobra.Command{
		Use:   "resolve <mode>",
		Short: "Resolve an operation-mode request to an engine",
		Long: `Resolve a request for the given operation mode and print the name of
the engine that would serve it.

A request either names its engine explicitly (--name, or --names for a
parallel group) or constrains the search by the problem's features and the
required guarantee. An explicit --name overrides any constraints given with
it; --names mixed with constraints is an error. When no engine fits, the
failure diagnostic includes a per-engine support table.`,
		Example: `  # First oneshot planner supporting disjunctive conditions
  openplan resolve oneshot_planner --features DISJUNCTIVE_CONDITIONS

  # Optimal planner for the same features
  openplan resolve oneshot_planner --features DISJUNCTIVE_CONDITIONS --optimality SOLVED_OPTIMALLY

  # Parallel group of named planners
  openplan resolve oneshot_planner --names enhsp,tamer

  # Two-stage compiler pipeline
  openplan resolve compiler --features NEGATIVE_CONDITIONS,DISJUNCTIVE_CONDITIONS \
    --compilation-kinds NEGATIVE_CONDITIONS_REMOVING,DISJUNCTIVE_CONDITIONS_REMOVING`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := engine.OperationMode(args[0])
			if !mode.Valid() {
				return fmt.Errorf("unknown operation mode %q", args[0])
			}

			f, err := buildFactory()
			if err != nil {
				return err
			}

			var opts []factory.RequestOption
			if name != "" {
				opts = append(opts, factory.WithName(name))
			}
			if len(names) > 0 {
				opts = append(opts, factory.WithNames(names...))
			}
			kind := parseFeatures(features)
			if !kind.IsEmpty() {
				opts = append(opts, factory.WithProblemKind(kind))
			}
			if optimality != "" {
				opts = append(opts, factory.WithOptimalityGuarantee(engine.OptimalityGuarantee(optimality)))
			}
			if anytime != "" {
				opts = append(opts, factory.WithAnytimeGuarantee(engine.AnytimeGuarantee(anytime)))
			}
			if planKind != "" {
				opts = append(opts, factory.WithPlanKind(engine.PlanKind(planKind)))
			}
			if compilationKind != "" {
				opts = append(opts, factory.WithCompilationKind(engine.CompilationKind(compilationKind)))
			}
			if len(compilationKinds) > 0 {
				kinds := make([]engine.CompilationKind, len(compilationKinds))
				for i, k := range compilationKinds {
					kinds[i] = engine.CompilationKind(k)
				}
				opts = append(opts, factory.WithCompilationKinds(kinds...))
			}

			resolved, err := resolveMode(cmd, f, mode, kind, opts)
			if err != nil {
				var ferr *factory.Error
				if errors.As(err, &ferr) && ferr.Table != nil {
					fmt.Fprintln(os.Stderr, ferr.Table.Format())
				}
				return err
			}

			log.Debug().Str("engine", resolved).Str("mode", string(mode)).Msg("Request resolved")
			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				return enc.Encode(map[string]string{"mode": string(mode), "engine": resolved})
			}
			fmt.Println(resolved)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "explicit engine name")
	cmd.Flags().StringSliceVar(&names, "names", nil, "explicit engine names for a parallel group or pipeline stages")
	cmd.Flags().StringSliceVar(&features, "features", nil, "problem features the engine must support")
	cmd.Flags().StringVar(&optimality, "optimality", "", "required optimality guarantee (SATISFICING, SOLVED_OPTIMALLY)")
	cmd.Flags().StringVar(&anytime, "anytime", "", "required anytime guarantee (INCREASING_QUALITY, OPTIMAL_PLANS)")
	cmd.Flags().StringVar(&planKind, "plan-kind", "", "plan kind the validator must handle")
	cmd.Flags().StringVar(&compilationKind, "compilation-kind", "", "transformation the compiler must perform")
	cmd.Flags().StringSliceVar(&compilationKinds, "compilation-kinds", nil, "ordered transformations for a compiler pipeline")

	return cmd
}

// resolveMode dispatches to the factory's per-mode operation and returns
// the resolved engine name.
func resolveMode(cmd *cobra.Command, f *factory.Factory, mode engine.OperationMode, kind engine.ProblemKind, opts []factory.RequestOption) (string, error) {
	ctx := cmd.Context()
	switch mode {
	case engine.ModeOneshotPlanner:
		p, err := f.OneshotPlanner(ctx, opts...)
		if err != nil {
			return "", err
		}
		return p.Name(), nil
	case engine.ModeAnytimePlanner:
		p, err := f.AnytimePlanner(ctx, opts...)
		if err != nil {
			return "", err
		}
		return p.Name(), nil
	case engine.ModePlanValidator:
		v, err := f.PlanValidator(ctx, opts...)
		if err != nil {
			return "", err
		}
		return v.Name(), nil
	case engine.ModeCompiler:
		c, err := f.Compiler(ctx, opts...)
		if err != nil {
			return "", err
		}
		return c.Name(), nil
	case engine.ModeSimulator:
		s, err := f.Simulator(ctx, cliProblem{kind: kind}, opts...)
		if err != nil {
			return "", err
		}
		return s.Name(), nil
	case engine.ModeReplanner:
		r, err := f.Replanner(ctx, cliProblem{kind: kind}, opts...)
		if err != nil {
			return "", err
		}
		return r.Name(), nil
	case engine.ModePortfolioSelector:
		s, err := f.PortfolioSelector(ctx, opts...)
		if err != nil {
			return "", err
		}
		return s.Name(), nil
	}
	return "", fmt.Errorf("unknown operation mode %q", mode)
}

// parseFeatures builds a problem kind from comma- or flag-separated feature
// names.
func parseFeatures(raw []string) engine.ProblemKind {
	var features []engine.Feature
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			features = append(features, engine.Feature(strings.ToUpper(part)))
		}
	}
	return engine.NewProblemKind(features...)
}
