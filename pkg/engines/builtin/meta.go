package builtin

import (
	"context"
	"fmt"

	"github.com/openplan/openplan/pkg/engine"
	"github.com/openplan/openplan/pkg/factory"
)

// composedCaps are the capabilities of a meta-composed engine: the base
// engine's predicates restricted to the composed modes, with extra features
// added to the supported kind.
type composedCaps struct {
	base  engine.Capabilities
	modes []engine.OperationMode
	kind  engine.ProblemKind
}

func (c composedCaps) HasMode(mode engine.OperationMode) bool {
	for _, m := range c.modes {
		if m == mode {
			return true
		}
	}
	return false
}

func (c composedCaps) SupportedKind() engine.ProblemKind {
	return c.kind
}

func (c composedCaps) Supports(kind engine.ProblemKind) bool {
	return c.kind.Supports(kind)
}

func (c composedCaps) Satisfies(g engine.OptimalityGuarantee) bool {
	return c.base.Satisfies(g)
}

func (c composedCaps) Ensures(g engine.AnytimeGuarantee) bool {
	return c.base.Ensures(g)
}

func (c composedCaps) SupportsCompilation(kind engine.CompilationKind) bool {
	return false
}

func (c composedCaps) SupportsPlan(kind engine.PlanKind) bool {
	return c.base.SupportsPlan(kind)
}

// reducedProblem presents a problem with some features hidden, so a base
// engine that does not know about them can be handed the rest.
type reducedProblem struct {
	engine.Problem
	kind engine.ProblemKind
}

func (p *reducedProblem) Kind() engine.ProblemKind {
	return p.kind
}

// oversubscriptionPlanner turns a oneshot planner into one accepting
// oversubscription goals: the oversubscription part is stripped before the
// base planner runs.
type oversubscriptionPlanner struct {
	name string
	base engine.OneshotPlanner
}

func (p *oversubscriptionPlanner) Name() string {
	return p.name
}

func (p *oversubscriptionPlanner) Solve(ctx context.Context, problem engine.Problem) (*engine.PlanResult, error) {
	reduced := &reducedProblem{
		Problem: problem,
		kind:    problem.Kind().Without(engine.FeatureOversubscription),
	}
	res, err := p.base.Solve(ctx, reduced)
	if err != nil {
		return nil, err
	}
	res.EngineName = p.name
	// An oversubscription solution is satisficing even when the base
	// planner proved optimality for the reduced problem.
	if res.Status == engine.StatusSolvedOptimally {
		res.Status = engine.StatusSolvedSatisficing
	}
	return res, nil
}

// oversubscriptionMeta builds the oversubscription meta-engine definition.
func oversubscriptionMeta() *factory.MetaDefinition {
	credits := &engine.Credits{
		Name:             "oversubscription",
		Author:           "The openplan team",
		Contact:          "team@openplan.dev",
		Website:          "https://github.com/openplan/openplan",
		License:          "Apache-2.0",
		ShortDescription: "Meta-engine adding oversubscription goals on top of a oneshot planner.",
	}
	return &factory.MetaDefinition{
		Credits: credits,
		IsCompatible: func(base *factory.Descriptor) bool {
			return base.Capabilities().HasMode(engine.ModeOneshotPlanner)
		},
		Compose: func(base *factory.Descriptor) (*factory.Definition, error) {
			name := fmt.Sprintf("oversubscription[%s]", base.Name())
			caps := composedCaps{
				base:  base.Capabilities(),
				modes: []engine.OperationMode{engine.ModeOneshotPlanner},
				kind:  base.Capabilities().SupportedKind().With(engine.FeatureOversubscription),
			}
			return &factory.Definition{
				Capabilities: caps,
				Credits:      credits,
				New: func(params map[string]string) (engine.Engine, error) {
					inst, err := base.New(params)
					if err != nil {
						return nil, err
					}
					planner, ok := inst.(engine.OneshotPlanner)
					if !ok {
						return nil, fmt.Errorf("base engine %q does not implement oneshot planning", base.Name())
					}
					return &oversubscriptionPlanner{name: name, base: planner}, nil
				},
			}, nil
		},
	}
}

// replanner turns a oneshot planner into a replanner by re-solving the
// problem as handed in on every Replan call.
type replanner struct {
	name string
	base engine.OneshotPlanner
}

func (p *replanner) Name() string {
	return p.name
}

func (p *replanner) Replan(ctx context.Context, problem engine.Problem) (*engine.PlanResult, error) {
	res, err := p.base.Solve(ctx, problem)
	if err != nil {
		return nil, err
	}
	res.EngineName = p.name
	return res, nil
}

// replannerMeta builds the replanner meta-engine definition.
func replannerMeta() *factory.MetaDefinition {
	credits := &engine.Credits{
		Name:             "replanner",
		Author:           "The openplan team",
		Contact:          "team@openplan.dev",
		Website:          "https://github.com/openplan/openplan",
		License:          "Apache-2.0",
		ShortDescription: "Meta-engine deriving a replanner from a oneshot planner.",
	}
	return &factory.MetaDefinition{
		Credits: credits,
		IsCompatible: func(base *factory.Descriptor) bool {
			return base.Capabilities().HasMode(engine.ModeOneshotPlanner)
		},
		Compose: func(base *factory.Descriptor) (*factory.Definition, error) {
			name := fmt.Sprintf("replanner[%s]", base.Name())
			caps := composedCaps{
				base:  base.Capabilities(),
				modes: []engine.OperationMode{engine.ModeReplanner},
				kind:  base.Capabilities().SupportedKind(),
			}
			return &factory.Definition{
				Capabilities: caps,
				Credits:      credits,
				New: func(params map[string]string) (engine.Engine, error) {
					inst, err := base.New(params)
					if err != nil {
						return nil, err
					}
					planner, ok := inst.(engine.OneshotPlanner)
					if !ok {
						return nil, fmt.Errorf("base engine %q does not implement oneshot planning", base.Name())
					}
					return &replanner{name: name, base: planner}, nil
				},
			}, nil
		},
	}
}
