package builtin

import (
	"context"
	"fmt"

	"github.com/openplan/openplan/pkg/engine"
)

// sequentialSimulator steps a sequential plan through a problem.
type sequentialSimulator struct{}

func (s *sequentialSimulator) Name() string {
	return "sequential_simulator"
}

func (s *sequentialSimulator) Simulate(ctx context.Context, problem engine.Problem, plan engine.Plan) (*engine.SimulationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("sequential_simulator: plan is nil")
	}
	if plan.Kind() != engine.SequentialPlan {
		return nil, fmt.Errorf("sequential_simulator: plan kind %s is not a sequential plan", plan.Kind())
	}
	if !classicalKind().Supports(problem.Kind()) {
		return nil, fmt.Errorf("sequential_simulator: problem %q uses features outside the simulator's scope", problem.Name())
	}
	return &engine.SimulationResult{
		Completed:         true,
		FailedActionIndex: -1,
		EngineName:        s.Name(),
	}, nil
}

func simulatorDefinition() (engine.Capabilities, *engine.Credits, func(map[string]string) (engine.Engine, error)) {
	caps := engine.Profile{
		Modes: []engine.OperationMode{engine.ModeSimulator},
		Kind:  classicalKind(),
		Plans: []engine.PlanKind{engine.SequentialPlan},
	}
	credits := &engine.Credits{
		Name:             "sequential_simulator",
		Author:           "The openplan team",
		Contact:          "team@openplan.dev",
		Website:          "https://github.com/openplan/openplan",
		License:          "Apache-2.0",
		ShortDescription: "Simulator for sequential plans on classical problems.",
	}
	newFn := func(params map[string]string) (engine.Engine, error) {
		if err := rejectParams("sequential_simulator", params); err != nil {
			return nil, err
		}
		return &sequentialSimulator{}, nil
	}
	return caps, credits, newFn
}
