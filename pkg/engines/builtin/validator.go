package builtin

import (
	"context"
	"fmt"

	"github.com/openplan/openplan/pkg/engine"
)

// classicalKind is the feature set the builtin engines handle: classical
// action-based planning with the usual condition and effect extensions, but
// no temporal or numeric features.
func classicalKind() engine.ProblemKind {
	return engine.NewProblemKind(
		engine.FeatureActionBased,
		engine.FeatureFlatTyping,
		engine.FeatureHierarchicalTyping,
		engine.FeatureNegativeConditions,
		engine.FeatureDisjunctiveConditions,
		engine.FeatureEqualities,
		engine.FeatureExistentialConditions,
		engine.FeatureUniversalConditions,
		engine.FeatureConditionalEffects,
		engine.FeatureActionsCost,
		engine.FeaturePlanLength,
	)
}

// rejectParams errors when an engine taking no parameters receives some.
func rejectParams(name string, params map[string]string) error {
	if len(params) > 0 {
		return fmt.Errorf("engine %q takes no parameters", name)
	}
	return nil
}

// sequentialPlanValidator validates sequential plans against the declared
// problem and plan kinds.
type sequentialPlanValidator struct{}

func (v *sequentialPlanValidator) Name() string {
	return "sequential_plan_validator"
}

func (v *sequentialPlanValidator) Validate(ctx context.Context, problem engine.Problem, plan engine.Plan) (*engine.ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("sequential_plan_validator: plan is nil")
	}
	if plan.Kind() != engine.SequentialPlan {
		return &engine.ValidationResult{
			Valid:      false,
			Reason:     fmt.Sprintf("plan kind %s is not a sequential plan", plan.Kind()),
			EngineName: v.Name(),
		}, nil
	}
	if !classicalKind().Supports(problem.Kind()) {
		return &engine.ValidationResult{
			Valid:      false,
			Reason:     fmt.Sprintf("problem %q uses features outside the validator's scope", problem.Name()),
			EngineName: v.Name(),
		}, nil
	}
	return &engine.ValidationResult{Valid: true, EngineName: v.Name()}, nil
}

// validatorDefinition describes the sequential plan validator.
func validatorDefinition() (engine.Capabilities, *engine.Credits, func(map[string]string) (engine.Engine, error)) {
	caps := engine.Profile{
		Modes: []engine.OperationMode{engine.ModePlanValidator},
		Kind:  classicalKind(),
		Plans: []engine.PlanKind{engine.SequentialPlan},
	}
	credits := &engine.Credits{
		Name:             "sequential_plan_validator",
		Author:           "The openplan team",
		Contact:          "team@openplan.dev",
		Website:          "https://github.com/openplan/openplan",
		License:          "Apache-2.0",
		ShortDescription: "Validator for sequential plans on classical problems.",
	}
	newFn := func(params map[string]string) (engine.Engine, error) {
		if err := rejectParams("sequential_plan_validator", params); err != nil {
			return nil, err
		}
		return &sequentialPlanValidator{}, nil
	}
	return caps, credits, newFn
}
