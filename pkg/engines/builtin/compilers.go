package builtin

import (
	"context"
	"fmt"

	"github.com/openplan/openplan/pkg/engine"
)

// compiledProblem is the output of a builtin compiler: the original problem
// with the transformed feature set.
type compiledProblem struct {
	name string
	kind engine.ProblemKind
}

func (p *compiledProblem) Name() string             { return p.name }
func (p *compiledProblem) Kind() engine.ProblemKind { return p.kind }

// remover is a compiler performing exactly one transformation, described by
// the features it eliminates from the declared kind.
type remover struct {
	name    string
	kind    engine.CompilationKind
	removes []engine.Feature
	suffix  string
}

func (r *remover) Name() string {
	return r.name
}

func (r *remover) Compile(ctx context.Context, problem engine.Problem, kind engine.CompilationKind) (*engine.CompilationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if kind != r.kind {
		return nil, fmt.Errorf("%s: compilation kind %s is not supported, only %s", r.name, kind, r.kind)
	}
	compiled := &compiledProblem{
		name: problem.Name() + "_" + r.suffix,
		kind: r.ResultingKind(problem.Kind(), kind),
	}
	return &engine.CompilationResult{Problem: compiled, EngineName: r.name}, nil
}

func (r *remover) ResultingKind(kind engine.ProblemKind, compilation engine.CompilationKind) engine.ProblemKind {
	if compilation != r.kind {
		return kind
	}
	return kind.Without(r.removes...)
}

// removerSpec declares one builtin compiler for the catalog.
type removerSpec struct {
	symbol  string
	name    string
	kind    engine.CompilationKind
	removes []engine.Feature
	suffix  string
	short   string
}

var removerSpecs = []removerSpec{
	{
		symbol:  "ConditionalEffectsRemover",
		name:    "up_conditional_effects_remover",
		kind:    engine.ConditionalEffectsRemoving,
		removes: []engine.Feature{engine.FeatureConditionalEffects},
		suffix:  "cer",
		short:   "Compiles away conditional effects.",
	},
	{
		symbol:  "DisjunctiveConditionsRemover",
		name:    "up_disjunctive_conditions_remover",
		kind:    engine.DisjunctiveConditionsRemoving,
		removes: []engine.Feature{engine.FeatureDisjunctiveConditions},
		suffix:  "dcr",
		short:   "Compiles away disjunctive conditions.",
	},
	{
		symbol:  "NegativeConditionsRemover",
		name:    "up_negative_conditions_remover",
		kind:    engine.NegativeConditionsRemoving,
		removes: []engine.Feature{engine.FeatureNegativeConditions},
		suffix:  "ncr",
		short:   "Compiles away negative conditions.",
	},
	{
		symbol: "QuantifiersRemover",
		name:   "up_quantifiers_remover",
		kind:   engine.QuantifiersRemoving,
		removes: []engine.Feature{
			engine.FeatureExistentialConditions,
			engine.FeatureUniversalConditions,
		},
		suffix: "qr",
		short:  "Compiles away existential and universal conditions.",
	},
	{
		symbol:  "Grounder",
		name:    "up_grounder",
		kind:    engine.Grounding,
		removes: []engine.Feature{engine.FeatureHierarchicalTyping},
		suffix:  "grounded",
		short:   "Grounds a problem to its flat propositional form.",
	},
}

func removerDefinition(spec removerSpec) (engine.Capabilities, *engine.Credits, func(map[string]string) (engine.Engine, error)) {
	caps := engine.Profile{
		Modes:        []engine.OperationMode{engine.ModeCompiler},
		Kind:         classicalKind(),
		Compilations: []engine.CompilationKind{spec.kind},
	}
	credits := &engine.Credits{
		Name:             spec.name,
		Author:           "The openplan team",
		Contact:          "team@openplan.dev",
		Website:          "https://github.com/openplan/openplan",
		License:          "Apache-2.0",
		ShortDescription: spec.short,
	}
	newFn := func(params map[string]string) (engine.Engine, error) {
		if err := rejectParams(spec.name, params); err != nil {
			return nil, err
		}
		return &remover{
			name:    spec.name,
			kind:    spec.kind,
			removes: spec.removes,
			suffix:  spec.suffix,
		}, nil
	}
	return caps, credits, newFn
}
