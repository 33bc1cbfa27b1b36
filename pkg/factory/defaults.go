package factory

// builtinModule is the import path of the engines shipped with this
// repository.
const builtinModule = "github.com/openplan/openplan/pkg/engines/builtin"

// defaultEngines are the engines registered best-effort at factory
// construction. Entries whose ref is absent from the catalog (planners
// distributed separately and possibly not installed) are skipped silently.
var defaultEngines = []Instruction{
	{Name: "fast-downward", Ref: Ref{Module: "github.com/openplan/up-fast-downward", Symbol: "Planner"}},
	{Name: "fast-downward-opt", Ref: Ref{Module: "github.com/openplan/up-fast-downward", Symbol: "OptimalPlanner"}},
	{Name: "pyperplan", Ref: Ref{Module: "github.com/openplan/up-pyperplan", Symbol: "Planner"}},
	{Name: "pyperplan-opt", Ref: Ref{Module: "github.com/openplan/up-pyperplan", Symbol: "OptimalPlanner"}},
	{Name: "enhsp", Ref: Ref{Module: "github.com/openplan/up-enhsp", Symbol: "SatPlanner"}},
	{Name: "enhsp-opt", Ref: Ref{Module: "github.com/openplan/up-enhsp", Symbol: "OptPlanner"}},
	{Name: "tamer", Ref: Ref{Module: "github.com/openplan/up-tamer", Symbol: "Planner"}},
	{Name: "sequential_plan_validator", Ref: Ref{Module: builtinModule, Symbol: "SequentialPlanValidator"}},
	{Name: "sequential_simulator", Ref: Ref{Module: builtinModule, Symbol: "SequentialSimulator"}},
	{Name: "up_conditional_effects_remover", Ref: Ref{Module: builtinModule, Symbol: "ConditionalEffectsRemover"}},
	{Name: "up_disjunctive_conditions_remover", Ref: Ref{Module: builtinModule, Symbol: "DisjunctiveConditionsRemover"}},
	{Name: "up_negative_conditions_remover", Ref: Ref{Module: builtinModule, Symbol: "NegativeConditionsRemover"}},
	{Name: "up_quantifiers_remover", Ref: Ref{Module: builtinModule, Symbol: "QuantifiersRemover"}},
	{Name: "fast-downward-grounder", Ref: Ref{Module: "github.com/openplan/up-fast-downward", Symbol: "Grounder"}},
	{Name: "up_grounder", Ref: Ref{Module: builtinModule, Symbol: "Grounder"}},
}

// defaultMetaEngines are the meta-engines composed best-effort against
// every registered engine at construction.
var defaultMetaEngines = []Instruction{
	{Name: "oversubscription", Ref: Ref{Module: builtinModule, Symbol: "OversubscriptionPlanner"}},
	{Name: "replanner", Ref: Ref{Module: builtinModule, Symbol: "Replanner"}},
}

// defaultPreferenceOrder is the recommended resolution order; the effective
// preference list keeps only the names actually registered.
var defaultPreferenceOrder = []string{
	"fast-downward",
	"fast-downward-opt",
	"pyperplan",
	"pyperplan-opt",
	"enhsp",
	"enhsp-opt",
	"tamer",
	"sequential_plan_validator",
	"sequential_simulator",
	"up_conditional_effects_remover",
	"up_disjunctive_conditions_remover",
	"up_negative_conditions_remover",
	"up_quantifiers_remover",
	"fast-downward-grounder",
	"up_grounder",
}

// defaultMetaPreferenceOrder fixes the relative order in which composed
// engine names are appended to the preference list.
var defaultMetaPreferenceOrder = []string{
	"oversubscription",
	"replanner",
}
