package engine

// OptimalityGuarantee is the quality promise of a plan-producing engine.
// It is meaningful for the oneshot planner, replanner and portfolio selector
// modes only.
type OptimalityGuarantee string

const (
	// Satisficing promises a valid plan with no quality bound.
	Satisficing OptimalityGuarantee = "SATISFICING"

	// SolvedOptimally promises an optimal plan with respect to the
	// problem's quality metric.
	SolvedOptimally OptimalityGuarantee = "SOLVED_OPTIMALLY"
)

// AnytimeGuarantee describes the progression of plans emitted by an anytime
// planner.
type AnytimeGuarantee string

const (
	// IncreasingQuality promises that every emitted plan is strictly
	// better than the previous one.
	IncreasingQuality AnytimeGuarantee = "INCREASING_QUALITY"

	// OptimalPlans promises that every emitted plan is optimal.
	OptimalPlans AnytimeGuarantee = "OPTIMAL_PLANS"
)

// CompilationKind identifies a problem transformation a compiler engine can
// perform.
type CompilationKind string

const (
	Grounding                     CompilationKind = "GROUNDING"
	ConditionalEffectsRemoving    CompilationKind = "CONDITIONAL_EFFECTS_REMOVING"
	DisjunctiveConditionsRemoving CompilationKind = "DISJUNCTIVE_CONDITIONS_REMOVING"
	NegativeConditionsRemoving    CompilationKind = "NEGATIVE_CONDITIONS_REMOVING"
	QuantifiersRemoving           CompilationKind = "QUANTIFIERS_REMOVING"
	UsertypeFluentsRemoving       CompilationKind = "USERTYPE_FLUENTS_REMOVING"
)

// PlanKind identifies the structure of a plan, used by validators to declare
// which plan representations they can check.
type PlanKind string

const (
	SequentialPlan    PlanKind = "SEQUENTIAL_PLAN"
	TimeTriggeredPlan PlanKind = "TIME_TRIGGERED_PLAN"
	PartialOrderPlan  PlanKind = "PARTIAL_ORDER_PLAN"
	ContingentPlan    PlanKind = "CONTINGENT_PLAN"
	STNPlan           PlanKind = "STN_PLAN"
	HierarchicalPlan  PlanKind = "HIERARCHICAL_PLAN"
)
