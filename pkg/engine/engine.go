package engine

import "context"

// Problem is the opaque contract for a planning problem. The problem
// representation itself is owned by the caller; the engine system only
// needs its name and declared feature set.
type Problem interface {
	// Name returns a human-readable problem identifier.
	Name() string

	// Kind returns the features the problem actually uses.
	Kind() ProblemKind
}

// Plan is the opaque contract for a plan.
type Plan interface {
	// Kind returns the structural kind of the plan.
	Kind() PlanKind
}

// Engine is the minimal contract every backend instance satisfies.
type Engine interface {
	// Name returns the engine's registered name.
	Name() string
}

// PlanGenerationStatus classifies the outcome of a planning attempt.
type PlanGenerationStatus string

const (
	StatusSolvedSatisficing      PlanGenerationStatus = "SOLVED_SATISFICING"
	StatusSolvedOptimally        PlanGenerationStatus = "SOLVED_OPTIMALLY"
	StatusUnsolvableProven       PlanGenerationStatus = "UNSOLVABLE_PROVEN"
	StatusUnsolvableIncompletely PlanGenerationStatus = "UNSOLVABLE_INCOMPLETELY"
	StatusTimeout                PlanGenerationStatus = "TIMEOUT"
	StatusMemout                 PlanGenerationStatus = "MEMOUT"
	StatusInternalError          PlanGenerationStatus = "INTERNAL_ERROR"
	StatusIntermediate           PlanGenerationStatus = "INTERMEDIATE"
)

// Solved reports whether the status carries a usable plan.
func (s PlanGenerationStatus) Solved() bool {
	return s == StatusSolvedSatisficing || s == StatusSolvedOptimally || s == StatusIntermediate
}

// PlanResult is the outcome of a planning attempt.
type PlanResult struct {
	// Status classifies the outcome.
	Status PlanGenerationStatus

	// Plan is the produced plan; nil unless Status.Solved().
	Plan Plan

	// EngineName is the name of the engine that produced the result.
	EngineName string

	// Metrics holds engine-specific run statistics.
	Metrics map[string]string
}

// ValidationResult is the outcome of checking a plan against a problem.
type ValidationResult struct {
	// Valid reports whether the plan is valid for the problem.
	Valid bool

	// Reason explains an invalid result.
	Reason string

	// EngineName is the name of the validating engine.
	EngineName string
}

// CompilationResult is the outcome of a problem transformation.
type CompilationResult struct {
	// Problem is the transformed problem.
	Problem Problem

	// EngineName is the name of the compiling engine.
	EngineName string
}

// SimulationResult is the outcome of simulating a plan on a problem.
type SimulationResult struct {
	// Completed reports whether the whole plan was applicable.
	Completed bool

	// FailedActionIndex is the index of the first inapplicable action,
	// or -1 when Completed.
	FailedActionIndex int

	// EngineName is the name of the simulating engine.
	EngineName string
}

// PortfolioEntry is one planner pick of a portfolio selector.
type PortfolioEntry struct {
	// Name is the planner's registered name.
	Name string

	// Params are planner-specific options for this pick.
	Params map[string]string
}

// OneshotPlanner produces a single plan for a problem.
type OneshotPlanner interface {
	Engine
	Solve(ctx context.Context, problem Problem) (*PlanResult, error)
}

// AnytimePlanner produces a stream of plans. The channel is closed when the
// engine stops producing; cancellation of ctx stops the stream.
type AnytimePlanner interface {
	Engine
	Solutions(ctx context.Context, problem Problem) (<-chan *PlanResult, error)
}

// PlanValidator checks a plan against a problem.
type PlanValidator interface {
	Engine
	Validate(ctx context.Context, problem Problem, plan Plan) (*ValidationResult, error)
}

// Compiler transforms a problem into an equivalent one with a different
// feature set. ResultingKind is a pure function over declared kinds and must
// be callable without a concrete problem; pipeline construction threads it
// through the stages.
type Compiler interface {
	Engine
	Compile(ctx context.Context, problem Problem, kind CompilationKind) (*CompilationResult, error)
	ResultingKind(kind ProblemKind, compilation CompilationKind) ProblemKind
}

// Simulator simulates plan execution on a problem.
type Simulator interface {
	Engine
	Simulate(ctx context.Context, problem Problem, plan Plan) (*SimulationResult, error)
}

// Replanner solves a problem and can re-solve it after the problem changes.
type Replanner interface {
	Engine
	Replan(ctx context.Context, problem Problem) (*PlanResult, error)
}

// PortfolioSelector picks up to maxEngines planners suited to a problem.
type PortfolioSelector interface {
	Engine
	Select(ctx context.Context, problem Problem, maxEngines int) ([]PortfolioEntry, error)
}
