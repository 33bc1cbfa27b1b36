package engine

// OperationMode identifies a category of service an engine may implement.
// An engine declares, per mode, whether it implements that mode; a single
// engine may implement several.
type OperationMode string

const (
	// ModeOneshotPlanner produces a single plan for a problem.
	ModeOneshotPlanner OperationMode = "oneshot_planner"

	// ModeAnytimePlanner produces a stream of plans of (possibly) increasing quality.
	ModeAnytimePlanner OperationMode = "anytime_planner"

	// ModePlanValidator checks a plan against a problem.
	ModePlanValidator OperationMode = "plan_validator"

	// ModeCompiler transforms a problem into an equivalent problem with a
	// different feature set.
	ModeCompiler OperationMode = "compiler"

	// ModeSimulator simulates plan execution on a problem.
	ModeSimulator OperationMode = "simulator"

	// ModeReplanner solves a problem and re-solves it after updates.
	ModeReplanner OperationMode = "replanner"

	// ModePortfolioSelector picks a portfolio of planners for a problem.
	ModePortfolioSelector OperationMode = "portfolio_selector"
)

// Modes lists every operation mode in a fixed order.
func Modes() []OperationMode {
	return []OperationMode{
		ModeOneshotPlanner,
		ModeAnytimePlanner,
		ModePlanValidator,
		ModeCompiler,
		ModeSimulator,
		ModeReplanner,
		ModePortfolioSelector,
	}
}

// Valid reports whether m is one of the known operation modes.
func (m OperationMode) Valid() bool {
	switch m {
	case ModeOneshotPlanner, ModeAnytimePlanner, ModePlanValidator,
		ModeCompiler, ModeSimulator, ModeReplanner, ModePortfolioSelector:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (m OperationMode) String() string {
	return string(m)
}
