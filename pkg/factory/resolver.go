package factory

import (
	"fmt"

	"github.com/openplan/openplan/pkg/engine"
)

// guarantees carries the (at most one) guarantee dimension of a request.
type guarantees struct {
	optimality  *engine.OptimalityGuarantee
	anytime     *engine.AnytimeGuarantee
	compilation *engine.CompilationKind
	planKind    *engine.PlanKind
}

func (g guarantees) count() int {
	n := 0
	if g.optimality != nil {
		n++
	}
	if g.anytime != nil {
		n++
	}
	if g.compilation != nil {
		n++
	}
	if g.planKind != nil {
		n++
	}
	return n
}

func (g guarantees) describe() string {
	switch {
	case g.optimality != nil:
		return string(*g.optimality)
	case g.anytime != nil:
		return string(*g.anytime)
	case g.compilation != nil:
		return string(*g.compilation)
	case g.planKind != nil:
		return string(*g.planKind)
	}
	return ""
}

// checkGuarantees enforces the caller contract: at most one guarantee
// dimension, and that dimension must belong to the requested mode. These
// are caller errors, reported eagerly with no recovery.
func checkGuarantees(mode engine.OperationMode, g guarantees) error {
	if g.count() > 1 {
		return NewContractError("at most one guarantee dimension may be given per request")
	}
	var allowed bool
	switch mode {
	case engine.ModeOneshotPlanner, engine.ModeReplanner, engine.ModePortfolioSelector:
		allowed = g.anytime == nil && g.compilation == nil && g.planKind == nil
	case engine.ModeAnytimePlanner:
		allowed = g.optimality == nil && g.compilation == nil && g.planKind == nil
	case engine.ModePlanValidator:
		allowed = g.optimality == nil && g.anytime == nil && g.compilation == nil
	case engine.ModeCompiler:
		allowed = g.optimality == nil && g.anytime == nil && g.planKind == nil
	default:
		allowed = g.count() == 0
	}
	if !allowed {
		return NewContractError(fmt.Sprintf(
			"guarantee %q does not belong to operation mode %q", g.describe(), mode))
	}
	return nil
}

// accepts applies the mode's guarantee predicate to a candidate.
func accepts(caps engine.Capabilities, g guarantees) bool {
	switch {
	case g.optimality != nil:
		return caps.Satisfies(*g.optimality)
	case g.anytime != nil:
		return caps.Ensures(*g.anytime)
	case g.compilation != nil:
		return caps.SupportsCompilation(*g.compilation)
	case g.planKind != nil:
		return caps.SupportsPlan(*g.planKind)
	}
	return true
}

// resolve selects the engine for a request. An explicit name is
// authoritative: it bypasses capability and guarantee filtering entirely
// and fails only when the name is absent. Otherwise the preference list is
// walked in order and the first engine passing every check wins; order is a
// priority, not a quality ranking.
func (f *Factory) resolve(mode engine.OperationMode, name string, kind engine.ProblemKind, g guarantees) (*Descriptor, error) {
	if name != "" {
		d, ok := f.engines[name]
		if !ok {
			return nil, NewNotFoundError(name)
		}
		return d, nil
	}

	if err := checkGuarantees(mode, g); err != nil {
		return nil, err
	}

	features := kind.Features()
	var rows []SupportRow
	for _, candidate := range f.preferences {
		d, ok := f.engines[candidate]
		if !ok {
			// Stale preference entries are tolerated, never an error.
			continue
		}
		caps := d.Capabilities()
		if !caps.HasMode(mode) {
			continue
		}
		if !accepts(caps, g) {
			continue
		}
		if caps.Supports(kind) {
			return d, nil
		}
		// Record per-feature support for the diagnostic table.
		row := SupportRow{Engine: candidate, Support: make([]bool, len(features))}
		for i, ft := range features {
			row.Support[i] = caps.Supports(engine.NewProblemKind(ft))
		}
		rows = append(rows, row)
	}

	if len(rows) > 0 {
		table := &SupportTable{Features: features, Rows: rows}
		return nil, NewNoSuitableEngineError(
			"no available engine supports all the problem features", mode, table)
	}
	if desc := g.describe(); desc != "" {
		return nil, NewNoSuitableEngineError(
			fmt.Sprintf("no available engine supports %s", desc), mode, nil)
	}
	return nil, NewNoSuitableEngineError(
		fmt.Sprintf("no available %s engine", mode), mode, nil)
}
