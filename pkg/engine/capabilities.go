package engine

// Capabilities is the set of predicates an engine declares about itself.
// Resolution only ever calls these predicates; it never inspects guarantee
// values structurally, so an engine is free to implement them however it
// wants (a lookup table, a computation over a wrapped engine, ...).
type Capabilities interface {
	// HasMode reports whether the engine implements the given operation mode.
	HasMode(mode OperationMode) bool

	// SupportedKind returns the maximal problem kind the engine handles.
	SupportedKind() ProblemKind

	// Supports reports whether the engine handles every feature of the
	// given problem kind.
	Supports(kind ProblemKind) bool

	// Satisfies reports whether the engine guarantees the given optimality.
	Satisfies(guarantee OptimalityGuarantee) bool

	// Ensures reports whether the engine guarantees the given anytime behavior.
	Ensures(guarantee AnytimeGuarantee) bool

	// SupportsCompilation reports whether the engine performs the given
	// problem transformation.
	SupportsCompilation(kind CompilationKind) bool

	// SupportsPlan reports whether the engine handles plans of the given kind.
	SupportsPlan(kind PlanKind) bool
}

// Profile is a structural Capabilities implementation for engines whose
// declarations are plain sets. The zero value declares nothing.
type Profile struct {
	// Modes lists the operation modes the engine implements.
	Modes []OperationMode

	// Kind is the maximal problem kind the engine handles.
	Kind ProblemKind

	// Optimality lists the optimality guarantees the engine satisfies.
	Optimality []OptimalityGuarantee

	// Anytime lists the anytime guarantees the engine ensures.
	Anytime []AnytimeGuarantee

	// Compilations lists the transformations the engine performs.
	Compilations []CompilationKind

	// Plans lists the plan kinds the engine handles.
	Plans []PlanKind
}

// HasMode implements Capabilities.
func (p Profile) HasMode(mode OperationMode) bool {
	for _, m := range p.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// SupportedKind implements Capabilities.
func (p Profile) SupportedKind() ProblemKind {
	return p.Kind
}

// Supports implements Capabilities.
func (p Profile) Supports(kind ProblemKind) bool {
	return p.Kind.Supports(kind)
}

// Satisfies implements Capabilities.
func (p Profile) Satisfies(guarantee OptimalityGuarantee) bool {
	for _, g := range p.Optimality {
		if g == guarantee {
			return true
		}
	}
	return false
}

// Ensures implements Capabilities.
func (p Profile) Ensures(guarantee AnytimeGuarantee) bool {
	for _, g := range p.Anytime {
		if g == guarantee {
			return true
		}
	}
	return false
}

// SupportsCompilation implements Capabilities.
func (p Profile) SupportsCompilation(kind CompilationKind) bool {
	for _, k := range p.Compilations {
		if k == kind {
			return true
		}
	}
	return false
}

// SupportsPlan implements Capabilities.
func (p Profile) SupportsPlan(kind PlanKind) bool {
	for _, k := range p.Plans {
		if k == kind {
			return true
		}
	}
	return false
}
