package engine

import (
	"testing"
)

func TestProblemKindSupports(t *testing.T) {
	tests := []struct {
		name     string
		engine   ProblemKind
		problem  ProblemKind
		expected bool
	}{
		{
			name:     "empty problem is always supported",
			engine:   NewProblemKind(FeatureActionBased),
			problem:  NewProblemKind(),
			expected: true,
		},
		{
			name:     "subset is supported",
			engine:   NewProblemKind(FeatureActionBased, FeatureNegativeConditions, FeatureConditionalEffects),
			problem:  NewProblemKind(FeatureActionBased, FeatureNegativeConditions),
			expected: true,
		},
		{
			name:     "equal sets are supported",
			engine:   NewProblemKind(FeatureActionBased),
			problem:  NewProblemKind(FeatureActionBased),
			expected: true,
		},
		{
			name:     "missing feature is not supported",
			engine:   NewProblemKind(FeatureActionBased),
			problem:  NewProblemKind(FeatureActionBased, FeatureContinuousTime),
			expected: false,
		},
		{
			name:     "empty engine supports nothing but empty",
			engine:   NewProblemKind(),
			problem:  NewProblemKind(FeatureActionBased),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.engine.Supports(tt.problem); got != tt.expected {
				t.Errorf("Expected Supports=%v, got %v", tt.expected, got)
			}
		})
	}
}

func TestProblemKindWithWithoutImmutable(t *testing.T) {
	base := NewProblemKind(FeatureActionBased, FeatureNegativeConditions)

	extended := base.With(FeatureConditionalEffects)
	if !extended.Has(FeatureConditionalEffects) {
		t.Error("Expected extended kind to have CONDITIONAL_EFFECTS")
	}
	if base.Has(FeatureConditionalEffects) {
		t.Error("Expected base kind to be unchanged by With")
	}

	reduced := extended.Without(FeatureNegativeConditions)
	if reduced.Has(FeatureNegativeConditions) {
		t.Error("Expected reduced kind to lack NEGATIVE_CONDITIONS")
	}
	if !extended.Has(FeatureNegativeConditions) {
		t.Error("Expected extended kind to be unchanged by Without")
	}
}

func TestProblemKindFeaturesSorted(t *testing.T) {
	kind := NewProblemKind(FeatureUniversalConditions, FeatureActionBased, FeatureNegativeConditions)
	features := kind.Features()

	if len(features) != 3 {
		t.Fatalf("Expected 3 features, got %d", len(features))
	}
	for i := 1; i < len(features); i++ {
		if features[i-1] >= features[i] {
			t.Errorf("Expected sorted features, got %v", features)
		}
	}
}

func TestProblemKindUnionEqual(t *testing.T) {
	a := NewProblemKind(FeatureActionBased, FeatureNegativeConditions)
	b := NewProblemKind(FeatureNegativeConditions, FeatureDisjunctiveConditions)

	u := a.Union(b)
	if u.Len() != 3 {
		t.Errorf("Expected union of 3 features, got %d", u.Len())
	}

	if !a.Equal(NewProblemKind(FeatureNegativeConditions, FeatureActionBased)) {
		t.Error("Expected order-independent equality")
	}
	if a.Equal(b) {
		t.Error("Expected different kinds to be unequal")
	}
}

func TestProfileCapabilities(t *testing.T) {
	p := Profile{
		Modes:        []OperationMode{ModeOneshotPlanner, ModeReplanner},
		Kind:         NewProblemKind(FeatureActionBased),
		Optimality:   []OptimalityGuarantee{Satisficing},
		Compilations: []CompilationKind{Grounding},
		Plans:        []PlanKind{SequentialPlan},
	}

	if !p.HasMode(ModeOneshotPlanner) {
		t.Error("Expected oneshot_planner mode")
	}
	if p.HasMode(ModeCompiler) {
		t.Error("Expected compiler mode to be absent")
	}
	if !p.Satisfies(Satisficing) {
		t.Error("Expected SATISFICING to be satisfied")
	}
	if p.Satisfies(SolvedOptimally) {
		t.Error("Expected SOLVED_OPTIMALLY not to be satisfied")
	}
	if !p.SupportsCompilation(Grounding) {
		t.Error("Expected GROUNDING compilation")
	}
	if !p.SupportsPlan(SequentialPlan) {
		t.Error("Expected SEQUENTIAL_PLAN support")
	}
	if p.SupportsPlan(TimeTriggeredPlan) {
		t.Error("Expected TIME_TRIGGERED_PLAN not to be supported")
	}
}
