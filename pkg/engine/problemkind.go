package engine

import (
	"sort"
	"strings"
)

// Feature is a named flag describing one aspect of a planning problem's
// expressiveness.
type Feature string

// Problem features. An engine declares the maximal set it handles; a problem
// declares the set it actually uses.
const (
	FeatureActionBased           Feature = "ACTION_BASED"
	FeatureFlatTyping            Feature = "FLAT_TYPING"
	FeatureHierarchicalTyping    Feature = "HIERARCHICAL_TYPING"
	FeatureNegativeConditions    Feature = "NEGATIVE_CONDITIONS"
	FeatureDisjunctiveConditions Feature = "DISJUNCTIVE_CONDITIONS"
	FeatureEqualities            Feature = "EQUALITIES"
	FeatureExistentialConditions Feature = "EXISTENTIAL_CONDITIONS"
	FeatureUniversalConditions   Feature = "UNIVERSAL_CONDITIONS"
	FeatureConditionalEffects    Feature = "CONDITIONAL_EFFECTS"
	FeatureIncreaseEffects       Feature = "INCREASE_EFFECTS"
	FeatureDecreaseEffects       Feature = "DECREASE_EFFECTS"
	FeatureContinuousNumbers     Feature = "CONTINUOUS_NUMBERS"
	FeatureDiscreteNumbers       Feature = "DISCRETE_NUMBERS"
	FeatureContinuousTime        Feature = "CONTINUOUS_TIME"
	FeatureDiscreteTime          Feature = "DISCRETE_TIME"
	FeatureDurationInequalities  Feature = "DURATION_INEQUALITIES"
	FeatureTimedEffects          Feature = "TIMED_EFFECTS"
	FeatureTimedGoals            Feature = "TIMED_GOALS"
	FeatureActionsCost           Feature = "ACTIONS_COST"
	FeaturePlanLength            Feature = "PLAN_LENGTH"
	FeatureOversubscription      Feature = "OVERSUBSCRIPTION"
	FeatureFinalValue            Feature = "FINAL_VALUE"
	FeatureSimulatedEffects      Feature = "SIMULATED_EFFECTS"
)

// ProblemKind is an immutable, unordered set of problem features.
// The zero value is the empty kind.
type ProblemKind struct {
	features map[Feature]struct{}
}

// NewProblemKind builds a kind from the given features.
func NewProblemKind(features ...Feature) ProblemKind {
	k := ProblemKind{features: make(map[Feature]struct{}, len(features))}
	for _, f := range features {
		k.features[f] = struct{}{}
	}
	return k
}

// Has reports whether the kind contains the feature.
func (k ProblemKind) Has(f Feature) bool {
	_, ok := k.features[f]
	return ok
}

// Supports reports whether every feature of required is present in k.
// An empty required kind is supported by every kind.
func (k ProblemKind) Supports(required ProblemKind) bool {
	for f := range required.features {
		if _, ok := k.features[f]; !ok {
			return false
		}
	}
	return true
}

// Features returns the features in sorted order.
func (k ProblemKind) Features() []Feature {
	fs := make([]Feature, 0, len(k.features))
	for f := range k.features {
		fs = append(fs, f)
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i] < fs[j] })
	return fs
}

// Len returns the number of features in the kind.
func (k ProblemKind) Len() int {
	return len(k.features)
}

// IsEmpty reports whether the kind declares no features.
func (k ProblemKind) IsEmpty() bool {
	return len(k.features) == 0
}

// With returns a copy of the kind with the given features added.
func (k ProblemKind) With(features ...Feature) ProblemKind {
	out := ProblemKind{features: make(map[Feature]struct{}, len(k.features)+len(features))}
	for f := range k.features {
		out.features[f] = struct{}{}
	}
	for _, f := range features {
		out.features[f] = struct{}{}
	}
	return out
}

// Without returns a copy of the kind with the given features removed.
func (k ProblemKind) Without(features ...Feature) ProblemKind {
	out := ProblemKind{features: make(map[Feature]struct{}, len(k.features))}
	for f := range k.features {
		out.features[f] = struct{}{}
	}
	for _, f := range features {
		delete(out.features, f)
	}
	return out
}

// Union returns the kind containing the features of both k and other.
func (k ProblemKind) Union(other ProblemKind) ProblemKind {
	out := ProblemKind{features: make(map[Feature]struct{}, len(k.features)+len(other.features))}
	for f := range k.features {
		out.features[f] = struct{}{}
	}
	for f := range other.features {
		out.features[f] = struct{}{}
	}
	return out
}

// Equal reports whether both kinds contain exactly the same features.
func (k ProblemKind) Equal(other ProblemKind) bool {
	return len(k.features) == len(other.features) && k.Supports(other)
}

// String renders the kind as a sorted, comma-separated feature list.
func (k ProblemKind) String() string {
	fs := k.Features()
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = string(f)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
