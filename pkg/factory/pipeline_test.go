package factory

import (
	"context"
	"reflect"
	"testing"

	"github.com/openplan/openplan/pkg/engine"
)

func TestPipelineStageKindThreading(t *testing.T) {
	f := newTestFactory(t)

	// 'dcr' only handles problems without negative conditions; the second
	// stage is resolvable only because the first one strips them.
	kind := engine.NewProblemKind(
		engine.FeatureActionBased,
		engine.FeatureNegativeConditions,
		engine.FeatureDisjunctiveConditions)
	c, err := f.Compiler(context.Background(),
		WithProblemKind(kind),
		WithCompilationKinds(engine.NegativeConditionsRemoving, engine.DisjunctiveConditionsRemoving))
	if err != nil {
		t.Fatalf("Compiler returned error: %v", err)
	}

	pipe, ok := c.(*Pipeline)
	if !ok {
		t.Fatalf("Expected *Pipeline, got %T", c)
	}
	if pipe.Name() != "compilers_pipeline" {
		t.Errorf("Expected name 'compilers_pipeline', got '%s'", pipe.Name())
	}
	if got := pipe.StageNames(); !reflect.DeepEqual(got, []string{"ncr", "dcr"}) {
		t.Errorf("Expected stages [ncr dcr], got %v", got)
	}
	if !pipe.KindIn().Equal(kind) {
		t.Errorf("Expected input kind %v, got %v", kind, pipe.KindIn())
	}
	want := engine.NewProblemKind(engine.FeatureActionBased)
	if !pipe.KindOut().Equal(want) {
		t.Errorf("Expected output kind %v, got %v", want, pipe.KindOut())
	}
}

func TestPipelineCompileThreadsProblem(t *testing.T) {
	f := newTestFactory(t)

	kind := engine.NewProblemKind(
		engine.FeatureActionBased,
		engine.FeatureNegativeConditions,
		engine.FeatureDisjunctiveConditions)
	c, err := f.Compiler(context.Background(),
		WithProblemKind(kind),
		WithCompilationKinds(engine.NegativeConditionsRemoving, engine.DisjunctiveConditionsRemoving))
	if err != nil {
		t.Fatalf("Compiler returned error: %v", err)
	}

	res, err := c.Compile(context.Background(),
		fakeProblem{name: "p", kind: kind}, engine.NegativeConditionsRemoving)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if got := res.Problem.Name(); got != "p_ncr_dcr" {
		t.Errorf("Expected problem name 'p_ncr_dcr', got '%s'", got)
	}
	want := engine.NewProblemKind(engine.FeatureActionBased)
	if !res.Problem.Kind().Equal(want) {
		t.Errorf("Expected compiled kind %v, got %v", want, res.Problem.Kind())
	}
	if res.EngineName != "compilers_pipeline" {
		t.Errorf("Expected engine name 'compilers_pipeline', got '%s'", res.EngineName)
	}
}

func TestPipelineResultingKindIgnoresArgument(t *testing.T) {
	f := newTestFactory(t)

	kind := engine.NewProblemKind(
		engine.FeatureActionBased,
		engine.FeatureNegativeConditions,
		engine.FeatureDisjunctiveConditions)
	c, err := f.Compiler(context.Background(),
		WithProblemKind(kind),
		WithCompilationKinds(engine.NegativeConditionsRemoving, engine.DisjunctiveConditionsRemoving))
	if err != nil {
		t.Fatalf("Compiler returned error: %v", err)
	}

	// The argument names a single transformation but the configured stage
	// kinds apply regardless.
	got := c.ResultingKind(kind, engine.QuantifiersRemoving)
	want := engine.NewProblemKind(engine.FeatureActionBased)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestPipelinePinnedStages(t *testing.T) {
	f := newTestFactory(t)

	kind := engine.NewProblemKind(
		engine.FeatureActionBased,
		engine.FeatureNegativeConditions,
		engine.FeatureDisjunctiveConditions)
	c, err := f.Compiler(context.Background(),
		WithProblemKind(kind),
		WithNames("ncr", "dcr"),
		WithCompilationKinds(engine.NegativeConditionsRemoving, engine.DisjunctiveConditionsRemoving))
	if err != nil {
		t.Fatalf("Compiler returned error: %v", err)
	}

	pipe := c.(*Pipeline)
	if got := pipe.StageNames(); !reflect.DeepEqual(got, []string{"ncr", "dcr"}) {
		t.Errorf("Expected pinned stages [ncr dcr], got %v", got)
	}
}

func TestPipelineNamesLengthMismatch(t *testing.T) {
	f := newTestFactory(t)

	_, err := f.Compiler(context.Background(),
		WithNames("ncr"),
		WithCompilationKinds(engine.NegativeConditionsRemoving, engine.DisjunctiveConditionsRemoving))
	if err == nil {
		t.Fatal("Expected contract violation, got nil")
	}
	if !IsContractViolation(err) {
		t.Errorf("Expected contract violation, got %v", err)
	}
}

func TestPipelineNamesWithoutKinds(t *testing.T) {
	f := newTestFactory(t)

	_, err := f.Compiler(context.Background(), WithNames("ncr", "dcr"))
	if err == nil {
		t.Fatal("Expected contract violation, got nil")
	}
	if !IsContractViolation(err) {
		t.Errorf("Expected contract violation, got %v", err)
	}
}

func TestPipelineFailsFastOnUnsatisfiableStage(t *testing.T) {
	f := newTestFactory(t)

	// No registered compiler performs quantifier removal.
	kind := engine.NewProblemKind(engine.FeatureActionBased, engine.FeatureExistentialConditions)
	_, err := f.Compiler(context.Background(),
		WithProblemKind(kind),
		WithCompilationKinds(engine.QuantifiersRemoving))
	if err == nil {
		t.Fatal("Expected no-suitable-engine error, got nil")
	}
	if !IsNoSuitableEngine(err) {
		t.Errorf("Expected no-suitable-engine error, got %v", err)
	}
}

func TestPipelineOrderMatters(t *testing.T) {
	f := newTestFactory(t)

	// Running disjunctive removal first fails: 'dcr' cannot handle negative
	// conditions and nothing else performs the transformation.
	kind := engine.NewProblemKind(
		engine.FeatureActionBased,
		engine.FeatureNegativeConditions,
		engine.FeatureDisjunctiveConditions)
	_, err := f.Compiler(context.Background(),
		WithProblemKind(kind),
		WithCompilationKinds(engine.DisjunctiveConditionsRemoving, engine.NegativeConditionsRemoving))
	if err == nil {
		t.Fatal("Expected no-suitable-engine error, got nil")
	}
	if !IsNoSuitableEngine(err) {
		t.Errorf("Expected no-suitable-engine error, got %v", err)
	}
}

func TestPipelineCancelledContext(t *testing.T) {
	f := newTestFactory(t)

	c, err := f.Compiler(context.Background(),
		WithProblemKind(engine.NewProblemKind(engine.FeatureActionBased, engine.FeatureNegativeConditions, engine.FeatureDisjunctiveConditions)),
		WithCompilationKinds(engine.NegativeConditionsRemoving))
	if err != nil {
		t.Fatalf("Compiler returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Compile(ctx, fakeProblem{name: "p"}, engine.NegativeConditionsRemoving)
	if err == nil {
		t.Fatal("Expected error from cancelled context, got nil")
	}
}
