package builtin_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/openplan/openplan/pkg/engine"
	"github.com/openplan/openplan/pkg/engines/builtin"
	"github.com/openplan/openplan/pkg/factory"
)

// testProblem declares a kind and nothing else.
type testProblem struct {
	name string
	kind engine.ProblemKind
}

func (p testProblem) Name() string             { return p.name }
func (p testProblem) Kind() engine.ProblemKind { return p.kind }

type testPlan struct {
	kind engine.PlanKind
}

func (p testPlan) Kind() engine.PlanKind { return p.kind }

// stubPlanner is a oneshot planner used as a composition base.
type stubPlanner struct {
	name   string
	status engine.PlanGenerationStatus
	seen   engine.ProblemKind
}

func (p *stubPlanner) Name() string { return p.name }

func (p *stubPlanner) Solve(ctx context.Context, problem engine.Problem) (*engine.PlanResult, error) {
	p.seen = problem.Kind()
	return &engine.PlanResult{
		Status:     p.status,
		Plan:       testPlan{kind: engine.SequentialPlan},
		EngineName: p.name,
	}, nil
}

func classicalProblem(name string) testProblem {
	return testProblem{
		name: name,
		kind: engine.NewProblemKind(engine.FeatureActionBased, engine.FeatureNegativeConditions),
	}
}

func TestFactoryBootstrap(t *testing.T) {
	f := factory.New(builtin.Catalog())

	want := []string{
		"sequential_plan_validator",
		"sequential_simulator",
		"up_conditional_effects_remover",
		"up_disjunctive_conditions_remover",
		"up_negative_conditions_remover",
		"up_quantifiers_remover",
		"up_grounder",
	}
	if got := f.PreferenceList(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected preference list %v, got %v", want, got)
	}
	for _, name := range want {
		if !f.HasEngine(name) {
			t.Errorf("Expected engine '%s' to be registered", name)
		}
	}
}

func TestValidatorResolvesAsDefault(t *testing.T) {
	f := factory.New(builtin.Catalog())

	v, err := f.PlanValidator(context.Background(),
		factory.WithPlanKind(engine.SequentialPlan))
	if err != nil {
		t.Fatalf("PlanValidator returned error: %v", err)
	}
	if v.Name() != "sequential_plan_validator" {
		t.Errorf("Expected 'sequential_plan_validator', got '%s'", v.Name())
	}
}

func TestValidatorAnswers(t *testing.T) {
	f := factory.New(builtin.Catalog())
	v, err := f.PlanValidator(context.Background())
	if err != nil {
		t.Fatalf("PlanValidator returned error: %v", err)
	}

	tests := []struct {
		name  string
		plan  engine.Plan
		valid bool
	}{
		{
			name:  "sequential plan accepted",
			plan:  testPlan{kind: engine.SequentialPlan},
			valid: true,
		},
		{
			name:  "time triggered plan rejected",
			plan:  testPlan{kind: engine.TimeTriggeredPlan},
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.Validate(context.Background(), classicalProblem("p"), tt.plan)
			if err != nil {
				t.Fatalf("Validate returned error: %v", err)
			}
			if res.Valid != tt.valid {
				t.Errorf("Expected valid=%t, got %t (%s)", tt.valid, res.Valid, res.Reason)
			}
		})
	}
}

func TestValidatorRejectsNilPlan(t *testing.T) {
	f := factory.New(builtin.Catalog())
	v, err := f.PlanValidator(context.Background())
	if err != nil {
		t.Fatalf("PlanValidator returned error: %v", err)
	}

	if _, err := v.Validate(context.Background(), classicalProblem("p"), nil); err == nil {
		t.Error("Expected error for nil plan, got nil")
	}
}

func TestValidatorOutOfScopeProblem(t *testing.T) {
	f := factory.New(builtin.Catalog())
	v, err := f.PlanValidator(context.Background())
	if err != nil {
		t.Fatalf("PlanValidator returned error: %v", err)
	}

	problem := testProblem{
		name: "temporal",
		kind: engine.NewProblemKind(engine.FeatureActionBased, engine.FeatureContinuousTime),
	}
	res, err := v.Validate(context.Background(), problem, testPlan{kind: engine.SequentialPlan})
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if res.Valid {
		t.Error("Expected out-of-scope problem to be rejected")
	}
}

func TestSimulatorRuns(t *testing.T) {
	f := factory.New(builtin.Catalog())

	s, err := f.Simulator(context.Background(), classicalProblem("p"))
	if err != nil {
		t.Fatalf("Simulator returned error: %v", err)
	}
	if s.Name() != "sequential_simulator" {
		t.Errorf("Expected 'sequential_simulator', got '%s'", s.Name())
	}

	res, err := s.Simulate(context.Background(), classicalProblem("p"), testPlan{kind: engine.SequentialPlan})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	if !res.Completed {
		t.Error("Expected the simulation to complete")
	}
	if res.FailedActionIndex != -1 {
		t.Errorf("Expected no failed action, got index %d", res.FailedActionIndex)
	}
}

func TestSimulatorRejectsWrongPlanKind(t *testing.T) {
	f := factory.New(builtin.Catalog())
	s, err := f.Simulator(context.Background(), classicalProblem("p"))
	if err != nil {
		t.Fatalf("Simulator returned error: %v", err)
	}

	_, err = s.Simulate(context.Background(), classicalProblem("p"), testPlan{kind: engine.TimeTriggeredPlan})
	if err == nil {
		t.Error("Expected error for non-sequential plan, got nil")
	}
}

func TestRemoverPipeline(t *testing.T) {
	f := factory.New(builtin.Catalog())

	kind := engine.NewProblemKind(
		engine.FeatureActionBased,
		engine.FeatureNegativeConditions,
		engine.FeatureExistentialConditions,
		engine.FeatureUniversalConditions)
	c, err := f.Compiler(context.Background(),
		factory.WithProblemKind(kind),
		factory.WithCompilationKinds(engine.QuantifiersRemoving, engine.NegativeConditionsRemoving))
	if err != nil {
		t.Fatalf("Compiler returned error: %v", err)
	}

	res, err := c.Compile(context.Background(),
		testProblem{name: "blocks", kind: kind}, engine.QuantifiersRemoving)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if got := res.Problem.Name(); got != "blocks_qr_ncr" {
		t.Errorf("Expected compiled name 'blocks_qr_ncr', got '%s'", got)
	}
	want := engine.NewProblemKind(engine.FeatureActionBased)
	if !res.Problem.Kind().Equal(want) {
		t.Errorf("Expected compiled kind %v, got %v", want, res.Problem.Kind())
	}
}

func TestRemoverRejectsOtherKind(t *testing.T) {
	f := factory.New(builtin.Catalog())

	c, err := f.Compiler(context.Background(), factory.WithName("up_grounder"))
	if err != nil {
		t.Fatalf("Compiler returned error: %v", err)
	}

	_, err = c.Compile(context.Background(), classicalProblem("p"), engine.NegativeConditionsRemoving)
	if err == nil {
		t.Error("Expected error for unsupported compilation kind, got nil")
	}
}

func TestGrounderFlattensHierarchy(t *testing.T) {
	f := factory.New(builtin.Catalog())

	kind := engine.NewProblemKind(engine.FeatureActionBased, engine.FeatureHierarchicalTyping)
	c, err := f.Compiler(context.Background(),
		factory.WithProblemKind(kind),
		factory.WithCompilationKind(engine.Grounding))
	if err != nil {
		t.Fatalf("Compiler returned error: %v", err)
	}
	if c.Name() != "up_grounder" {
		t.Errorf("Expected 'up_grounder', got '%s'", c.Name())
	}

	got := c.ResultingKind(kind, engine.Grounding)
	if got.Features()[0] != engine.FeatureActionBased || len(got.Features()) != 1 {
		t.Errorf("Expected grounding to strip hierarchical typing, got %v", got)
	}
}

func TestEnginesTakeNoParameters(t *testing.T) {
	f := factory.New(builtin.Catalog())

	_, err := f.PlanValidator(context.Background(),
		factory.WithName("sequential_plan_validator"),
		factory.WithParams(map[string]string{"heuristic": "hmax"}))
	if err == nil {
		t.Error("Expected error for unsupported parameters, got nil")
	}
}

// registerStubPlanner adds a oneshot planner to a builtin catalog so the
// meta-engines have a base to compose against.
func registerStubPlanner(c *factory.Catalog, status engine.PlanGenerationStatus) *stubPlanner {
	stub := &stubPlanner{name: "stub", status: status}
	c.RegisterEngine("example.com/stub", "Planner", &factory.Definition{
		Capabilities: engine.Profile{
			Modes:      []engine.OperationMode{engine.ModeOneshotPlanner},
			Kind:       engine.NewProblemKind(engine.FeatureActionBased, engine.FeatureNegativeConditions),
			Optimality: []engine.OptimalityGuarantee{engine.Satisficing, engine.SolvedOptimally},
		},
		Credits: &engine.Credits{Name: "stub", Author: "The test suite"},
		New: func(params map[string]string) (engine.Engine, error) {
			return stub, nil
		},
	})
	return stub
}

func TestOversubscriptionComposition(t *testing.T) {
	c := builtin.Catalog()
	stub := registerStubPlanner(c, engine.StatusSolvedOptimally)

	f := factory.New(c)
	if err := f.AddEngine("stub", "example.com/stub", "Planner"); err != nil {
		t.Fatalf("AddEngine returned error: %v", err)
	}
	if !f.HasEngine("oversubscription[stub]") {
		t.Fatal("Expected 'oversubscription[stub]' to be composed")
	}

	problem := testProblem{
		name: "goals",
		kind: engine.NewProblemKind(
			engine.FeatureActionBased,
			engine.FeatureNegativeConditions,
			engine.FeatureOversubscription),
	}
	p, err := f.OneshotPlanner(context.Background(), factory.WithProblemKind(problem.kind))
	if err != nil {
		t.Fatalf("OneshotPlanner returned error: %v", err)
	}
	if p.Name() != "oversubscription[stub]" {
		t.Errorf("Expected 'oversubscription[stub]', got '%s'", p.Name())
	}

	res, err := p.Solve(context.Background(), problem)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if stub.seen.Supports(engine.NewProblemKind(engine.FeatureOversubscription)) {
		t.Error("Expected the oversubscription feature to be hidden from the base planner")
	}
	if res.Status != engine.StatusSolvedSatisficing {
		t.Errorf("Expected optimal base result downgraded to satisficing, got %s", res.Status)
	}
	if res.EngineName != "oversubscription[stub]" {
		t.Errorf("Expected result attributed to the composed engine, got '%s'", res.EngineName)
	}
}

func TestReplannerComposition(t *testing.T) {
	c := builtin.Catalog()
	registerStubPlanner(c, engine.StatusSolvedSatisficing)

	f := factory.New(c)
	if err := f.AddEngine("stub", "example.com/stub", "Planner"); err != nil {
		t.Fatalf("AddEngine returned error: %v", err)
	}
	if !f.HasEngine("replanner[stub]") {
		t.Fatal("Expected 'replanner[stub]' to be composed")
	}

	problem := classicalProblem("evolving")
	r, err := f.Replanner(context.Background(), problem)
	if err != nil {
		t.Fatalf("Replanner returned error: %v", err)
	}

	res, err := r.Replan(context.Background(), problem)
	if err != nil {
		t.Fatalf("Replan returned error: %v", err)
	}
	if !res.Status.Solved() {
		t.Errorf("Expected a solved result, got %s", res.Status)
	}
	if res.EngineName != "replanner[stub]" {
		t.Errorf("Expected result attributed to the composed engine, got '%s'", res.EngineName)
	}
}
