package factory

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/openplan/openplan/pkg/engine"
)

// blockingPlanner waits for cancellation and never produces a plan.
type blockingPlanner struct {
	name string
}

func (p *blockingPlanner) Name() string { return p.name }

func (p *blockingPlanner) Solve(ctx context.Context, problem engine.Problem) (*engine.PlanResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// failingPlanner always errors out.
type failingPlanner struct {
	name string
}

func (p *failingPlanner) Name() string { return p.name }

func (p *failingPlanner) Solve(ctx context.Context, problem engine.Problem) (*engine.PlanResult, error) {
	return nil, errors.New("solver crashed")
}

// unsolvedPlanner completes without finding a plan.
type unsolvedPlanner struct {
	name string
}

func (p *unsolvedPlanner) Name() string { return p.name }

func (p *unsolvedPlanner) Solve(ctx context.Context, problem engine.Problem) (*engine.PlanResult, error) {
	return &engine.PlanResult{Status: engine.StatusTimeout, EngineName: p.name}, nil
}

// mutePlanner returns neither a result nor an error.
type mutePlanner struct {
	name string
}

func (p *mutePlanner) Name() string { return p.name }

func (p *mutePlanner) Solve(ctx context.Context, problem engine.Problem) (*engine.PlanResult, error) {
	return nil, nil
}

// rejectingValidator completes with a definitive negative answer.
type rejectingValidator struct {
	name string
}

func (v *rejectingValidator) Name() string { return v.name }

func (v *rejectingValidator) Validate(ctx context.Context, problem engine.Problem, plan engine.Plan) (*engine.ValidationResult, error) {
	return &engine.ValidationResult{Valid: false, Reason: "plan rejected", EngineName: v.name}, nil
}

func instanceDefinition(mode engine.OperationMode, build func() engine.Engine) *Definition {
	return &Definition{
		Capabilities: engine.Profile{
			Modes: []engine.OperationMode{mode},
			Kind:  engine.NewProblemKind(engine.FeatureActionBased),
		},
		New: func(params map[string]string) (engine.Engine, error) {
			return build(), nil
		},
	}
}

// parallelCatalog extends the shared test catalog with planners that
// block, fail or finish unsolved, plus a rejecting validator.
func parallelCatalog() *Catalog {
	c := testCatalog()
	c.RegisterEngine(testModule, "Slow", instanceDefinition(engine.ModeOneshotPlanner, func() engine.Engine {
		return &blockingPlanner{name: "slow"}
	}))
	c.RegisterEngine(testModule, "Boom", instanceDefinition(engine.ModeOneshotPlanner, func() engine.Engine {
		return &failingPlanner{name: "boom"}
	}))
	c.RegisterEngine(testModule, "Stuck", instanceDefinition(engine.ModeOneshotPlanner, func() engine.Engine {
		return &unsolvedPlanner{name: "stuck"}
	}))
	c.RegisterEngine(testModule, "Mute", instanceDefinition(engine.ModeOneshotPlanner, func() engine.Engine {
		return &mutePlanner{name: "mute"}
	}))
	c.RegisterEngine(testModule, "Rejecter", instanceDefinition(engine.ModePlanValidator, func() engine.Engine {
		return &rejectingValidator{name: "rejecter"}
	}))
	return c
}

func newParallelFactory(t *testing.T) *Factory {
	t.Helper()
	f := New(parallelCatalog())
	for _, reg := range []struct{ name, symbol string }{
		{"sat", "Sat"},
		{"validator", "Validator"},
		{"slow", "Slow"},
		{"boom", "Boom"},
		{"stuck", "Stuck"},
		{"mute", "Mute"},
		{"rejecter", "Rejecter"},
	} {
		if err := f.AddEngine(reg.name, testModule, reg.symbol); err != nil {
			t.Fatalf("AddEngine(%s) returned error: %v", reg.name, err)
		}
	}
	return f
}

func TestParallelFirstSolvedWins(t *testing.T) {
	f := newParallelFactory(t)

	p, err := f.OneshotPlanner(context.Background(), WithNames("slow", "sat"))
	if err != nil {
		t.Fatalf("OneshotPlanner returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := p.Solve(ctx, fakeProblem{name: "p", kind: engine.NewProblemKind(engine.FeatureActionBased)})
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if !res.Status.Solved() {
		t.Errorf("Expected solved status, got %s", res.Status)
	}
	if res.EngineName != "sat" {
		t.Errorf("Expected result from 'sat', got '%s'", res.EngineName)
	}
}

func TestParallelMemberErrorTolerated(t *testing.T) {
	f := newParallelFactory(t)

	p, err := f.OneshotPlanner(context.Background(), WithNames("boom", "sat"))
	if err != nil {
		t.Fatalf("OneshotPlanner returned error: %v", err)
	}

	res, err := p.Solve(context.Background(), fakeProblem{name: "p"})
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if res.EngineName != "sat" {
		t.Errorf("Expected result from 'sat', got '%s'", res.EngineName)
	}
}

func TestParallelFallbackToUnsolved(t *testing.T) {
	f := newParallelFactory(t)

	p, err := f.OneshotPlanner(context.Background(), WithNames("boom", "stuck"))
	if err != nil {
		t.Fatalf("OneshotPlanner returned error: %v", err)
	}

	res, err := p.Solve(context.Background(), fakeProblem{name: "p"})
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if res.Status != engine.StatusTimeout {
		t.Errorf("Expected the completed unsolved result, got %s", res.Status)
	}
	if res.EngineName != "stuck" {
		t.Errorf("Expected result from 'stuck', got '%s'", res.EngineName)
	}
}

func TestParallelAllMembersFail(t *testing.T) {
	f := newParallelFactory(t)

	p, err := f.OneshotPlanner(context.Background(), WithNames("boom"))
	if err != nil {
		t.Fatalf("OneshotPlanner returned error: %v", err)
	}

	_, err = p.Solve(context.Background(), fakeProblem{name: "p"})
	if err == nil {
		t.Fatal("Expected the member error to surface, got nil")
	}
}

func TestParallelNilResultTreatedAsError(t *testing.T) {
	f := newParallelFactory(t)

	// A member returning neither result nor error must not crash the group;
	// another member's answer still wins.
	p, err := f.OneshotPlanner(context.Background(), WithNames("mute", "sat"))
	if err != nil {
		t.Fatalf("OneshotPlanner returned error: %v", err)
	}
	res, err := p.Solve(context.Background(), fakeProblem{name: "p"})
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if res.EngineName != "sat" {
		t.Errorf("Expected result from 'sat', got '%s'", res.EngineName)
	}

	// Alone, the empty answer surfaces as an error.
	p, err = f.OneshotPlanner(context.Background(), WithNames("mute"))
	if err != nil {
		t.Fatalf("OneshotPlanner returned error: %v", err)
	}
	_, err = p.Solve(context.Background(), fakeProblem{name: "p"})
	if err == nil {
		t.Fatal("Expected error for a member returning no result, got nil")
	}
	if !strings.Contains(err.Error(), "returned no result") {
		t.Errorf("Expected 'returned no result' error, got %v", err)
	}
}

func TestParallelUnknownMember(t *testing.T) {
	f := newParallelFactory(t)

	_, err := f.OneshotPlanner(context.Background(), WithNames("sat", "missing"))
	if err == nil {
		t.Fatal("Expected error for unknown member, got nil")
	}
	if !IsNotFound(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestParallelNamesWithConstraintsRejected(t *testing.T) {
	f := newParallelFactory(t)

	_, err := f.OneshotPlanner(context.Background(),
		WithNames("sat", "slow"),
		WithProblemKind(engine.NewProblemKind(engine.FeatureActionBased)))
	if err == nil {
		t.Fatal("Expected contract violation, got nil")
	}
	if !IsContractViolation(err) {
		t.Errorf("Expected contract violation, got %v", err)
	}
}

func TestParallelParamsListLengthMismatch(t *testing.T) {
	f := newParallelFactory(t)

	_, err := f.OneshotPlanner(context.Background(),
		WithNames("sat", "slow"),
		WithParamsList(map[string]string{"weight": "1"}))
	if err == nil {
		t.Fatal("Expected contract violation, got nil")
	}
	if !IsContractViolation(err) {
		t.Errorf("Expected contract violation, got %v", err)
	}
}

func TestParallelUnsupportedMode(t *testing.T) {
	f := newParallelFactory(t)

	_, err := f.Simulator(context.Background(),
		fakeProblem{name: "p", kind: engine.NewProblemKind(engine.FeatureActionBased)},
		WithNames("sat"))
	if err == nil {
		t.Fatal("Expected contract violation, got nil")
	}
	if !IsContractViolation(err) {
		t.Errorf("Expected contract violation, got %v", err)
	}
}

func TestParallelValidatorFirstAnswerWins(t *testing.T) {
	f := newParallelFactory(t)

	v, err := f.PlanValidator(context.Background(), WithNames("rejecter"))
	if err != nil {
		t.Fatalf("PlanValidator returned error: %v", err)
	}

	res, err := v.Validate(context.Background(),
		fakeProblem{name: "p"}, fakePlan{kind: engine.SequentialPlan})
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if res.Valid {
		t.Error("Expected the definitive negative answer to be returned")
	}
	if res.Reason != "plan rejected" {
		t.Errorf("Expected rejection reason, got '%s'", res.Reason)
	}
}

func TestParallelGroupIdentity(t *testing.T) {
	f := newParallelFactory(t)

	p, err := f.OneshotPlanner(context.Background(), WithNames("sat", "slow"))
	if err != nil {
		t.Fatalf("OneshotPlanner returned error: %v", err)
	}

	group, ok := p.(*Parallel)
	if !ok {
		t.Fatalf("Expected *Parallel, got %T", p)
	}
	if group.Name() != "parallel" {
		t.Errorf("Expected name 'parallel', got '%s'", group.Name())
	}
	if got := group.MemberNames(); !reflect.DeepEqual(got, []string{"sat", "slow"}) {
		t.Errorf("Expected member names [sat slow], got %v", got)
	}
	snap := group.Snapshot()
	if snap == nil {
		t.Fatal("Expected a registry snapshot on the group")
	}

	rebuilt := NewFromSnapshot(parallelCatalog(), snap)
	if !rebuilt.HasEngine("sat") || !rebuilt.HasEngine("slow") {
		t.Error("Expected snapshot to rebuild the member registrations")
	}
}

func TestParallelSolveRespectsCancellation(t *testing.T) {
	f := newParallelFactory(t)

	p, err := f.OneshotPlanner(context.Background(), WithNames("slow"))
	if err != nil {
		t.Fatalf("OneshotPlanner returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Solve(ctx, fakeProblem{name: "p"})
	if err == nil {
		t.Fatal("Expected error from cancelled context, got nil")
	}
}
