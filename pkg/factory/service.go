package factory

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/openplan/openplan/pkg/engine"
	"github.com/openplan/openplan/pkg/telemetry"
)

// request collects the arguments of one operation-mode call. A call either
// names its engine(s) explicitly or constrains the search by problem kind
// and guarantee. A single explicit name is authoritative and silently wins
// over any constraints given alongside it; mixing a name list with
// constraints is a caller error.
type request struct {
	name       string
	params     map[string]string
	names      []string
	paramsList []map[string]string

	kind    engine.ProblemKind
	kindSet bool
	g       guarantees

	compilationKinds []engine.CompilationKind
}

// RequestOption configures one operation-mode call.
type RequestOption func(*request)

// WithName selects an engine by its registered name. Explicit selection is
// authoritative: capability and guarantee filtering is bypassed.
func WithName(name string) RequestOption {
	return func(r *request) { r.name = name }
}

// WithParams passes engine-specific options to the selected engine.
func WithParams(params map[string]string) RequestOption {
	return func(r *request) { r.params = params }
}

// WithNames selects several engines by name, producing a parallel group
// (or, for a compiler pipeline, pinning the stage engines).
func WithNames(names ...string) RequestOption {
	return func(r *request) { r.names = names }
}

// WithParamsList passes per-member options, aligned with WithNames (or with
// WithCompilationKinds for a pipeline).
func WithParamsList(params ...map[string]string) RequestOption {
	return func(r *request) { r.paramsList = params }
}

// WithProblemKind constrains the capability search to engines supporting
// every feature of the given kind.
func WithProblemKind(kind engine.ProblemKind) RequestOption {
	return func(r *request) {
		r.kind = kind
		r.kindSet = true
	}
}

// WithOptimalityGuarantee constrains the search to engines satisfying the
// guarantee. Valid for the oneshot planner, replanner and portfolio
// selector modes.
func WithOptimalityGuarantee(g engine.OptimalityGuarantee) RequestOption {
	return func(r *request) { r.g.optimality = &g }
}

// WithAnytimeGuarantee constrains the search to engines ensuring the
// guarantee. Valid for the anytime planner mode.
func WithAnytimeGuarantee(g engine.AnytimeGuarantee) RequestOption {
	return func(r *request) { r.g.anytime = &g }
}

// WithPlanKind constrains the search to validators handling the plan kind.
func WithPlanKind(k engine.PlanKind) RequestOption {
	return func(r *request) { r.g.planKind = &k }
}

// WithCompilationKind constrains the search to compilers performing the
// transformation.
func WithCompilationKind(k engine.CompilationKind) RequestOption {
	return func(r *request) { r.g.compilation = &k }
}

// WithCompilationKinds requests a compiler pipeline running the given
// transformations in order.
func WithCompilationKinds(kinds ...engine.CompilationKind) RequestOption {
	return func(r *request) { r.compilationKinds = kinds }
}

func buildRequest(opts []RequestOption) request {
	var r request
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// validateRequest enforces the shared caller contract before any lookup.
func validateRequest(mode engine.OperationMode, r request) error {
	if r.name != "" && len(r.names) > 0 {
		return NewContractError("name and names cannot both be given")
	}
	if len(r.names) > 0 && mode != engine.ModeCompiler && (r.kindSet || r.g.count() > 0) {
		return NewContractError("explicit engine names and capability constraints cannot be mixed")
	}
	if len(r.paramsList) > 0 {
		want := len(r.names)
		if mode == engine.ModeCompiler && len(r.compilationKinds) > 0 {
			want = len(r.compilationKinds)
		}
		if len(r.paramsList) != want {
			return NewContractError("params list length does not match the requested engines")
		}
	}
	if len(r.compilationKinds) > 0 && mode != engine.ModeCompiler {
		return NewContractError("compilation kinds are only valid for the compiler mode")
	}
	return nil
}

// outcomeOf maps an error to a metrics outcome label.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "resolved"
	case IsNotFound(err):
		return "not_found"
	case IsNoSuitableEngine(err):
		return "no_suitable_engine"
	case IsContractViolation(err):
		return "contract"
	default:
		return "error"
	}
}

// resolveEngine runs a single resolution and instantiation, emitting
// credits on success.
func (f *Factory) resolveEngine(mode engine.OperationMode, r request) (engine.Engine, error) {
	d, err := f.resolve(mode, r.name, r.kind, r.g)
	if err != nil {
		return nil, err
	}
	inst, err := d.New(r.params)
	if err != nil {
		return nil, NewRegistrationError(fmt.Sprintf("instantiating engine %q", d.Name()), err)
	}
	f.credits.emit(mode, []*engine.Credits{d.Credits()})
	f.logger.Debug().Str("engine", d.Name()).Str("mode", string(mode)).Msg("Engine resolved")
	return inst, nil
}

// errorClassOf maps an error to a metrics error class label.
func errorClassOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return string(e.Class)
	}
	return "internal"
}

func (f *Factory) observe(ctx context.Context, mode engine.OperationMode) (context.Context, func(error)) {
	timer := telemetry.NewTimer()
	var span trace.Span
	if f.tracer != nil {
		ctx, span = f.tracer.StartResolutionSpan(ctx, string(mode))
	}
	return ctx, func(err error) {
		f.metrics.RecordResolution(string(mode), outcomeOf(err))
		f.metrics.ObserveResolutionDuration(string(mode), timer.Duration())
		if err != nil {
			f.metrics.RecordError(errorClassOf(err))
		}
		if span != nil {
			if err != nil {
				telemetry.RecordError(span, err)
			} else {
				telemetry.RecordSuccess(span)
			}
			span.End()
		}
	}
}

// OneshotPlanner returns a oneshot planner. The request either names a
// planner (optionally with params), names several planners (yielding a
// parallel group), or constrains the search by problem kind and optimality
// guarantee.
func (f *Factory) OneshotPlanner(ctx context.Context, opts ...RequestOption) (engine.OneshotPlanner, error) {
	r := buildRequest(opts)
	_, done := f.observe(ctx, engine.ModeOneshotPlanner)
	planner, err := f.oneshotPlanner(r)
	done(err)
	return planner, err
}

func (f *Factory) oneshotPlanner(r request) (engine.OneshotPlanner, error) {
	if err := validateRequest(engine.ModeOneshotPlanner, r); err != nil {
		return nil, err
	}
	if len(r.names) > 0 {
		return f.newParallel(engine.ModeOneshotPlanner, r.names, r.paramsList)
	}
	inst, err := f.resolveEngine(engine.ModeOneshotPlanner, r)
	if err != nil {
		return nil, err
	}
	planner, ok := inst.(engine.OneshotPlanner)
	if !ok {
		return nil, NewContractError(fmt.Sprintf("engine %q does not implement oneshot planning", inst.Name()))
	}
	return planner, nil
}

// AnytimePlanner returns an anytime planner, selected by name or by problem
// kind and anytime guarantee.
func (f *Factory) AnytimePlanner(ctx context.Context, opts ...RequestOption) (engine.AnytimePlanner, error) {
	r := buildRequest(opts)
	_, done := f.observe(ctx, engine.ModeAnytimePlanner)
	planner, err := f.anytimePlanner(r)
	done(err)
	return planner, err
}

func (f *Factory) anytimePlanner(r request) (engine.AnytimePlanner, error) {
	if len(r.names) > 0 {
		return nil, NewContractError("parallel anytime planning is not supported")
	}
	if err := validateRequest(engine.ModeAnytimePlanner, r); err != nil {
		return nil, err
	}
	inst, err := f.resolveEngine(engine.ModeAnytimePlanner, r)
	if err != nil {
		return nil, err
	}
	planner, ok := inst.(engine.AnytimePlanner)
	if !ok {
		return nil, NewContractError(fmt.Sprintf("engine %q does not implement anytime planning", inst.Name()))
	}
	return planner, nil
}

// PlanValidator returns a plan validator. As with OneshotPlanner, several
// names yield a parallel group.
func (f *Factory) PlanValidator(ctx context.Context, opts ...RequestOption) (engine.PlanValidator, error) {
	r := buildRequest(opts)
	_, done := f.observe(ctx, engine.ModePlanValidator)
	validator, err := f.planValidator(r)
	done(err)
	return validator, err
}

func (f *Factory) planValidator(r request) (engine.PlanValidator, error) {
	if err := validateRequest(engine.ModePlanValidator, r); err != nil {
		return nil, err
	}
	if len(r.names) > 0 {
		return f.newParallel(engine.ModePlanValidator, r.names, r.paramsList)
	}
	inst, err := f.resolveEngine(engine.ModePlanValidator, r)
	if err != nil {
		return nil, err
	}
	validator, ok := inst.(engine.PlanValidator)
	if !ok {
		return nil, NewContractError(fmt.Sprintf("engine %q does not implement plan validation", inst.Name()))
	}
	return validator, nil
}

// Compiler returns a compiler, or a pipeline of compilers when several
// compilation kinds are requested. Pipeline stages are resolved against the
// problem kind produced by the previous stage; construction aborts on the
// first stage that cannot be resolved.
func (f *Factory) Compiler(ctx context.Context, opts ...RequestOption) (engine.Compiler, error) {
	r := buildRequest(opts)
	_, done := f.observe(ctx, engine.ModeCompiler)
	compiler, err := f.compiler(r)
	done(err)
	return compiler, err
}

func (f *Factory) compiler(r request) (engine.Compiler, error) {
	if err := validateRequest(engine.ModeCompiler, r); err != nil {
		return nil, err
	}
	if len(r.compilationKinds) > 0 {
		return f.newPipeline(r)
	}
	if len(r.names) > 0 {
		return nil, NewContractError("names without compilation kinds do not describe a pipeline")
	}
	inst, err := f.resolveEngine(engine.ModeCompiler, r)
	if err != nil {
		return nil, err
	}
	compiler, ok := inst.(engine.Compiler)
	if !ok {
		return nil, NewContractError(fmt.Sprintf("engine %q does not implement compilation", inst.Name()))
	}
	return compiler, nil
}

// Simulator returns a simulator for the given problem; the problem's own
// kind constrains the search unless a name is given.
func (f *Factory) Simulator(ctx context.Context, problem engine.Problem, opts ...RequestOption) (engine.Simulator, error) {
	r := buildRequest(opts)
	_, done := f.observe(ctx, engine.ModeSimulator)
	simulator, err := f.simulator(problem, r)
	done(err)
	return simulator, err
}

func (f *Factory) simulator(problem engine.Problem, r request) (engine.Simulator, error) {
	if len(r.names) > 0 {
		return nil, NewContractError("parallel simulation is not supported")
	}
	if r.name == "" && !r.kindSet {
		r.kind = problem.Kind()
		r.kindSet = true
	}
	if err := validateRequest(engine.ModeSimulator, r); err != nil {
		return nil, err
	}
	inst, err := f.resolveEngine(engine.ModeSimulator, r)
	if err != nil {
		return nil, err
	}
	simulator, ok := inst.(engine.Simulator)
	if !ok {
		return nil, NewContractError(fmt.Sprintf("engine %q does not implement simulation", inst.Name()))
	}
	return simulator, nil
}

// Replanner returns a replanner for the given problem, selected by name or
// by the problem's kind and an optimality guarantee.
func (f *Factory) Replanner(ctx context.Context, problem engine.Problem, opts ...RequestOption) (engine.Replanner, error) {
	r := buildRequest(opts)
	_, done := f.observe(ctx, engine.ModeReplanner)
	replanner, err := f.replanner(problem, r)
	done(err)
	return replanner, err
}

func (f *Factory) replanner(problem engine.Problem, r request) (engine.Replanner, error) {
	if len(r.names) > 0 {
		return nil, NewContractError("parallel replanning is not supported")
	}
	if r.name == "" && !r.kindSet {
		r.kind = problem.Kind()
		r.kindSet = true
	}
	if err := validateRequest(engine.ModeReplanner, r); err != nil {
		return nil, err
	}
	inst, err := f.resolveEngine(engine.ModeReplanner, r)
	if err != nil {
		return nil, err
	}
	replanner, ok := inst.(engine.Replanner)
	if !ok {
		return nil, NewContractError(fmt.Sprintf("engine %q does not implement replanning", inst.Name()))
	}
	return replanner, nil
}

// PortfolioSelector returns a portfolio selector, selected by name or by
// problem kind and optimality guarantee.
func (f *Factory) PortfolioSelector(ctx context.Context, opts ...RequestOption) (engine.PortfolioSelector, error) {
	r := buildRequest(opts)
	_, done := f.observe(ctx, engine.ModePortfolioSelector)
	selector, err := f.portfolioSelector(r)
	done(err)
	return selector, err
}

func (f *Factory) portfolioSelector(r request) (engine.PortfolioSelector, error) {
	if len(r.names) > 0 {
		return nil, NewContractError("parallel portfolio selection is not supported")
	}
	if err := validateRequest(engine.ModePortfolioSelector, r); err != nil {
		return nil, err
	}
	inst, err := f.resolveEngine(engine.ModePortfolioSelector, r)
	if err != nil {
		return nil, err
	}
	selector, ok := inst.(engine.PortfolioSelector)
	if !ok {
		return nil, NewContractError(fmt.Sprintf("engine %q does not implement portfolio selection", inst.Name()))
	}
	return selector, nil
}
