package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openplan/openplan/pkg/engine"
)

type pipelineStage struct {
	name     string
	compiler engine.Compiler
	kind     engine.CompilationKind
}

// Pipeline chains compilers so that each stage consumes the problem produced
// by the previous one. The stage transformations are fixed at construction;
// the pipeline itself is an engine.Compiler whose Compile ignores the kind
// argument in favor of the configured stage kinds.
type Pipeline struct {
	stages  []pipelineStage
	kindIn  engine.ProblemKind
	kindOut engine.ProblemKind
	logger  zerolog.Logger
}

// newPipeline resolves one compiler per requested compilation kind. Stages
// without an explicit name are found by capability search against the
// problem kind the previous stages produce, so a later stage sees the
// features earlier stages removed or introduced. Construction fails on the
// first stage that cannot be resolved.
func (f *Factory) newPipeline(r request) (*Pipeline, error) {
	if len(r.names) > 0 && len(r.names) != len(r.compilationKinds) {
		return nil, NewContractError("names length does not match the requested compilation kinds")
	}

	stages := make([]pipelineStage, 0, len(r.compilationKinds))
	credits := make([]*engine.Credits, 0, len(r.compilationKinds))
	kind := r.kind
	for i, ck := range r.compilationKinds {
		var name string
		if len(r.names) > 0 {
			name = r.names[i]
		}
		var params map[string]string
		if len(r.paramsList) > 0 {
			params = r.paramsList[i]
		}

		var d *Descriptor
		var err error
		if name != "" {
			d, err = f.resolve(engine.ModeCompiler, name, engine.ProblemKind{}, guarantees{})
		} else {
			g := guarantees{compilation: &ck}
			d, err = f.resolve(engine.ModeCompiler, "", kind, g)
		}
		if err != nil {
			return nil, err
		}
		inst, err := d.New(params)
		if err != nil {
			return nil, NewRegistrationError(fmt.Sprintf("instantiating engine %q", d.Name()), err)
		}
		compiler, ok := inst.(engine.Compiler)
		if !ok {
			return nil, NewContractError(fmt.Sprintf("engine %q does not implement compilation", d.Name()))
		}

		stages = append(stages, pipelineStage{name: d.Name(), compiler: compiler, kind: ck})
		credits = append(credits, d.Credits())
		kind = compiler.ResultingKind(kind, ck)
	}
	f.credits.emit(engine.ModeCompiler, credits)
	return &Pipeline{
		stages:  stages,
		kindIn:  r.kind,
		kindOut: kind,
		logger:  f.logger.With().Str("engine", "compilers_pipeline").Logger(),
	}, nil
}

// Name implements engine.Engine.
func (p *Pipeline) Name() string {
	return "compilers_pipeline"
}

// StageNames returns the resolved engine name of each stage, in order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.name
	}
	return names
}

// KindIn returns the problem kind the pipeline was resolved for.
func (p *Pipeline) KindIn() engine.ProblemKind {
	return p.kindIn
}

// KindOut returns the problem kind the pipeline is expected to produce.
func (p *Pipeline) KindOut() engine.ProblemKind {
	return p.kindOut
}

// Compile runs the stages in order, feeding each stage the problem produced
// by the previous one. The kind argument is ignored; the stage kinds were
// fixed when the pipeline was built.
func (p *Pipeline) Compile(ctx context.Context, problem engine.Problem, _ engine.CompilationKind) (*engine.CompilationResult, error) {
	current := problem
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := s.compiler.Compile(ctx, current, s.kind)
		if err != nil {
			return nil, fmt.Errorf("pipeline stage %q (%s): %w", s.name, s.kind, err)
		}
		p.logger.Debug().Str("stage", s.name).Str("kind", string(s.kind)).Msg("Pipeline stage compiled")
		current = res.Problem
	}
	return &engine.CompilationResult{Problem: current, EngineName: p.Name()}, nil
}

// ResultingKind threads the declared kind through every stage's own
// ResultingKind, ignoring the kind argument like Compile does.
func (p *Pipeline) ResultingKind(kind engine.ProblemKind, _ engine.CompilationKind) engine.ProblemKind {
	res := kind
	for _, s := range p.stages {
		res = s.compiler.ResultingKind(res, s.kind)
	}
	return res
}
