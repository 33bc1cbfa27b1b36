package factory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openplan/openplan/pkg/engine"
)

// parallelMember is one engine instance of a parallel group, kept with the
// registry name it was resolved under.
type parallelMember struct {
	name string
	inst engine.Engine
}

// Parallel runs several explicitly named engines concurrently on the same
// input and returns the first definitive answer, cancelling the rest. It is
// itself an engine: a group built for the oneshot planner mode implements
// OneshotPlanner, one built for the plan validator mode implements
// PlanValidator.
//
// The group carries a Snapshot of the factory it was built from so that a
// worker process can rebuild an equivalent registry before running a member.
type Parallel struct {
	mode     engine.OperationMode
	members  []parallelMember
	snapshot *Snapshot
	logger   zerolog.Logger
}

// newParallel resolves every named member, instantiates it and checks that
// it serves the group's operation mode. Any failure aborts construction.
func (f *Factory) newParallel(mode engine.OperationMode, names []string, paramsList []map[string]string) (*Parallel, error) {
	members := make([]parallelMember, 0, len(names))
	credits := make([]*engine.Credits, 0, len(names))
	for i, name := range names {
		d, err := f.resolve(mode, name, engine.ProblemKind{}, guarantees{})
		if err != nil {
			return nil, err
		}
		var params map[string]string
		if len(paramsList) > 0 {
			params = paramsList[i]
		}
		inst, err := d.New(params)
		if err != nil {
			return nil, NewRegistrationError(fmt.Sprintf("instantiating engine %q", name), err)
		}
		switch mode {
		case engine.ModeOneshotPlanner:
			if _, ok := inst.(engine.OneshotPlanner); !ok {
				return nil, NewContractError(fmt.Sprintf("engine %q does not implement oneshot planning", name))
			}
		case engine.ModePlanValidator:
			if _, ok := inst.(engine.PlanValidator); !ok {
				return nil, NewContractError(fmt.Sprintf("engine %q does not implement plan validation", name))
			}
		default:
			return nil, NewContractError(fmt.Sprintf("operation mode %q does not support parallel groups", mode))
		}
		members = append(members, parallelMember{name: name, inst: inst})
		credits = append(credits, d.Credits())
	}
	f.credits.emit(mode, credits)
	return &Parallel{
		mode:     mode,
		members:  members,
		snapshot: f.Snapshot(),
		logger:   f.logger.With().Str("engine", "parallel").Logger(),
	}, nil
}

// Name implements engine.Engine.
func (p *Parallel) Name() string {
	return "parallel"
}

// MemberNames returns the registry names of the group, in request order.
func (p *Parallel) MemberNames() []string {
	names := make([]string, len(p.members))
	for i, m := range p.members {
		names[i] = m.name
	}
	return names
}

// Snapshot returns the registry snapshot captured at construction.
func (p *Parallel) Snapshot() *Snapshot {
	return p.snapshot
}

type parallelOutcome struct {
	member string
	result *engine.PlanResult
	valid  *engine.ValidationResult
	err    error
}

// run fans one call out to every member and collects outcomes on a buffered
// channel. Member panics are converted to errors so one misbehaving engine
// cannot take down the group.
func (p *Parallel) run(ctx context.Context, call func(ctx context.Context, m parallelMember) parallelOutcome) <-chan parallelOutcome {
	out := make(chan parallelOutcome, len(p.members))
	for _, m := range p.members {
		go func(m parallelMember) {
			defer func() {
				if r := recover(); r != nil {
					out <- parallelOutcome{member: m.name, err: fmt.Errorf("engine %q panicked: %v", m.name, r)}
				}
			}()
			out <- call(ctx, m)
		}(m)
	}
	return out
}

// Solve runs every member planner concurrently and returns the first result
// that actually solved the problem, cancelling the remaining members. If no
// member solves it, the first completed result is returned; if every member
// errored, the first error is.
func (p *Parallel) Solve(ctx context.Context, problem engine.Problem) (*engine.PlanResult, error) {
	if p.mode != engine.ModeOneshotPlanner {
		return nil, NewContractError("parallel group was not built for oneshot planning")
	}
	runID := uuid.NewString()
	log := p.logger.With().Str("run_id", runID).Str("problem", problem.Name()).Logger()
	log.Debug().Int("members", len(p.members)).Msg("Starting parallel solve")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	outcomes := p.run(ctx, func(ctx context.Context, m parallelMember) parallelOutcome {
		res, err := m.inst.(engine.OneshotPlanner).Solve(ctx, problem)
		return parallelOutcome{member: m.name, result: res, err: err}
	})

	var fallback *engine.PlanResult
	var firstErr error
	for i := 0; i < len(p.members); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case out := <-outcomes:
			if out.err == nil && out.result == nil {
				out.err = fmt.Errorf("engine %q returned no result", out.member)
			}
			if out.err != nil {
				log.Debug().Str("member", out.member).Err(out.err).Msg("Parallel member failed")
				if firstErr == nil {
					firstErr = out.err
				}
				continue
			}
			if out.result.Status.Solved() {
				log.Debug().Str("member", out.member).Msg("Parallel member solved first")
				return out.result, nil
			}
			if fallback == nil {
				fallback = out.result
			}
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, NewContractError("parallel group has no members")
}

// Validate runs every member validator concurrently and returns the first
// completed validation, valid or not; both answers are definitive.
func (p *Parallel) Validate(ctx context.Context, problem engine.Problem, plan engine.Plan) (*engine.ValidationResult, error) {
	if p.mode != engine.ModePlanValidator {
		return nil, NewContractError("parallel group was not built for plan validation")
	}
	runID := uuid.NewString()
	log := p.logger.With().Str("run_id", runID).Str("problem", problem.Name()).Logger()
	log.Debug().Int("members", len(p.members)).Msg("Starting parallel validation")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	outcomes := p.run(ctx, func(ctx context.Context, m parallelMember) parallelOutcome {
		res, err := m.inst.(engine.PlanValidator).Validate(ctx, problem, plan)
		return parallelOutcome{member: m.name, valid: res, err: err}
	})

	var firstErr error
	for i := 0; i < len(p.members); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case out := <-outcomes:
			if out.err == nil && out.valid == nil {
				out.err = fmt.Errorf("engine %q returned no result", out.member)
			}
			if out.err != nil {
				log.Debug().Str("member", out.member).Err(out.err).Msg("Parallel member failed")
				if firstErr == nil {
					firstErr = out.err
				}
				continue
			}
			log.Debug().Str("member", out.member).Bool("valid", out.valid.Valid).Msg("Parallel member validated first")
			return out.valid, nil
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, NewContractError("parallel group has no members")
}
