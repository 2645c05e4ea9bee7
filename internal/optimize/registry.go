package optimize

import (
	"context"

	"github.com/benwelker/terse/internal/config"
	"github.com/benwelker/terse/internal/types"
)

// Registry holds the fixed, priority-ordered set of rule-based optimizers:
// git, file, build, docker, whitespace, generic. Select always finds a
// match — generic.CanHandle is unconditionally true.
type Registry struct {
	optimizers []types.Optimizer
}

// NewRegistry builds the registry in priority order from cfg's
// per-family limits.
func NewRegistry(cfg config.Config) *Registry {
	return &Registry{
		optimizers: []types.Optimizer{
			NewGit(cfg.Git),
			NewFile(cfg.File),
			NewBuild(cfg.Build),
			NewDocker(cfg.Docker),
			NewWhitespace(cfg.Generic),
			NewGeneric(cfg.Generic),
		},
	}
}

// Select runs ctx through each optimizer in priority order, using the
// first one that both claims the command and successfully optimizes the
// output. A CanHandle match whose OptimizeOutput errors falls through to
// the next candidate rather than aborting — this is how the whitespace
// optimizer defers to generic for oversized output.
func (r *Registry) Select(goCtx context.Context, ctx types.CommandContext, raw string) (types.OptimizedOutput, bool) {
	for _, opt := range r.optimizers {
		if !opt.CanHandle(ctx) {
			continue
		}
		out, err := opt.OptimizeOutput(goCtx, ctx, raw)
		if err != nil {
			continue
		}
		return out, true
	}
	return types.OptimizedOutput{}, false
}
