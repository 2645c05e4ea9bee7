package optimize

import (
	"context"
	"errors"
	"strings"

	"github.com/benwelker/terse/internal/config"
	"github.com/benwelker/terse/internal/tokenest"
	"github.com/benwelker/terse/internal/types"
)

// errTooLarge signals that whitespace normalization alone isn't enough and
// the registry should fall through to the generic line-capping optimizer.
var errTooLarge = errors.New("optimize: output too large for whitespace pass")

// WhitespaceOptimizer collapses runs of blank lines and trims trailing
// space, for already-small output from commands no domain optimizer
// recognized. It declines (falls through) output still over the generic
// line cap after normalization.
type WhitespaceOptimizer struct {
	limits config.GenericLimits
}

func NewWhitespace(limits config.GenericLimits) *WhitespaceOptimizer {
	return &WhitespaceOptimizer{limits: limits}
}

func (w *WhitespaceOptimizer) Name() string { return "whitespace" }

func (w *WhitespaceOptimizer) CanHandle(types.CommandContext) bool { return true }

func (w *WhitespaceOptimizer) OptimizeOutput(_ context.Context, _ types.CommandContext, raw string) (types.OptimizedOutput, error) {
	var out []string
	blank := false
	for _, l := range lines(raw) {
		trimmed := strings.TrimRight(l, " \t")
		if trimmed == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, trimmed)
	}
	if len(out) > w.limits.MaxLines {
		return types.OptimizedOutput{}, errTooLarge
	}
	text := joinLines(out)
	return types.OptimizedOutput{Text: text, OptimizedTokens: tokenest.Estimate(text), Name: w.Name()}, nil
}

// GenericOptimizer is the final, always-applicable fallback: it caps
// unclassified output at a fixed line budget, keeping head and tail.
type GenericOptimizer struct {
	limits config.GenericLimits
}

func NewGeneric(limits config.GenericLimits) *GenericOptimizer {
	return &GenericOptimizer{limits: limits}
}

func (g *GenericOptimizer) Name() string { return "generic" }

func (g *GenericOptimizer) CanHandle(types.CommandContext) bool { return true }

func (g *GenericOptimizer) OptimizeOutput(_ context.Context, _ types.CommandContext, raw string) (types.OptimizedOutput, error) {
	ls := lines(raw)
	total := len(ls)
	max := g.limits.MaxLines
	if total <= max {
		text := raw
		return types.OptimizedOutput{Text: text, OptimizedTokens: tokenest.Estimate(text), Name: g.Name()}, nil
	}

	head := max * 3 / 4
	tail := max - head
	var out []string
	out = append(out, ls[:head]...)
	out = append(out, omissionMarker(total-head-tail))
	out = append(out, ls[total-tail:]...)
	text := joinLines(out)
	return types.OptimizedOutput{Text: text, OptimizedTokens: tokenest.Estimate(text), Name: g.Name()}, nil
}
