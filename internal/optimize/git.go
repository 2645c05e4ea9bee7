package optimize

import (
	"context"
	"fmt"
	"strings"

	"github.com/benwelker/terse/internal/config"
	"github.com/benwelker/terse/internal/shellexec"
	"github.com/benwelker/terse/internal/tokenest"
	"github.com/benwelker/terse/internal/types"
)

var gitShortStatusVerbs = map[string]bool{
	"push": true, "pull": true, "fetch": true, "add": true, "commit": true,
}

// GitOptimizer condenses git status/log/diff/branch and the short-status
// verb family (push/pull/fetch/add/commit).
type GitOptimizer struct {
	limits config.GitLimits
}

func NewGit(limits config.GitLimits) *GitOptimizer {
	return &GitOptimizer{limits: limits}
}

func (g *GitOptimizer) Name() string { return "git" }

func (g *GitOptimizer) CanHandle(ctx types.CommandContext) bool {
	words := coreWords(ctx.Core)
	if !hasPrefixWords(words, "git") || len(words) < 2 {
		return false
	}
	switch words[1] {
	case "status", "log", "diff", "branch":
		return true
	default:
		return gitShortStatusVerbs[words[1]]
	}
}

func (g *GitOptimizer) OptimizeOutput(goCtx context.Context, ctx types.CommandContext, raw string) (types.OptimizedOutput, error) {
	words := coreWords(ctx.Core)
	if len(words) < 2 {
		return types.OptimizedOutput{}, fmt.Errorf("git optimizer: no verb in %q", ctx.Core)
	}
	verb := words[1]

	switch verb {
	case "status":
		return g.substitute(goCtx, ctx, "git status", "git status --short --branch")
	case "log":
		return g.substitute(goCtx, ctx, "git log", "git log --oneline -n 20")
	case "diff":
		return g.diff(raw)
	case "branch":
		return g.branch(raw)
	default:
		return g.shortStatus(verb, raw)
	}
}

// substitute rewrites the first occurrence (case-insensitive) of from to
// to in ctx.Original, runs the rewritten command, and returns its combined
// stdout+stderr as the optimized text.
func (g *GitOptimizer) substitute(goCtx context.Context, ctx types.CommandContext, from, to string) (types.OptimizedOutput, error) {
	rewritten, ok := replaceFirstFold(ctx.Original, from, to)
	if !ok {
		return types.OptimizedOutput{}, fmt.Errorf("git optimizer: %q not found in command", from)
	}
	result, err := shellexec.Run(goCtx, rewritten)
	if err != nil {
		return types.OptimizedOutput{}, err
	}
	text := result.Combined()
	return types.OptimizedOutput{Text: text, OptimizedTokens: tokenest.Estimate(text), Name: g.Name()}, nil
}

func replaceFirstFold(s, old, new string) (string, bool) {
	lower := strings.ToLower(s)
	idx := strings.Index(lower, strings.ToLower(old))
	if idx < 0 {
		return s, false
	}
	return s[:idx] + new + s[idx+len(old):], true
}

func (g *GitOptimizer) diff(raw string) (types.OptimizedOutput, error) {
	maxLines := g.limits.DiffMaxLines
	maxPlusMinus := g.limits.DiffMaxPlusMinusLines
	var out []string
	plusMinus := 0
	truncated := false

	for _, l := range lines(raw) {
		if len(out) >= maxLines {
			truncated = true
			break
		}
		isHeader := strings.HasPrefix(l, "diff --git") || strings.HasPrefix(l, "index ") ||
			strings.HasPrefix(l, "--- ") || strings.HasPrefix(l, "+++ ") || strings.HasPrefix(l, "@@ ")
		isPlusMinus := !isHeader && (strings.HasPrefix(l, "+") || strings.HasPrefix(l, "-"))
		switch {
		case isHeader:
			out = append(out, l)
		case isPlusMinus:
			if plusMinus >= maxPlusMinus {
				truncated = true
				continue
			}
			out = append(out, l)
			plusMinus++
		}
	}
	if truncated {
		out = append(out, "...diff truncated...")
	}
	text := joinLines(out)
	return types.OptimizedOutput{Text: text, OptimizedTokens: tokenest.Estimate(text), Name: g.Name()}, nil
}

func (g *GitOptimizer) branch(raw string) (types.OptimizedOutput, error) {
	var current string
	var rest []string
	for _, l := range lines(raw) {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if strings.HasPrefix(strings.TrimLeft(l, " \t"), "*") && current == "" {
			current = strings.TrimLeft(l, " \t")
			continue
		}
		rest = append(rest, strings.TrimSpace(l))
	}
	var out []string
	if current != "" {
		out = append(out, current)
	}
	out = append(out, rest...)
	text := joinLines(out)
	return types.OptimizedOutput{Text: text, OptimizedTokens: tokenest.Estimate(text), Name: g.Name()}, nil
}

func (g *GitOptimizer) shortStatus(verb, raw string) (types.OptimizedOutput, error) {
	var text string
	if containsAnyFold(raw, "error") {
		text = fmt.Sprintf("git %s: failed - %s", verb, firstNonBlankLine(raw))
	} else {
		text = fmt.Sprintf("git %s: success", verb)
	}
	return types.OptimizedOutput{Text: text, OptimizedTokens: tokenest.Estimate(text), Name: g.Name()}, nil
}
