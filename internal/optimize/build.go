package optimize

import (
	"context"
	"strings"

	"github.com/benwelker/terse/internal/config"
	"github.com/benwelker/terse/internal/tokenest"
	"github.com/benwelker/terse/internal/types"
)

var buildToolWords = map[string]bool{
	"go": true, "npm": true, "yarn": true, "pnpm": true, "cargo": true,
	"make": true, "pytest": true, "mvn": true, "gradle": true,
}

var lintToolWords = map[string]bool{
	"golangci-lint": true, "eslint": true, "flake8": true, "ruff": true,
	"staticcheck": true, "shellcheck": true,
}

// BuildOptimizer condenses build/test/lint tool output down to the lines
// that matter: failures, errors, warnings, and any final summary.
type BuildOptimizer struct {
	limits config.BuildLimits
}

func NewBuild(limits config.BuildLimits) *BuildOptimizer {
	return &BuildOptimizer{limits: limits}
}

func (b *BuildOptimizer) Name() string { return "build" }

func (b *BuildOptimizer) CanHandle(ctx types.CommandContext) bool {
	words := coreWords(ctx.Core)
	if len(words) == 0 {
		return false
	}
	if lintToolWords[words[0]] {
		return true
	}
	if !buildToolWords[words[0]] {
		return false
	}
	return len(words) >= 2 &&
		(words[1] == "test" || words[1] == "build" || words[1] == "vet" || words[1] == "lint" || words[1] == "run")
}

func (b *BuildOptimizer) OptimizeOutput(_ context.Context, ctx types.CommandContext, raw string) (types.OptimizedOutput, error) {
	words := coreWords(ctx.Core)
	isLint := lintToolWords[words[0]] || (len(words) >= 2 && words[1] == "lint")

	var text string
	if isLint {
		text = b.lint(raw)
	} else {
		text = b.testOrBuild(raw)
	}
	return types.OptimizedOutput{Text: text, OptimizedTokens: tokenest.Estimate(text), Name: b.Name()}, nil
}

func (b *BuildOptimizer) lint(raw string) string {
	ls := lines(raw)
	var issues []string
	for _, l := range ls {
		if strings.TrimSpace(l) != "" {
			issues = append(issues, l)
		}
	}
	max := b.limits.LintMaxIssueLines
	if len(issues) <= max {
		return joinLines(issues)
	}
	kept := append([]string{}, issues[:max]...)
	kept = append(kept, overflowFooter(max, len(issues)))
	return joinLines(kept)
}

func (b *BuildOptimizer) testOrBuild(raw string) string {
	ls := lines(raw)
	var failures, warnings, summary []string

	for _, l := range ls {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			continue
		}
		switch {
		case containsAnyFold(l, "--- fail", "fail:", "panic:", "error:", "undefined:"):
			failures = append(failures, l)
		case containsAnyFold(l, "warning:", "warn:"):
			warnings = append(warnings, l)
		case isSummaryLine(l):
			summary = append(summary, l)
		}
	}

	failures = capSlice(failures, b.limits.TestMaxFailureLines)
	warnings = capSlice(warnings, b.limits.TestMaxWarnings)

	var out []string
	out = append(out, failures...)
	out = append(out, warnings...)
	out = append(out, summary...)
	if len(out) == 0 {
		return firstNonBlankLine(raw)
	}
	return joinLines(out)
}

func isSummaryLine(l string) bool {
	t := strings.TrimSpace(l)
	return strings.HasPrefix(t, "ok ") || strings.HasPrefix(t, "FAIL") || strings.HasPrefix(t, "PASS") ||
		containsAnyFold(t, "tests passed", "tests failed", "build failed", "build succeeded")
}

func capSlice(ls []string, max int) []string {
	if len(ls) <= max {
		return ls
	}
	kept := append([]string{}, ls[:max]...)
	kept = append(kept, overflowFooter(max, len(ls)))
	return kept
}
