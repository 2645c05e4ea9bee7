// Package types holds the data model shared across terse's pipeline: the
// command context handed to every stage, the optimizer contract, and the
// result objects the router hands back to the caller.
package types

import (
	"context"
	"time"
)

// CommandContext is the read-only pair of strings every matching, safety,
// and optimizer decision is made from. It is created once per router
// invocation and never mutated.
type CommandContext struct {
	// Original is the verbatim command string, used for actual execution.
	Original string
	// Core is the result of matching.ExtractCore(Original): the unwrapped,
	// de-chained, de-piped leading invocation used for family recognition.
	Core string
}

// Path identifies which branch of the pipeline produced a result.
type Path string

const (
	PathFast        Path = "fast"
	PathSmart       Path = "smart"
	PathPassthrough Path = "passthrough"
)

// PassthroughReason explains why decide_hook chose Passthrough over Rewrite.
type PassthroughReason string

const (
	ReasonNoPathAvailable PassthroughReason = "no_path_available"
	ReasonTerseInvocation PassthroughReason = "terse_invocation"
	ReasonHeredoc         PassthroughReason = "heredoc"
	ReasonNeverOptimize   PassthroughReason = "never_optimize"
)

// HookDecision is the result of decide_hook: either Rewrite (the host should
// execute updatedInput.command instead) or Passthrough with a reason.
type HookDecision struct {
	Rewrite bool
	Reason  PassthroughReason
}

// PreprocessedOutput is the immutable result of the five-stage preprocessing
// pipeline.
type PreprocessedOutput struct {
	Text            string
	OriginalBytes   int
	BytesRemoved    int
	ReductionPct    float64
	Duration        time.Duration
	OriginalTokens  int
	OptimizedTokens int
}

// OptimizedOutput is what a rule-based optimizer's OptimizeOutput returns.
type OptimizedOutput struct {
	Text            string
	OptimizedTokens int
	Name            string
}

// Optimizer is the contract every rule-based condenser implements. The
// registry holds a fixed, priority-ordered set of these.
type Optimizer interface {
	// Name is a stable identifier, e.g. "git", "file", "build", "docker",
	// "whitespace", "generic".
	Name() string
	// CanHandle reports whether this optimizer recognizes ctx.Core.
	CanHandle(ctx CommandContext) bool
	// OptimizeOutput reduces raw output captured from running ctx.Original.
	// goCtx bounds any re-execution an optimizer performs (git status/log's
	// command substitution). It must never panic; callers treat a returned
	// error as "try the next optimizer, or fall through to passthrough".
	OptimizeOutput(goCtx context.Context, ctx CommandContext, raw string) (OptimizedOutput, error)
}

// Diagnostic records why a higher-priority path was rejected during
// execute_run, for inclusion in ExecutionResult and the diagnostics log.
type Diagnostic struct {
	Stage  string // "smart", "fast"
	Reason string
}

// ExecutionResult is what the router returns from execute_run.
type ExecutionResult struct {
	Output          string
	Stderr          string // only populated on passthrough
	ExitCode        int
	Path            Path
	OptimizerName   string
	OriginalTokens  int
	OptimizedTokens int
	LLMLatency      time.Duration // zero if the smart path wasn't used
	Preprocessed    PreprocessedOutput
	Diagnostics     []Diagnostic
}

// ReductionFooterPct returns the percentage of original tokens removed,
// capped at 99.9 for non-empty output per spec §4.7.
func (r ExecutionResult) ReductionFooterPct() float64 {
	if r.OriginalTokens <= 0 {
		return 0
	}
	pct := 100 * (1 - float64(r.OptimizedTokens)/float64(r.OriginalTokens))
	if pct > 99.9 && r.OptimizedTokens > 0 {
		pct = 99.9
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}
