// Package router implements terse's two entry points: decide_hook (should
// the host rewrite this command to run through terse?) and execute_run
// (actually run a command and condense its output).
package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/benwelker/terse/internal/config"
	"github.com/benwelker/terse/internal/diagnostics"
	"github.com/benwelker/terse/internal/llmclient"
	"github.com/benwelker/terse/internal/matching"
	"github.com/benwelker/terse/internal/optimize"
	"github.com/benwelker/terse/internal/preprocess"
	"github.com/benwelker/terse/internal/safety"
	"github.com/benwelker/terse/internal/shellexec"
	"github.com/benwelker/terse/internal/tokenest"
	"github.com/benwelker/terse/internal/types"
)

// Router holds the wiring execute_run and decide_hook need: configuration,
// the rule-based optimizer registry, the safety classifier, the circuit
// breaker, an optional LLM client, and a diagnostics sink.
type Router struct {
	cfg        config.Config
	classifier *safety.Classifier
	breaker    *safety.Breaker
	registry   *optimize.Registry
	llm        *llmclient.Client
	diag       *diagnostics.Sink
}

// New wires a Router from cfg. breaker and diag may be built from their
// respective DefaultPath()s by the caller (cmd/terse) so router stays
// agnostic of concrete file locations.
func New(cfg config.Config, breaker *safety.Breaker, diag *diagnostics.Sink) *Router {
	return &Router{
		cfg:        cfg,
		classifier: safety.New(cfg.Passthrough),
		breaker:    breaker,
		registry:   optimize.NewRegistry(cfg),
		llm:        llmclient.New(cfg.LLM),
		diag:       diag,
	}
}

// DecideHook implements spec.md §4.7's five ordered gates, deciding whether
// the host should rewrite command to run through terse instead of executing
// it directly.
func (r *Router) DecideHook(command string) types.HookDecision {
	if !r.cfg.Enabled || r.cfg.Mode == config.ModePassthrough {
		return types.HookDecision{Rewrite: false, Reason: types.ReasonNoPathAvailable}
	}
	if matching.IsTerseInvocation(command) {
		return types.HookDecision{Rewrite: false, Reason: types.ReasonTerseInvocation}
	}
	if matching.ContainsHeredoc(command) {
		return types.HookDecision{Rewrite: false, Reason: types.ReasonHeredoc}
	}
	if r.classifier.Classify(command) == safety.NeverOptimize {
		return types.HookDecision{Rewrite: false, Reason: types.ReasonNeverOptimize}
	}
	if !r.breaker.IsAllowed(safety.FastPath) && !r.breaker.IsAllowed(safety.SmartPath) {
		return types.HookDecision{Rewrite: false, Reason: types.ReasonNoPathAvailable}
	}
	return types.HookDecision{Rewrite: true}
}

// ExecuteRun runs command through the platform shell, preprocesses the
// captured output, and routes it through the smart path (LLM condensation),
// the fast path (rule-based optimizers), or passthrough, honoring the
// circuit breaker and configured mode at every step.
func (r *Router) ExecuteRun(goCtx context.Context, command string) types.ExecutionResult {
	shellResult, err := shellexec.Run(goCtx, command)
	if err != nil {
		shellResult.ExitCode = -1
		shellResult.Stderr = err.Error()
	}
	raw := shellResult.Combined()

	preprocessed := preprocess.Run(raw, preprocess.Limits{MaxBytes: r.cfg.PreprocessMaxBytes})

	result := types.ExecutionResult{
		ExitCode:       shellResult.ExitCode,
		OriginalTokens: preprocessed.OriginalTokens,
		Preprocessed:   preprocessed,
	}

	if len(preprocessed.Text) < r.cfg.Thresholds.PassthroughBelowBytes || !r.cfg.Enabled || r.cfg.Mode == config.ModePassthrough {
		return r.passthrough(command, shellResult, preprocessed, result)
	}

	ctx := types.CommandContext{Original: command, Core: matching.ExtractCore(command)}
	var diagList []types.Diagnostic

	if r.wantSmartPath(preprocessed) {
		if out, ok := r.trySmartPath(goCtx, ctx, preprocessed.Text); ok {
			result.Output = appendTruncationFooter(out.text, preprocessed.OriginalBytes)
			result.Path = types.PathSmart
			result.OptimizerName = "llm"
			result.OptimizedTokens = out.tokens
			result.LLMLatency = out.latency
			r.breaker.Record(safety.SmartPath, true)
			r.breaker.Save()
			result.Diagnostics = diagList
			r.record(command, result)
			return result
		}
		diagList = append(diagList, types.Diagnostic{Stage: "smart", Reason: "unavailable_or_invalid"})
		r.breaker.Record(safety.SmartPath, false)
	}

	if r.wantFastPath() {
		if out, ok := r.registry.Select(goCtx, ctx, preprocessed.Text); ok {
			result.Output = appendTruncationFooter(out.Text, preprocessed.OriginalBytes)
			result.Path = types.PathFast
			result.OptimizerName = out.Name
			result.OptimizedTokens = out.OptimizedTokens
			r.breaker.Record(safety.FastPath, true)
			r.breaker.Save()
			result.Diagnostics = diagList
			r.record(command, result)
			return result
		}
		diagList = append(diagList, types.Diagnostic{Stage: "fast", Reason: "no_optimizer_matched"})
		r.breaker.Record(safety.FastPath, false)
	}

	r.breaker.Save()
	result.Diagnostics = diagList
	return r.passthrough(command, shellResult, preprocessed, result)
}

// passthrough returns output = raw stdout, stderr preserved, per spec.md
// §4.7 step 3 — the preprocessed/condensed text is never substituted here.
func (r *Router) passthrough(command string, shellResult shellexec.Result, pre types.PreprocessedOutput, result types.ExecutionResult) types.ExecutionResult {
	result.Output = shellResult.Stdout
	result.Stderr = shellResult.Stderr
	result.Path = types.PathPassthrough
	result.OptimizedTokens = pre.OriginalTokens
	r.record(command, result)
	return result
}

// appendTruncationFooter appends the synthetic "[output truncated: showing
// X of Y bytes (Z.ZZ% removed)]" marker spec.md §4.7 requires whenever an
// optimized output (shown bytes X) is smaller than the raw captured output
// (Y, PreprocessedOutput.OriginalBytes: the byte count before
// preprocessing), so the footer reflects the router's own disclosure rather
// than the internal ReductionFooterPct display stat.
func appendTruncationFooter(output string, originalBytes int) string {
	shown := len(output)
	if originalBytes <= 0 || shown >= originalBytes {
		return output
	}
	pct := 100 * (1 - float64(shown)/float64(originalBytes))
	if pct > 99.9 && shown > 0 {
		pct = 99.9
	}
	if pct < 0 {
		pct = 0
	}
	footer := fmt.Sprintf("[output truncated: showing %d of %d bytes (%.2f%% removed)]", shown, originalBytes, pct)
	if output == "" {
		return footer
	}
	return output + "\n" + footer
}

func (r *Router) wantSmartPath(pre types.PreprocessedOutput) bool {
	if r.cfg.Mode == config.ModeFastOnly || r.cfg.SafeMode {
		return false
	}
	if r.cfg.Mode != config.ModeHybrid && r.cfg.Mode != config.ModeSmartOnly {
		return false
	}
	if !r.cfg.LLM.Enabled {
		return false
	}
	if pre.OriginalBytes < r.cfg.Thresholds.SmartPathAboveBytes {
		return false
	}
	return r.breaker.IsAllowed(safety.SmartPath)
}

func (r *Router) wantFastPath() bool {
	if r.cfg.Mode == config.ModeSmartOnly {
		return false
	}
	return r.breaker.IsAllowed(safety.FastPath)
}

type smartResult struct {
	text    string
	tokens  int
	latency time.Duration
}

// trySmartPath asks the LLM to condense text, validating and cleaning the
// response before accepting it. Any failure — unhealthy daemon, request
// error, or a response that fails validation — returns ok=false so the
// caller falls through to the fast path.
func (r *Router) trySmartPath(goCtx context.Context, ctx types.CommandContext, text string) (smartResult, bool) {
	llmCtx, cancel := context.WithTimeout(goCtx, r.cfg.LLM.Timeout)
	defer cancel()

	if !r.llm.IsHealthy(llmCtx) {
		return smartResult{}, false
	}

	cat := llmclient.Classify(strings.Fields(strings.ToLower(ctx.Core)))
	system := llmclient.SystemPrompt(cat)
	user := llmclient.UserPrompt(ctx.Original, text)

	start := time.Now()
	response, err := r.llm.Chat(llmCtx, system, user)
	latency := time.Since(start)
	if err != nil {
		return smartResult{}, false
	}

	cleaned := llmclient.Clean(response, ctx.Original)
	if err := llmclient.Validate(cleaned, text); err != nil {
		return smartResult{}, false
	}

	return smartResult{text: cleaned, tokens: tokenest.Estimate(cleaned), latency: latency}, true
}

func (r *Router) record(command string, result types.ExecutionResult) {
	if r.diag == nil {
		return
	}
	r.diag.Record(command, result)
}
