package router

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/benwelker/terse/internal/config"
	"github.com/benwelker/terse/internal/safety"
	"github.com/benwelker/terse/internal/types"
)

func newTestRouter(t *testing.T, mutate func(*config.Config)) *Router {
	t.Helper()
	cfg := config.Default()
	cfg.LLM.Enabled = false // no daemon in test environment; exercises fast path
	if mutate != nil {
		mutate(&cfg)
	}
	breaker := safety.Load(t.TempDir()+"/breaker.json", cfg.Breaker.Window, cfg.Breaker.Threshold, cfg.Breaker.Cooldown)
	return New(cfg, breaker, nil)
}

func TestDecideHookRewritesOrdinaryCommand(t *testing.T) {
	r := newTestRouter(t, nil)
	d := r.DecideHook("git status")
	if !d.Rewrite {
		t.Fatalf("expected rewrite, got reason %q", d.Reason)
	}
}

func TestDecideHookPassesThroughNeverOptimize(t *testing.T) {
	r := newTestRouter(t, nil)
	d := r.DecideHook("rm -rf build")
	if d.Rewrite {
		t.Fatal("expected passthrough for rm")
	}
	if d.Reason != types.ReasonNeverOptimize {
		t.Fatalf("reason = %q", d.Reason)
	}
}

func TestDecideHookPassesThroughTerseInvocation(t *testing.T) {
	r := newTestRouter(t, nil)
	d := r.DecideHook("terse run 'git status'")
	if d.Rewrite {
		t.Fatal("expected passthrough for terse re-invocation")
	}
	if d.Reason != types.ReasonTerseInvocation {
		t.Fatalf("reason = %q", d.Reason)
	}
}

func TestDecideHookPassesThroughHeredoc(t *testing.T) {
	r := newTestRouter(t, nil)
	d := r.DecideHook("cat <<EOF\nhello\nEOF")
	if d.Rewrite {
		t.Fatal("expected passthrough for heredoc")
	}
	if d.Reason != types.ReasonHeredoc {
		t.Fatalf("reason = %q", d.Reason)
	}
}

func TestDecideHookDisabledConfig(t *testing.T) {
	r := newTestRouter(t, func(c *config.Config) { c.Enabled = false })
	d := r.DecideHook("git status")
	if d.Rewrite {
		t.Fatal("expected passthrough when disabled")
	}
}

func TestExecuteRunSmallOutputPassesThrough(t *testing.T) {
	r := newTestRouter(t, nil)
	result := r.ExecuteRun(context.Background(), "echo hi")
	if result.Path != types.PathPassthrough {
		t.Fatalf("path = %q", result.Path)
	}
	if !strings.Contains(result.Output, "hi") {
		t.Fatalf("output = %q", result.Output)
	}
}

func TestExecuteRunLargeOutputUsesFastPath(t *testing.T) {
	r := newTestRouter(t, func(c *config.Config) {
		c.Thresholds.PassthroughBelowBytes = 10
	})
	result := r.ExecuteRun(context.Background(), "seq 1 500")
	if result.Path != types.PathFast {
		t.Fatalf("path = %q, output = %q", result.Path, result.Output)
	}
}

func TestExecuteRunAlwaysAssignsAPath(t *testing.T) {
	r := newTestRouter(t, func(c *config.Config) {
		c.Thresholds.PassthroughBelowBytes = 1
	})
	result := r.ExecuteRun(context.Background(), "git --version")
	if result.Path == "" {
		t.Fatal("expected a non-empty path")
	}
}

func TestExecuteRunFastPathTripsBreakerAfterRepeatedFailures(t *testing.T) {
	r := newTestRouter(t, func(c *config.Config) {
		c.Breaker.Window = 3
		c.Breaker.Threshold = 0.5
		c.Thresholds.PassthroughBelowBytes = 1
	})
	for i := 0; i < 3; i++ {
		r.breaker.Record(safety.FastPath, false)
	}
	if r.breaker.IsAllowed(safety.FastPath) {
		t.Fatal("expected fast path tripped after repeated failures")
	}
	result := r.ExecuteRun(context.Background(), "echo hello world this is definitely not empty output at all")
	if result.Path == types.PathFast {
		t.Fatal("fast path should not be used while tripped")
	}
}

func TestExecuteRunRespectsFastOnlyMode(t *testing.T) {
	r := newTestRouter(t, func(c *config.Config) {
		c.Mode = config.ModeFastOnly
		c.Thresholds.PassthroughBelowBytes = 1
	})
	result := r.ExecuteRun(context.Background(), "echo hello world this is definitely not empty output at all")
	if result.Path == types.PathSmart {
		t.Fatal("fast-only mode must never use the smart path")
	}
}

func TestExecuteRunTimingBudget(t *testing.T) {
	r := newTestRouter(t, nil)
	start := time.Now()
	r.ExecuteRun(context.Background(), "echo quick")
	if time.Since(start) > 5*time.Second {
		t.Fatal("execute_run took unexpectedly long")
	}
}
