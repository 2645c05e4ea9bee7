package optimize

import (
	"context"
	"strings"
	"testing"

	"github.com/benwelker/terse/internal/config"
	"github.com/benwelker/terse/internal/types"
)

func ctxFor(core string) types.CommandContext {
	return types.CommandContext{Original: core, Core: core}
}

func TestRegistryGitDiffCapsPlusMinusLines(t *testing.T) {
	cfg := config.Default()
	cfg.Git.DiffMaxPlusMinusLines = 2
	cfg.Git.DiffMaxLines = 50
	reg := NewRegistry(cfg)

	raw := "diff --git a/x b/x\n--- a/x\n+++ b/x\n@@ -1,3 +1,3 @@\n+a\n+b\n+c\n-d\n"
	out, ok := reg.Select(context.Background(), ctxFor("git diff"), raw)
	if !ok {
		t.Fatal("expected a match")
	}
	if out.Name != "git" {
		t.Fatalf("name = %q", out.Name)
	}
	if strings.Count(out.Text, "\n+")+strings.Count(out.Text, "\n-")-strings.Count(out.Text, "\n+++ ")-strings.Count(out.Text, "\n--- ") > 2 {
		t.Fatalf("plus/minus cap not enforced: %q", out.Text)
	}
	if !strings.Contains(out.Text, "...diff truncated...") {
		t.Fatal("expected truncation marker")
	}
}

func TestRegistryGitBranchReordersCurrentFirst(t *testing.T) {
	reg := NewRegistry(config.Default())
	raw := "  feature-a\n* main\n  feature-b\n"
	out, ok := reg.Select(context.Background(), ctxFor("git branch"), raw)
	if !ok {
		t.Fatal("expected a match")
	}
	if !strings.HasPrefix(out.Text, "* main") {
		t.Fatalf("current branch not first: %q", out.Text)
	}
}

func TestRegistryGitShortStatusSuccess(t *testing.T) {
	reg := NewRegistry(config.Default())
	out, ok := reg.Select(context.Background(), ctxFor("git push"), "Everything up-to-date\n")
	if !ok {
		t.Fatal("expected a match")
	}
	if out.Text != "git push: success" {
		t.Fatalf("text = %q", out.Text)
	}
}

func TestRegistryGitShortStatusFailure(t *testing.T) {
	reg := NewRegistry(config.Default())
	out, ok := reg.Select(context.Background(), ctxFor("git push"), "error: failed to push some refs\n")
	if !ok {
		t.Fatal("expected a match")
	}
	if !strings.HasPrefix(out.Text, "git push: failed - ") {
		t.Fatalf("text = %q", out.Text)
	}
}

func TestRegistryFileLsCapsEntries(t *testing.T) {
	cfg := config.Default()
	cfg.File.LsMaxEntries = 3
	reg := NewRegistry(cfg)

	raw := strings.Join([]string{"a", "b", "c", "d", "e"}, "\n")
	out, ok := reg.Select(context.Background(), ctxFor("ls -la"), raw)
	if !ok {
		t.Fatal("expected a match")
	}
	if out.Name != "file" {
		t.Fatalf("name = %q", out.Name)
	}
	if !strings.Contains(out.Text, "more entries") {
		t.Fatalf("expected overflow footer: %q", out.Text)
	}
}

func TestRegistryFileCatHeadTail(t *testing.T) {
	cfg := config.Default()
	cfg.File.CatMaxLines = 5
	cfg.File.CatHeadLines = 2
	cfg.File.CatTailLines = 2
	reg := NewRegistry(cfg)

	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString("line\n")
	}
	out, ok := reg.Select(context.Background(), ctxFor("cat big.log"), sb.String())
	if !ok {
		t.Fatal("expected a match")
	}
	if !strings.Contains(out.Text, "omitted") {
		t.Fatalf("expected omission marker: %q", out.Text)
	}
}

func TestRegistryBuildKeepsFailuresAndSummary(t *testing.T) {
	reg := NewRegistry(config.Default())
	raw := "=== RUN   TestFoo\n--- FAIL: TestFoo (0.00s)\n    foo_test.go:10: boom\nFAIL\nFAIL\texample.com/pkg\t0.003s\n"
	out, ok := reg.Select(context.Background(), ctxFor("go test ./..."), raw)
	if !ok {
		t.Fatal("expected a match")
	}
	if out.Name != "build" {
		t.Fatalf("name = %q", out.Name)
	}
	if !strings.Contains(out.Text, "FAIL") {
		t.Fatalf("expected failure content retained: %q", out.Text)
	}
}

func TestRegistryDockerPsTruncatesColumns(t *testing.T) {
	reg := NewRegistry(config.Default())
	raw := "CONTAINER ID  IMAGE  COMMAND  STATUS\nabc123  myregistry.example.com/very/long/image/path:latest  \"/bin/sh\"  Up 2 hours\n"
	out, ok := reg.Select(context.Background(), ctxFor("docker ps"), raw)
	if !ok {
		t.Fatal("expected a match")
	}
	if out.Name != "docker" {
		t.Fatalf("name = %q", out.Name)
	}
	if strings.Contains(out.Text, "myregistry.example.com/very/long/image/path:latest") {
		t.Fatalf("long image column not truncated: %q", out.Text)
	}
}

func TestRegistryFallsThroughToGenericWhenOversized(t *testing.T) {
	cfg := config.Default()
	cfg.Generic.MaxLines = 10
	reg := NewRegistry(cfg)

	var sb strings.Builder
	for i := 0; i < 100; i++ {
		sb.WriteString("some unrelated output line\n")
	}
	out, ok := reg.Select(context.Background(), ctxFor("some-unknown-tool --flag"), sb.String())
	if !ok {
		t.Fatal("expected a match")
	}
	if out.Name != "generic" {
		t.Fatalf("expected generic fallback, got %q", out.Name)
	}
	if !strings.Contains(out.Text, "omitted") {
		t.Fatalf("expected omission marker: %q", out.Text)
	}
}

func TestRegistryWhitespaceHandlesSmallUnknownOutput(t *testing.T) {
	reg := NewRegistry(config.Default())
	out, ok := reg.Select(context.Background(), ctxFor("echo hi"), "hi\n\n\n\nbye\n")
	if !ok {
		t.Fatal("expected a match")
	}
	if out.Name != "whitespace" {
		t.Fatalf("expected whitespace, got %q", out.Name)
	}
	if strings.Contains(out.Text, "\n\n\n") {
		t.Fatalf("blank run not collapsed: %q", out.Text)
	}
}
