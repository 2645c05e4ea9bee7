package safety

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClassifierBuiltins(t *testing.T) {
	c := New(nil)
	require.Equal(t, NeverOptimize, c.Classify("rm -rf /tmp/build"))
	require.Equal(t, NeverOptimize, c.Classify("RM -rf /tmp/build"))
	require.Equal(t, NeverOptimize, c.Classify("vim file.go"))
	require.Equal(t, Optimizable, c.Classify("git status"))
}

func TestClassifierConfiguredPassthrough(t *testing.T) {
	c := New([]string{"make"})
	require.Equal(t, NeverOptimize, c.Classify("make build"))
	require.Equal(t, Optimizable, c.Classify("go build ./..."))
}

func TestClassifierRedirect(t *testing.T) {
	c := New(nil)
	require.Equal(t, NeverOptimize, c.Classify("echo hi > out.txt"))
	require.Equal(t, NeverOptimize, c.Classify("echo hi >> out.txt"))
	require.Equal(t, Optimizable, c.Classify("echo hi 2>&1"))
	require.Equal(t, Optimizable, c.Classify(`echo "a > b"`))
	require.Equal(t, NeverOptimize, c.Classify("cat <<EOF\nhi > x\nEOF"))
}

func TestClassifierChainedCommand(t *testing.T) {
	c := New(nil)
	// rule applies to the extracted core's first word, not the whole chain.
	require.Equal(t, Optimizable, c.Classify("cd /repo && git status"))
}

func TestBreakerTripAndCooldown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "circuit-breaker.json")
	b := Load(path, 5, 0.4, 10*time.Minute)

	b.Record(SmartPath, false)
	b.Record(SmartPath, false)
	b.Record(SmartPath, false)
	b.Record(SmartPath, true)
	b.Record(SmartPath, true)

	require.False(t, b.IsAllowed(SmartPath), "3/5 failures exceeds 0.4 threshold")
	require.True(t, b.IsAllowed(FastPath), "fast path must be unaffected")
}

func TestBreakerAutoResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "circuit-breaker.json")
	b := Load(path, 2, 0.4, time.Millisecond)

	b.Record(FastPath, false)
	b.Record(FastPath, false)
	require.False(t, b.IsAllowed(FastPath))

	time.Sleep(5 * time.Millisecond)
	// is_allowed alone does not clear state, only the next record_* call does.
	require.True(t, b.IsAllowed(FastPath), "deadline passed, should read as allowed")
	b.Record(FastPath, true)
	require.True(t, b.IsAllowed(FastPath))
}

func TestBreakerPersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "circuit-breaker.json")
	b := Load(path, 3, 0.5, time.Minute)
	b.Record(FastPath, false)
	b.Record(FastPath, false)
	b.Save()

	b2 := Load(path, 3, 0.5, time.Minute)
	b2.Record(FastPath, false)
	require.False(t, b2.IsAllowed(FastPath))
}

func TestBreakerResetClearsOnlyOneLane(t *testing.T) {
	path := filepath.Join(t.TempDir(), "circuit-breaker.json")
	b := Load(path, 2, 0.4, time.Minute)
	b.Record(FastPath, false)
	b.Record(FastPath, false)
	b.Record(SmartPath, false)
	b.Record(SmartPath, false)
	require.False(t, b.IsAllowed(FastPath))
	require.False(t, b.IsAllowed(SmartPath))

	b.Reset(FastPath)
	require.True(t, b.IsAllowed(FastPath))
	require.False(t, b.IsAllowed(SmartPath))

	b.ResetAll()
	require.True(t, b.IsAllowed(SmartPath))
}

func TestBreakerCorruptFileIsFreshState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "circuit-breaker.json")
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0o644))
	b := Load(path, 3, 0.5, time.Minute)
	require.True(t, b.IsAllowed(FastPath))
	require.True(t, b.IsAllowed(SmartPath))
}
