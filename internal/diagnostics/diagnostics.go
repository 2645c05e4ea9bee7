// Package diagnostics provides a best-effort JSONL analytics sink for
// terse's router. Every execute_run call appends one line; write failures
// are logged and swallowed — diagnostics must never affect whether a
// command's output reaches the caller.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benwelker/terse/internal/types"
)

// Event is one JSONL line recorded for a single execute_run invocation.
type Event struct {
	ID              string  `json:"id"`
	Timestamp       string  `json:"ts"`
	Command         string  `json:"command"`
	Path            string  `json:"path"`
	OptimizerName   string  `json:"optimizer_name,omitempty"`
	OriginalBytes   int     `json:"original_bytes"`
	OriginalTokens  int     `json:"original_tokens"`
	OptimizedTokens int     `json:"optimized_tokens"`
	ReductionPct    float64 `json:"reduction_pct"`
	PreprocessMs    int64   `json:"preprocess_ms"`
	LLMLatencyMs    int64   `json:"llm_latency_ms,omitempty"`
	Diagnostics     []types.Diagnostic `json:"diagnostics,omitempty"`
}

// Sink is a handle for appending diagnostic events to one JSONL file.
//
// Expectations:
//   - All methods are nil-safe (no-op when called on nil *Sink)
//   - Concurrent writes are safe (mutex-protected)
//   - Open creates the parent directory if absent
type Sink struct {
	mu sync.Mutex
	f  *os.File
}

// Open creates (or appends to) the JSONL file at path, creating its parent
// directory if needed. Returns nil on any failure — diagnostics are
// best-effort and a nil *Sink is safe to use.
func Open(path string) *Sink {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("[diagnostics] could not create dir for %s: %v", path, err)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("[diagnostics] could not open %s: %v", path, err)
		return nil
	}
	return &Sink{f: f}
}

// Record appends one event describing an execute_run call.
func (s *Sink) Record(command string, result types.ExecutionResult) {
	if s == nil {
		return
	}
	e := Event{
		ID:              uuid.NewString(),
		Timestamp:       time.Now().UTC().Format(time.RFC3339Nano),
		Command:         command,
		Path:            string(result.Path),
		OptimizerName:   result.OptimizerName,
		OriginalBytes:   result.Preprocessed.OriginalBytes,
		OriginalTokens:  result.OriginalTokens,
		OptimizedTokens: result.OptimizedTokens,
		ReductionPct:    result.ReductionFooterPct(),
		PreprocessMs:    result.Preprocessed.Duration.Milliseconds(),
		LLMLatencyMs:    result.LLMLatency.Milliseconds(),
		Diagnostics:     result.Diagnostics,
	}
	s.write(e)
}

func (s *Sink) write(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("[diagnostics] marshal error: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return
	}
	if _, err := fmt.Fprintf(s.f, "%s\n", data); err != nil {
		log.Printf("[diagnostics] write error: %v", err)
	}
}

// Close flushes and closes the underlying file. Safe on a nil *Sink.
func (s *Sink) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f != nil {
		_ = s.f.Close()
		s.f = nil
	}
}

// DefaultPath returns the default diagnostics log location,
// ~/.cache/terse/diagnostics.jsonl, in the same directory as terse's debug
// log (the circuit-breaker file lives under ~/.terse instead).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".terse-diagnostics.jsonl")
	}
	return filepath.Join(home, ".cache", "terse", "diagnostics.jsonl")
}
