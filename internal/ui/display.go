// Package ui renders terse's condensation results to a terminal: a single
// status line while a command runs, then a colored summary of which path
// handled it and how much it shrank the output.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/benwelker/terse/internal/types"
)

// ANSI codes
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiCyan   = "\033[36m"
	ansiYellow = "\033[33m"
	ansiGreen  = "\033[32m"
	ansiRed    = "\033[31m"
	ansiBlue   = "\033[34m"
)

var pathColor = map[types.Path]string{
	types.PathFast:        ansiCyan,
	types.PathSmart:       ansiBlue,
	types.PathPassthrough: ansiDim,
}

var spinRunes = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Spinner animates a single status line while a command runs, and is
// cleared on Stop.
type Spinner struct {
	stop  chan struct{}
	done  chan struct{}
	label string
}

// NewSpinner starts a spinner with the given label, printed to stdout.
func NewSpinner(label string) *Spinner {
	s := &Spinner{stop: make(chan struct{}), done: make(chan struct{}), label: label}
	go s.run()
	return s
}

func (s *Spinner) run() {
	defer close(s.done)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()
	idx := 0
	for {
		select {
		case <-s.stop:
			fmt.Print("\r\033[K")
			return
		case <-ticker.C:
			frame := spinRunes[idx%len(spinRunes)]
			idx++
			fmt.Printf("\r\033[K%s%c%s %s", ansiCyan, frame, ansiReset, s.label)
		}
	}
}

// Stop halts the spinner and clears its line. Blocks until the goroutine
// has exited so subsequent output never races the final frame.
func (s *Spinner) Stop() {
	close(s.stop)
	<-s.done
}

// PrintResult prints a one-line colored summary of an execute_run result:
// which path handled it, which optimizer (if any), and the reduction
// percentage. Intended for terse run -v and the debug REPL.
func PrintResult(result types.ExecutionResult) {
	color := pathColor[result.Path]
	label := strings.ToUpper(string(result.Path))
	if result.OptimizerName != "" {
		label += "/" + result.OptimizerName
	}
	fmt.Printf("%s%s[%s]%s reduced %d → %d tokens (%.1f%%)",
		ansiBold, color, label, ansiReset, result.OriginalTokens, result.OptimizedTokens, result.ReductionFooterPct())
	if result.LLMLatency > 0 {
		fmt.Printf(" %sllm=%s%s", ansiDim, result.LLMLatency.Round(time.Millisecond), ansiReset)
	}
	fmt.Println()
	for _, d := range result.Diagnostics {
		fmt.Printf("%s  ↳ %s: %s%s\n", ansiDim, d.Stage, d.Reason, ansiReset)
	}
}

// PrintError prints a one-line red error message.
func PrintError(err error) {
	fmt.Printf("%s%serror:%s %v\n", ansiBold, ansiRed, ansiReset, err)
}

// PrintBreakerStatus prints the allowed/tripped state of one circuit
// breaker lane.
func PrintBreakerStatus(path string, allowed bool) {
	state := fmt.Sprintf("%sallowed%s", ansiGreen, ansiReset)
	if !allowed {
		state = fmt.Sprintf("%stripped%s", ansiRed, ansiReset)
	}
	fmt.Printf("%s%-12s%s %s\n", ansiBold, path, ansiReset, state)
}
