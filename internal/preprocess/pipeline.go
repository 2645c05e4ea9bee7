// Package preprocess implements terse's five-stage, buffered preprocessing
// pipeline: noise removal, path filtering, deduplication, size-bounded
// truncation, and whitespace normalization. Every stage is infallible and
// falls back to identity on unexpected input.
package preprocess

import (
	"strings"
	"time"

	"github.com/benwelker/terse/internal/tokenest"
	"github.com/benwelker/terse/internal/types"
)

// Limits bounds the preprocessing pipeline's behavior; all fields come from
// configuration.
type Limits struct {
	MaxBytes int
}

// DefaultLimits matches the reference configuration's defaults.
func DefaultLimits() Limits {
	return Limits{MaxBytes: 8192}
}

// Run executes the five-stage pipeline over raw and returns the cleaned
// text plus its statistics. It never panics: any unexpected failure in a
// stage (the design asserts none should occur) is caught and the original
// input is emitted unchanged, per spec.md §7's "Preprocessing exception"
// policy.
func Run(raw string, limits Limits) (out types.PreprocessedOutput) {
	start := time.Now()
	originalBytes := len(raw)

	defer func() {
		if r := recover(); r != nil {
			out = types.PreprocessedOutput{
				Text:           raw,
				OriginalBytes:  originalBytes,
				BytesRemoved:   0,
				ReductionPct:   0,
				Duration:       time.Since(start),
				OriginalTokens: tokenest.Estimate(raw),
			}
			out.OptimizedTokens = out.OriginalTokens
		}
	}()

	normalized := normalizeLineEndings(raw)
	lines := strings.Split(normalized, "\n")

	lines = removeNoise(lines)
	lines = filterNoisePaths(lines)
	lines = dedupe(lines)
	text := strings.Join(lines, "\n")
	text = truncateToSize(text, limits.MaxBytes)
	lines = normalizeWhitespace(strings.Split(text, "\n"))
	text = strings.Join(lines, "\n")

	bytesRemoved := originalBytes - len(text)
	if bytesRemoved < 0 {
		bytesRemoved = 0
	}
	reductionPct := 0.0
	if originalBytes > 0 {
		reductionPct = 100 * float64(bytesRemoved) / float64(originalBytes)
	}

	return types.PreprocessedOutput{
		Text:            text,
		OriginalBytes:   originalBytes,
		BytesRemoved:    bytesRemoved,
		ReductionPct:    reductionPct,
		Duration:        time.Since(start),
		OriginalTokens:  tokenest.Estimate(raw),
		OptimizedTokens: tokenest.Estimate(text),
	}
}

// normalizeLineEndings converts CRLF line terminators to LF. A '\r' that is
// not immediately followed by '\n' is left in place, so a mid-line '\r'
// (an overwritten progress frame) stays visible to stage 1's progress-line
// detection.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return s
}
