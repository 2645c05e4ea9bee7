package preprocess

import (
	"fmt"
	"strings"
)

// truncateToSize is preprocessing stage 4: bound text to max_bytes. Text
// within budget passes through unchanged. Text with <= 6 lines always
// degrades to a pure byte-level head/tail cut; longer text gets a
// line-aware 40/40/20 head/tail/marker budget split, degrading to the
// byte-level cut if head and tail would overlap.
func truncateToSize(text string, maxBytes int) string {
	if maxBytes <= 0 || len(text) <= maxBytes {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) <= 6 {
		return byteLevelCut(text, maxBytes)
	}

	headBudget := maxBytes * 40 / 100
	tailBudget := maxBytes * 40 / 100

	headLines, headBytes, headCount := takeHeadLines(lines, headBudget)
	tailLines, tailBytes, tailCount := takeTailLines(lines, tailBudget)

	if headCount+tailCount >= len(lines) {
		return byteLevelCut(text, maxBytes)
	}

	droppedLines := len(lines) - headCount - tailCount
	droppedBytes := len(text) - headBytes - tailBytes

	var b strings.Builder
	b.WriteString(strings.Join(headLines, "\n"))
	fmt.Fprintf(&b, "\n[... %d lines (%d bytes) truncated ...]\n\n", droppedLines, droppedBytes)
	b.WriteString(strings.Join(tailLines, "\n"))
	return b.String()
}

func takeHeadLines(lines []string, budget int) ([]string, int, int) {
	used := 0
	n := 0
	for n < len(lines) {
		cost := len(lines[n]) + 1
		if used+cost > budget {
			break
		}
		used += cost
		n++
	}
	return lines[:n], used, n
}

func takeTailLines(lines []string, budget int) ([]string, int, int) {
	used := 0
	n := 0
	for n < len(lines) {
		idx := len(lines) - 1 - n
		cost := len(lines[idx]) + 1
		if used+cost > budget {
			break
		}
		used += cost
		n++
	}
	start := len(lines) - n
	return lines[start:], used, n
}

func byteLevelCut(text string, maxBytes int) string {
	half := maxBytes / 2
	if half <= 0 || half*2 >= len(text) {
		return text
	}
	head := text[:half]
	tail := text[len(text)-half:]
	removed := len(text) - len(head) - len(tail)
	return fmt.Sprintf("%s\n[... %d bytes truncated ...]\n%s", head, removed, tail)
}
