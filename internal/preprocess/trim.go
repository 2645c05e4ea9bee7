package preprocess

import "strings"

// normalizeWhitespace is preprocessing stage 5: trim trailing whitespace
// from every line, collapse runs of 3+ blank lines to exactly 2, and trim
// leading/trailing blank lines from the whole result.
func normalizeWhitespace(lines []string) []string {
	trimmed := make([]string, len(lines))
	for i, l := range lines {
		trimmed[i] = strings.TrimRight(l, " \t")
	}

	out := make([]string, 0, len(trimmed))
	blankRun := 0
	for _, l := range trimmed {
		if l == "" {
			blankRun++
			if blankRun > 2 {
				continue
			}
			out = append(out, l)
			continue
		}
		blankRun = 0
		out = append(out, l)
	}

	start := 0
	for start < len(out) && out[start] == "" {
		start++
	}
	end := len(out)
	for end > start && out[end-1] == "" {
		end--
	}
	return out[start:end]
}
