package preprocess

import (
	"fmt"
	"strings"
)

// noiseSegments is the fixed set of directory-name substrings considered
// conventionally irrelevant to a coding assistant.
var noiseSegments = []string{
	"node_modules", ".git/objects", "target/debug/deps", "target/release/deps",
	"__pycache__", "dist/", ".next/", "vendor/bundle", "Pods/",
	".cargo/registry", ".venv/", "site-packages/", ".tox/", "coverage/",
	".gradle/", ".m2/repository", "bower_components",
}

var treeGlyphs = "│├└─┬┤┌┐┘┴"

// isNoisePathLine reports whether line looks like a path inside a noise
// directory: non-empty after stripping tree-drawing glyphs and normalizing
// backslashes to forward slashes, and containing one of the noise
// directory segments.
func isNoisePathLine(line string) bool {
	stripped := stripTreeGlyphs(line)
	stripped = strings.ReplaceAll(stripped, `\`, "/")
	if strings.TrimSpace(stripped) == "" {
		return false
	}
	for _, seg := range noiseSegments {
		if strings.Contains(stripped, seg) {
			return true
		}
	}
	return false
}

func stripTreeGlyphs(s string) string {
	if !strings.ContainsAny(s, treeGlyphs) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(treeGlyphs, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// filterNoisePaths is preprocessing stage 2: runs of consecutive noise-path
// lines are collapsed into a single synthetic summary line. Non-matching
// lines pass through verbatim.
func filterNoisePaths(lines []string) []string {
	out := make([]string, 0, len(lines))
	i := 0
	for i < len(lines) {
		if !isNoisePathLine(lines[i]) {
			out = append(out, lines[i])
			i++
			continue
		}
		start := i
		for i < len(lines) && isNoisePathLine(lines[i]) {
			i++
		}
		count := i - start
		out = append(out, fmt.Sprintf("[%d path(s) in noise directories filtered]", count))
	}
	return out
}
