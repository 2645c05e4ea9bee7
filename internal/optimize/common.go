// Package optimize implements terse's rule-based optimizer family: one
// condenser per recognized command shape (git, file, build, docker), plus
// a whitespace and a fully generic catch-all.
package optimize

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// lines splits s on "\n" — preprocessing has already normalized line
// endings by the time output reaches an optimizer.
func lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func joinLines(ls []string) string {
	return strings.Join(ls, "\n")
}

// coreWords lowercases and splits ctx.Core on whitespace, for
// prefix-based command classification.
func coreWords(core string) []string {
	return strings.Fields(strings.ToLower(core))
}

// hasPrefixWords reports whether words starts with the given sequence.
func hasPrefixWords(words []string, prefix ...string) bool {
	if len(words) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if words[i] != p {
			return false
		}
	}
	return true
}

// overflowFooter renders the standard "...+K more entries (N total)"
// summary line file/docker optimizers append after a capped list.
func overflowFooter(shown, total int) string {
	return fmt.Sprintf("...+%d more entries (%d total)", total-shown, total)
}

// omissionMarker renders the standard cat/head/tail omission line.
func omissionMarker(total int) string {
	return fmt.Sprintf("... (omitted, %d total) ...", total)
}

// truncateCell shortens a table cell to at most width display columns
// (rune-width aware, so CJK characters in e.g. docker image tags don't
// blow out a fixed-width column), appending an ellipsis when cut.
func truncateCell(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width-1, "…")
}

// containsAnyFold reports whether s contains any of substrs, case-folded.
func containsAnyFold(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// firstNonBlankLine returns the first non-blank (after trimming) line of s.
func firstNonBlankLine(s string) string {
	for _, l := range lines(s) {
		if strings.TrimSpace(l) != "" {
			return strings.TrimSpace(l)
		}
	}
	return ""
}
