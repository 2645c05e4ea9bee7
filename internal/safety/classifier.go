// Package safety implements terse's safety layer: command classification
// (may this command's output be optimized at all?) and the per-path
// circuit breaker.
package safety

import (
	"strings"

	"github.com/benwelker/terse/internal/matching"
)

// Classification is the outcome of classifying a command.
type Classification int

const (
	Optimizable Classification = iota
	NeverOptimize
)

// neverOptimizeBuiltins is the closed set of destructive and editor command
// names from spec.md §6, matched case-insensitively against the first word
// of the extracted core.
var neverOptimizeBuiltins = map[string]struct{}{
	"rm": {}, "rmdir": {}, "mv": {}, "del": {}, "erase": {}, "rd": {}, "ren": {},
	"move": {}, "copy": {}, "xcopy": {}, "robocopy": {},
	"remove-item": {}, "move-item": {}, "rename-item": {}, "ri": {}, "mi": {},
	"set-content": {}, "out-file": {}, "add-content": {},
	"vim": {}, "vi": {}, "nano": {}, "emacs": {}, "code": {}, "subl": {},
	"notepad": {}, "notepad++": {},
}

// Classifier decides whether a command may be optimized. The configured
// passthrough list (rule 2) is supplied by the caller, since it lives in
// config and not in the core's built-in set.
type Classifier struct {
	PassthroughList map[string]struct{}
}

// New builds a Classifier from a configured passthrough command list
// (case-insensitive first-word match).
func New(passthrough []string) *Classifier {
	m := make(map[string]struct{}, len(passthrough))
	for _, name := range passthrough {
		m[strings.ToLower(name)] = struct{}{}
	}
	return &Classifier{PassthroughList: m}
}

// Classify applies spec.md §4.2's rules in order, first match wins.
func (c *Classifier) Classify(original string) Classification {
	core := matching.ExtractCore(original)
	firstWord := strings.ToLower(firstWord(core))

	if _, ok := neverOptimizeBuiltins[firstWord]; ok {
		return NeverOptimize
	}
	if _, ok := c.PassthroughList[firstWord]; ok {
		return NeverOptimize
	}
	if hasUnquotedRedirect(original) {
		return NeverOptimize
	}
	return Optimizable
}

func firstWord(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.IndexAny(s, " \t\n\r"); i >= 0 {
		return s[:i]
	}
	return s
}

// hasUnquotedRedirect reports whether the full command contains an unquoted
// ">" or ">>" that is not ">&" (fd duplication) and not preceded by "<"
// (heredoc sentinel, e.g. "<<-" false-positives on a lone ">").
func hasUnquotedRedirect(s string) bool {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '>':
			if i > 0 && s[i-1] == '<' {
				continue // heredoc sentinel "<>", not a real redirect
			}
			if i+1 < len(s) && s[i+1] == '&' {
				continue // fd duplication, e.g. "2>&1"
			}
			return true
		}
	}
	return false
}
