package llmclient

import "strings"

// maxLengthRatio bounds how much longer the condensed response may be than
// the raw output it was meant to shrink. A response above this ratio means
// the model padded rather than condensed, and the caller should fall back.
const maxLengthRatio = 1.1

var hallucinationMarkers = []string{
	"i apologize",
	"i'm sorry",
	"as an ai",
	"i cannot",
	"i don't have access",
	"here is the condensed",
	"here's the condensed",
	"sure, here",
	"certainly!",
	"of course!",
}

// Validate reports whether a condensed response is safe to use in place of
// raw output: non-empty, not padded past raw's length, and free of the
// denylisted hallucination phrases a model emits when it has nothing to
// condense and fabricates a reply instead.
func Validate(response, raw string) error {
	trimmed := strings.TrimSpace(response)
	if trimmed == "" {
		return errEmpty
	}
	if len(raw) > 0 && float64(len(trimmed)) > float64(len(raw))*maxLengthRatio {
		return errTooLong
	}
	lower := strings.ToLower(trimmed)
	for _, marker := range hallucinationMarkers {
		if strings.Contains(lower, marker) {
			return errHallucination
		}
	}
	return nil
}

type validationError string

func (e validationError) Error() string { return string(e) }

const (
	errEmpty         = validationError("llmclient: empty response")
	errTooLong       = validationError("llmclient: response longer than raw output allows")
	errHallucination = validationError("llmclient: response contains a hallucination marker")
)

// Clean strips think blocks, code fences, and a leading restated command
// line some models prepend despite instructions not to.
func Clean(response, command string) string {
	s := StripFences(response)
	lines := strings.SplitN(s, "\n", 2)
	if len(lines) == 2 && strings.Contains(strings.ToLower(lines[0]), strings.ToLower(command)) {
		s = strings.TrimSpace(lines[1])
	}
	return s
}
