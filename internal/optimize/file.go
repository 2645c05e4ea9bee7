package optimize

import (
	"context"

	"github.com/benwelker/terse/internal/config"
	"github.com/benwelker/terse/internal/tokenest"
	"github.com/benwelker/terse/internal/types"
)

var fileVerbs = map[string]bool{
	"ls": true, "find": true, "cat": true, "head": true, "tail": true,
	"wc": true, "tree": true,
}

// FileOptimizer condenses filesystem listing and file-reading commands:
// ls, find, cat/head/tail, wc, tree.
type FileOptimizer struct {
	limits config.FileLimits
}

func NewFile(limits config.FileLimits) *FileOptimizer {
	return &FileOptimizer{limits: limits}
}

func (f *FileOptimizer) Name() string { return "file" }

func (f *FileOptimizer) CanHandle(ctx types.CommandContext) bool {
	words := coreWords(ctx.Core)
	if len(words) == 0 {
		return false
	}
	return fileVerbs[words[0]]
}

func (f *FileOptimizer) OptimizeOutput(_ context.Context, ctx types.CommandContext, raw string) (types.OptimizedOutput, error) {
	words := coreWords(ctx.Core)
	verb := words[0]

	var text string
	switch verb {
	case "ls":
		text = f.capList(raw, f.limits.LsMaxEntries)
	case "find":
		text = f.capList(raw, f.limits.FindMaxResults)
	case "cat", "head", "tail":
		text = f.headTail(raw, f.limits.CatMaxLines, f.limits.CatHeadLines, f.limits.CatTailLines)
	case "wc":
		text = f.capList(raw, f.limits.WcMaxLines)
	case "tree":
		text = f.capList(raw, f.limits.TreeMaxLines)
	default:
		text = raw
	}
	return types.OptimizedOutput{Text: text, OptimizedTokens: tokenest.Estimate(text), Name: f.Name()}, nil
}

// capList keeps the first max lines of a listing-style output, appending
// the standard overflow footer when entries were dropped.
func (f *FileOptimizer) capList(raw string, max int) string {
	ls := lines(raw)
	total := len(ls)
	if total <= max {
		return raw
	}
	kept := append([]string{}, ls[:max]...)
	kept = append(kept, overflowFooter(max, total))
	return joinLines(kept)
}

// headTail keeps headLines from the start and tailLines from the end when
// the output exceeds maxLines, inserting the standard omission marker.
func (f *FileOptimizer) headTail(raw string, maxLines, headLines, tailLines int) string {
	ls := lines(raw)
	total := len(ls)
	if total <= maxLines {
		return raw
	}
	var out []string
	out = append(out, ls[:headLines]...)
	out = append(out, omissionMarker(total-headLines-tailLines))
	out = append(out, ls[total-tailLines:]...)
	return joinLines(out)
}
