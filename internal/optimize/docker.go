package optimize

import (
	"context"
	"strings"

	"github.com/benwelker/terse/internal/config"
	"github.com/benwelker/terse/internal/tokenest"
	"github.com/benwelker/terse/internal/types"
)

const dockerCellWidth = 30

// DockerOptimizer condenses docker ps/images table output, docker logs,
// and docker inspect JSON dumps.
type DockerOptimizer struct {
	limits config.DockerLimits
}

func NewDocker(limits config.DockerLimits) *DockerOptimizer {
	return &DockerOptimizer{limits: limits}
}

func (d *DockerOptimizer) Name() string { return "docker" }

func (d *DockerOptimizer) CanHandle(ctx types.CommandContext) bool {
	words := coreWords(ctx.Core)
	if !hasPrefixWords(words, "docker") || len(words) < 2 {
		return false
	}
	switch words[1] {
	case "ps", "images", "logs", "inspect":
		return true
	default:
		return false
	}
}

func (d *DockerOptimizer) OptimizeOutput(_ context.Context, ctx types.CommandContext, raw string) (types.OptimizedOutput, error) {
	words := coreWords(ctx.Core)
	verb := words[1]

	var text string
	switch verb {
	case "ps", "images":
		text = d.table(raw)
	case "logs":
		text = d.logs(raw)
	case "inspect":
		text = d.inspect(raw)
	default:
		text = raw
	}
	return types.OptimizedOutput{Text: text, OptimizedTokens: tokenest.Estimate(text), Name: d.Name()}, nil
}

// table truncates each row's columns to a display-friendly width and caps
// the number of rows kept, preserving the header line.
func (d *DockerOptimizer) table(raw string) string {
	ls := lines(raw)
	if len(ls) == 0 {
		return raw
	}
	header := ls[0]
	rows := ls[1:]

	max := d.limits.InspectMaxLines
	total := len(rows)
	if total > max {
		rows = rows[:max]
	}
	var out []string
	out = append(out, truncateRow(header))
	for _, r := range rows {
		out = append(out, truncateRow(r))
	}
	if total > max {
		out = append(out, overflowFooter(max, total))
	}
	return joinLines(out)
}

func truncateRow(row string) string {
	fields := strings.Split(row, "  ")
	for i, f := range fields {
		fields[i] = truncateCell(strings.TrimSpace(f), dockerCellWidth)
	}
	return strings.Join(fields, "  ")
}

// logs keeps the last LogsMaxTail lines, plus up to LogsMaxErrors error
// lines pulled from earlier in the stream the tail would otherwise drop.
func (d *DockerOptimizer) logs(raw string) string {
	ls := lines(raw)
	total := len(ls)
	tailStart := 0
	if total > d.limits.LogsMaxTail {
		tailStart = total - d.limits.LogsMaxTail
	}
	tail := ls[tailStart:]

	var earlierErrors []string
	for _, l := range ls[:tailStart] {
		if containsAnyFold(l, "error", "exception", "panic", "fatal") {
			earlierErrors = append(earlierErrors, l)
			if len(earlierErrors) >= d.limits.LogsMaxErrors {
				break
			}
		}
	}

	var out []string
	if len(earlierErrors) > 0 {
		out = append(out, earlierErrors...)
		out = append(out, omissionMarker(tailStart-len(earlierErrors)))
	}
	out = append(out, tail...)
	return joinLines(out)
}

func (d *DockerOptimizer) inspect(raw string) string {
	return (&FileOptimizer{}).capList(raw, d.limits.InspectMaxLines)
}
