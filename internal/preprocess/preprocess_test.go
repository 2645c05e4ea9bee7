package preprocess

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripANSI(t *testing.T) {
	require.Equal(t, "hello", stripANSI("\x1b[31mhello\x1b[0m"))
	require.Equal(t, "plain", stripANSI("plain"))
	require.Equal(t, "x", stripANSI("\x1b]0;title\x07x"))
}

func TestIsBoilerplateLine(t *testing.T) {
	require.True(t, isBoilerplateLine("Compiling foo v0.1.0"))
	require.True(t, isBoilerplateLine("npm warn deprecated"))
	require.False(t, isBoilerplateLine("error: something failed"))
}

func TestIsDecorationLine(t *testing.T) {
	require.True(t, isDecorationLine("-----"))
	require.True(t, isDecorationLine("====="))
	require.False(t, isDecorationLine("--"))
	require.False(t, isDecorationLine("abc"))
}

func TestIsProgressOnlyLine(t *testing.T) {
	require.True(t, isProgressOnlyLine("[=====>    ] 45%"))
	require.True(t, isProgressOnlyLine("downloading\rdone"))
	require.False(t, isProgressOnlyLine("error: 45% of tests failed because of a timeout"))
	require.False(t, isProgressOnlyLine("[ERROR] 42% failed"), "a non-progress bracket tag must not be stripped away")
}

func TestFilterNoisePaths(t *testing.T) {
	in := []string{
		"src/main.go",
		"node_modules/foo/index.js",
		"node_modules/bar/index.js",
		"node_modules/baz/index.js",
		"README.md",
	}
	out := filterNoisePaths(in)
	require.Equal(t, []string{
		"src/main.go",
		"[3 path(s) in noise directories filtered]",
		"README.md",
	}, out)
}

func TestPatternKey(t *testing.T) {
	require.Equal(t, "test tests::test_#", patternKey("test tests::test_123"))
	require.Equal(t, "test tests::test_#", patternKey("test tests::test_456"))
}

func TestDedupeCollapsesRun(t *testing.T) {
	var in []string
	for i := 0; i < 20; i++ {
		in = append(in, "test tests::test_"+itoa(i)+" ... ok")
	}
	out := dedupe(in)
	require.Len(t, out, 3)
	require.Equal(t, in[0], out[0])
	require.Equal(t, in[1], out[1])
	require.Contains(t, out[2], "18 more similar line(s)")
}

func TestDedupeLeavesShortRunsAlone(t *testing.T) {
	in := []string{"a 1", "a 2"}
	out := dedupe(in)
	require.Equal(t, in, out)
}

func TestNormalizeWhitespace(t *testing.T) {
	in := []string{"a  ", "", "", "", "b", "", ""}
	out := normalizeWhitespace(in)
	require.Equal(t, []string{"a", "", "", "b"}, out)
}

func TestTruncateToSizePassthrough(t *testing.T) {
	text := "short text"
	require.Equal(t, text, truncateToSize(text, 1000))
}

func TestTruncateToSizeByteLevel(t *testing.T) {
	text := strings.Repeat("x", 100)
	out := truncateToSize(text, 40)
	require.Contains(t, out, "bytes truncated")
	require.True(t, len(out) < len(text))
}

func TestTruncateToSizeLineAware(t *testing.T) {
	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines, "line number "+itoa(i))
	}
	text := strings.Join(lines, "\n")
	out := truncateToSize(text, 400)
	require.Contains(t, out, "lines")
	require.Contains(t, out, "truncated")
	require.Contains(t, out, "line number 0")
	require.Contains(t, out, "line number 99")
}

func TestRunIdempotent(t *testing.T) {
	raw := strings.Repeat("npm warn deprecated thing\nreal output line\n", 5)
	limits := DefaultLimits()
	once := Run(raw, limits)
	twice := Run(once.Text, limits)
	require.Equal(t, once.Text, twice.Text)
}

func TestRunEmptyInput(t *testing.T) {
	out := Run("", DefaultLimits())
	require.Equal(t, "", out.Text)
	require.Equal(t, 0, out.OriginalBytes)
	require.Equal(t, 0.0, out.ReductionPct)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var b []byte
	for i > 0 {
		b = append([]byte{byte('0' + i%10)}, b...)
		i /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}
