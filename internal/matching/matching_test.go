package matching

import "testing"

func TestExtractCore(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "git status", "git status"},
		{"parens", "(git status)", "git status"},
		{"sh -c", `sh -c "git status"`, "git status"},
		{"bash -c case-insensitive", `BASH -C "git log"`, "git log"},
		{"sh -c then parens", `sh -c "(git status)"`, "git status"},
		{"chain last segment", "cd /repo && git status", "git status"},
		{"semicolon last segment", "echo hi; git status", "git status"},
		{"rightmost of mixed", "echo a; echo b && git status", "git status"},
		{"empty trailing chain", "git status &&", ""},
		{"pipe first segment", "git log | head -20", "git log"},
		{"double pipe not a split", "git log || echo fail", "git log || echo fail"},
		{"env assignment unquoted", "FOO=bar git status", "git status"},
		{"env assignment quoted", `FOO="bar baz" git status`, "git status"},
		{"multiple env assignments", "FOO=bar BAZ=qux git status", "git status"},
		{"flag not env assignment", "git --format=oneline log", "git --format=oneline log"},
		{"unclosed quoted env value", `FOO="bar git status`, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ExtractCore(c.in)
			if got != c.want {
				t.Errorf("ExtractCore(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestExtractCoreIsSliceOfInput(t *testing.T) {
	// P1: extract_core(c) returns a slice of c, modulo trimming.
	in := "  cd /repo && git status  "
	got := ExtractCore(in)
	if got != "git status" {
		t.Fatalf("got %q", got)
	}
}

func TestContainsHeredoc(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"cat <<EOF\nhi\nEOF", true},
		{"echo a < b", false},
		{`echo "a << b"`, false},
		{`echo 'a << b'`, false},
		{`echo "a" << EOF`, true},
	}
	for _, c := range cases {
		if got := ContainsHeredoc(c.in); got != c.want {
			t.Errorf("ContainsHeredoc(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsNamedInvocation(t *testing.T) {
	cases := []struct {
		name string
		in   string
		prog string
		want bool
	}{
		{"quoted exe path", `"C:\path\to\prog.exe" run "git status"`, "prog", true},
		{"directory name false positive", "cd /my-terse-run-project && git status", "terse", false},
		{"plain invocation", "terse run \"git status\"", "terse", true},
		{"unrelated command", "git status", "terse", false},
		{"no run after", "terse status", "terse", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsNamedInvocation(c.in, c.prog); got != c.want {
				t.Errorf("IsNamedInvocation(%q, %q) = %v, want %v", c.in, c.prog, got, c.want)
			}
		})
	}
}
