// Package shellexec runs a command string through the platform shell,
// capturing stdout and stderr as UTF-8 with lossy replacement for invalid
// byte sequences, per spec.md §6.
package shellexec

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"strings"
)

// Result is what one subprocess invocation produced.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes cmd through the platform shell: "cmd /C cmd" on Windows,
// "sh -c cmd" elsewhere. It never returns an error for a non-zero exit —
// spec.md §7 treats subprocess failure as ordinary output to route
// normally — only for inability to start the shell itself.
func Run(ctx context.Context, cmd string) (Result, error) {
	var c *exec.Cmd
	if runtime.GOOS == "windows" {
		c = exec.CommandContext(ctx, "cmd", "/C", cmd)
	} else {
		c = exec.CommandContext(ctx, "sh", "-c", cmd)
	}

	var outBuf, errBuf bytes.Buffer
	c.Stdout = &outBuf
	c.Stderr = &errBuf

	runErr := c.Run()

	exitCode := 0
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
			runErr = nil
		}
	}

	return Result{
		Stdout:   toValidUTF8(outBuf.Bytes()),
		Stderr:   toValidUTF8(errBuf.Bytes()),
		ExitCode: exitCode,
	}, runErr
}

// toValidUTF8 decodes b as UTF-8, replacing each run of invalid bytes with
// U+FFFD.
func toValidUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

// Combined concatenates stdout and stderr the way the preprocessing
// pipeline expects to receive captured output: stdout first, then stderr
// if non-empty.
func (r Result) Combined() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}
