package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// hookToolInput is the nested tool_input object a host's pre-execution hook
// sends, of which only command is relevant here.
type hookToolInput struct {
	Command string `json:"command,omitempty"`
}

// hookRequest is the pre-execution hook's stdin payload per spec.md §6.
type hookRequest struct {
	ToolName  string        `json:"tool_name"`
	ToolInput hookToolInput `json:"tool_input"`
}

// hookSpecificOutput carries a PreToolUse permission decision, rewriting the
// host's command to run through terse instead of executing it directly.
type hookSpecificOutput struct {
	HookEventName            string           `json:"hookEventName"`
	PermissionDecision       string           `json:"permissionDecision"`
	PermissionDecisionReason string           `json:"permissionDecisionReason"`
	UpdatedInput             hookUpdatedInput `json:"updatedInput"`
}

type hookUpdatedInput struct {
	Command string `json:"command"`
}

// hookResponse is the hook's stdout payload: either an empty object
// (passthrough, host proceeds unchanged) or a populated HookSpecificOutput
// (rewrite, host executes HookSpecificOutput.UpdatedInput.Command instead).
type hookResponse struct {
	HookSpecificOutput *hookSpecificOutput `json:"hookSpecificOutput,omitempty"`
}

func hookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hook",
		Short: "Decide whether a command should be rewritten to run through terse",
		Long:  "Reads a JSON {\"tool_name\": \"...\", \"tool_input\": {\"command\": \"...\"}} object from stdin and writes a PreToolUse hook decision to stdout, for wiring into an assistant's pre-execution hook.",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("hook: read stdin: %w", err)
			}
			var req hookRequest
			if err := json.Unmarshal(body, &req); err != nil {
				return fmt.Errorf("hook: parse stdin: %w", err)
			}

			r := newRouter()
			decision := r.DecideHook(req.ToolInput.Command)

			var resp hookResponse
			if decision.Rewrite {
				rewritten, err := rewriteCommand(req.ToolInput.Command)
				if err != nil {
					return fmt.Errorf("hook: %w", err)
				}
				resp.HookSpecificOutput = &hookSpecificOutput{
					HookEventName:            "PreToolUse",
					PermissionDecision:       "allow",
					PermissionDecisionReason: "terse: condensing command output before it reaches the assistant",
					UpdatedInput:             hookUpdatedInput{Command: rewritten},
				}
			}

			enc := json.NewEncoder(os.Stdout)
			return enc.Encode(resp)
		},
	}
}

// rewriteCommand builds "<exe> run \"<escaped original>\"" per spec.md §6:
// exe is located via os.Executable, quoted, and every `"` in original is
// escaped as `\"`.
func rewriteCommand(original string) (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate own executable: %w", err)
	}
	return fmt.Sprintf(`"%s" run "%s"`, exe, escapeDoubleQuotes(original)), nil
}

func escapeDoubleQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
