package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/benwelker/terse/internal/ui"
)

func debugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Interactive REPL: run commands through terse and inspect the decision at each stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDebugREPL()
		},
	}
}

func runDebugREPL() error {
	rl, err := readline.New("terse> ")
	if err != nil {
		return fmt.Errorf("debug: init readline: %w", err)
	}
	defer rl.Close()

	r := newRouter()
	fmt.Println("terse debug — enter a shell command, or :hook <command> to preview the hook decision, :quit to exit")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ":quit" || line == ":q" {
			break
		}
		if rest, ok := strings.CutPrefix(line, ":hook "); ok {
			decision := r.DecideHook(rest)
			if decision.Rewrite {
				fmt.Println("rewrite")
			} else {
				fmt.Printf("passthrough (%s)\n", decision.Reason)
			}
			continue
		}

		spinner := ui.NewSpinner("running...")
		result := r.ExecuteRun(context.Background(), line)
		spinner.Stop()

		fmt.Println(result.Output)
		ui.PrintResult(result)
	}
	return nil
}
