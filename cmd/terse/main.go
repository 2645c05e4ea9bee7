// Command terse is a command-output condenser for LLM coding assistants:
// it intercepts shell commands via a pre-execution hook, runs them, and
// shrinks their captured output before it reaches the model's context.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/benwelker/terse/internal/matching"
)

// Version is set at build time via -ldflags "-X main.Version=v1.2.3".
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "terse",
	Short: "Condense shell command output for LLM coding assistants",
	Long: "terse intercepts an assistant's shell commands, runs them, and reduces\n" +
		"captured output — via rule-based optimizers and, optionally, local LLM\n" +
		"condensation — before the output reaches the model's context window.",
}

func init() {
	matching.SetProgramName(matching.ProgramBaseName(os.Args[0]))

	logPath := filepath.Join(os.TempDir(), "terse-debug.log")
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".cache", "terse")
		if err := os.MkdirAll(dir, 0o755); err == nil {
			logPath = filepath.Join(dir, "debug.log")
		}
	}
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		log.SetOutput(f)
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	rootCmd.AddCommand(hookCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(breakerCmd())
	rootCmd.AddCommand(debugCmd())
	rootCmd.AddCommand(versionCmd())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("terse %s\n", Version)
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
