package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benwelker/terse/internal/ui"
)

func runCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run [command...]",
		Short: "Run a command and print its condensed output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")
			r := newRouter()

			result := r.ExecuteRun(context.Background(), command)

			fmt.Print(result.Output)
			if !strings.HasSuffix(result.Output, "\n") {
				fmt.Println()
			}
			if verbose {
				ui.PrintResult(result)
			}
			os.Exit(result.ExitCode)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print a condensation summary after the output")
	return cmd
}
