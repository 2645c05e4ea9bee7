package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benwelker/terse/internal/config"
	"github.com/benwelker/terse/internal/safety"
	"github.com/benwelker/terse/internal/ui"
)

func breakerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breaker",
		Short: "Inspect or reset terse's circuit breaker",
	}
	cmd.AddCommand(breakerShowCmd())
	cmd.AddCommand(breakerResetCmd())
	return cmd
}

func loadBreaker() *safety.Breaker {
	cfg := config.Load()
	return safety.Load(safety.DefaultPath(), cfg.Breaker.Window, cfg.Breaker.Threshold, cfg.Breaker.Cooldown)
}

func breakerShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show whether the fast and smart paths are currently allowed",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := loadBreaker()
			ui.PrintBreakerStatus("fast_path", b.IsAllowed(safety.FastPath))
			ui.PrintBreakerStatus("smart_path", b.IsAllowed(safety.SmartPath))
			return nil
		},
	}
}

func breakerResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset [fast|smart]",
		Short: "Clear tripped state for one or both circuit-breaker lanes (default: both)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := loadBreaker()
			if len(args) == 0 {
				b.ResetAll()
				fmt.Println("reset both lanes")
			} else {
				lane, err := parseLane(args[0])
				if err != nil {
					return err
				}
				b.Reset(lane)
				fmt.Printf("reset %s\n", lane)
			}
			b.Save()
			return nil
		},
	}
}

func parseLane(s string) (safety.PathName, error) {
	switch s {
	case "fast":
		return safety.FastPath, nil
	case "smart":
		return safety.SmartPath, nil
	default:
		return "", fmt.Errorf("unknown lane %q: expected \"fast\" or \"smart\"", s)
	}
}
