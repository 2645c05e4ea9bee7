package main

import (
	"github.com/benwelker/terse/internal/config"
	"github.com/benwelker/terse/internal/diagnostics"
	"github.com/benwelker/terse/internal/router"
	"github.com/benwelker/terse/internal/safety"
)

// newRouter loads configuration and wires a Router against the default
// breaker and diagnostics file locations. Every subcommand that actually
// routes a command goes through this one constructor.
func newRouter() *router.Router {
	cfg := config.Load()
	breaker := safety.Load(safety.DefaultPath(), cfg.Breaker.Window, cfg.Breaker.Threshold, cfg.Breaker.Cooldown)
	diag := diagnostics.Open(diagnostics.DefaultPath())
	return router.New(cfg, breaker, diag)
}
