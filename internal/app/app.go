// Package app runs the stride process: flags, config, logging, signal
// handling and the configured session mode.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/logger"
	"github.com/Versifine/stride/internal/sim"
)

// Runner drives a built session until it finishes or ctx is done.
type Runner func(ctx context.Context, s *sim.Session) error

// Start returns the process exit code. Cleanup is deferred here so it runs
// before the caller exits.
func Start(args []string, runners map[string]Runner) int {
	flags := flag.NewFlagSet("stride", flag.ContinueOnError)
	path := flags.String("config", "configs/stride.yaml", "path to the session config")
	mode := flags.String("mode", "", "override the configured mode (script, console, viewer)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*path)
	if err != nil {
		slog.Error("Failed to load config", "path", *path, "error", err)
		return 1
	}
	if *mode != "" {
		cfg.Mode = *mode
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		CRLF:   cfg.Mode == config.ModeConsole,
	}); err != nil {
		slog.Error("Failed to init logger", "error", err)
		return 1
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := sim.Build(cfg)
	if err != nil {
		slog.Error("Failed to build session", "error", err)
		return 1
	}
	defer session.Close()

	run, ok := runners[cfg.Mode]
	if !ok {
		slog.Error("Mode has no runner", "mode", cfg.Mode)
		return 1
	}
	if err := run(ctx, session); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Session failed", "mode", cfg.Mode, "error", err)
		return 1
	}
	return 0
}

// Script runs the configured script headless and logs its report.
func Script(ctx context.Context, s *sim.Session) error {
	report, err := sim.RunScript(ctx, s, s.Config.Script)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	slog.Info("Script finished",
		"sim_time", report.SimTime,
		"frames", report.Frames,
		"steps", report.Steps,
		"events", report.EventsFired,
		"jumps", report.Jumps,
		"airborne_steps", report.AirborneSteps,
		"slide_steps", report.SlideSteps,
		"max_height", report.MaxHeight,
		"distance", report.Distance,
		"position", report.Final.Position,
		"anim", report.Final.Anim,
	)
	return nil
}
