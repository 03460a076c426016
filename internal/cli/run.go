package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cast"

	"github.com/hakoniwa-sim/envsim"
	"github.com/hakoniwa-sim/envsim/drone"
	envruntime "github.com/hakoniwa-sim/envsim/runtime"
)

// runServe implements the "run" subcommand (spec §4.6, §6): load the
// environment and roster, connect the transport, and drive the scheduler
// until SIGINT/SIGTERM or the tick source ends.
func runServe(cfg *Cfg) error {
	envdir := cfg.GetString("envdir")
	rosterPath := cfg.GetString("roster")
	// cast.ToIntE tolerates tick_msec arriving as a numeric string from a
	// config file or ENVSIM_TICK_MSEC environment variable, not just a flag.
	tickMsec, err := cast.ToIntE(cfg.Get("tick_msec"))
	if err != nil {
		return fmt.Errorf("envsim: tick_msec: %w", err)
	}
	if tickMsec <= 0 {
		return fmt.Errorf("envsim: tick_msec must be positive, got %d", tickMsec)
	}

	env, err := envsim.LoadEnvironment(cfg.Fs, envdir, envsim.DefaultBuildOptions())
	if err != nil {
		return fmt.Errorf("envsim: loading environment from %s: %w", envdir, err)
	}

	drones, err := drone.LoadRoster(cfg.Fs, rosterPath, cfg.Log)
	if err != nil {
		return fmt.Errorf("envsim: loading roster %s: %w", rosterPath, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The production shared-memory PDU transport is an external
	// collaborator (spec §6); this CLI wires the in-memory reference
	// transport so `run` is self-contained for local testing and demos.
	transport := drone.NewMemTransport()
	if err := drone.ConnectWithBackoff(ctx, transport); err != nil {
		return fmt.Errorf("envsim: connecting transport: %w", err)
	}

	ticks := envruntime.NewFixedTicker(time.Duration(tickMsec)*time.Millisecond, 0)
	defer ticks.Stop()

	sched := envruntime.New(env, transport, drones, ticks, cfg.Log)

	cfg.Log.WithFields(map[string]interface{}{
		"envdir":    envdir,
		"roster":    rosterPath,
		"tick_msec": tickMsec,
		"drones":    len(drones),
	}).Info("starting envsim runtime")

	if err := sched.Run(ctx); err != nil && err != context.Canceled {
		return fmt.Errorf("envsim: runtime exited: %w", err)
	}
	return nil
}
