// Package runtime implements the fixed-step disturbance tick loop: pose
// ingestion, spatial lookup, disturbance derivation, and write-back under
// an at-most-one-outstanding-tick contract (spec §4.6, §5).
package runtime

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/hakoniwa-sim/envsim"
	"github.com/hakoniwa-sim/envsim/drone"
)

// TickSource is the external clock driving the scheduler. Next blocks
// until the next tick boundary (or cancellation) and reports whether a
// tick actually arrived; a false return signals end-of-stream (spec §4.6
// Termination, §5 Cancellation & timeouts — the tick wait is the
// scheduler's only blocking point).
type TickSource interface {
	Next(ctx context.Context) (ok bool)
}

// Scheduler is the single-threaded cooperative runtime loop. It holds no
// lock across a tick boundary because each tick runs to completion before
// the next begins (spec §5).
type Scheduler struct {
	Env       *envsim.Environment
	Transport drone.Transport
	Drones    []drone.IO
	Ticks     TickSource
	Log       *logrus.Logger
}

// New constructs a Scheduler. A nil log falls back to logrus's standard
// logger, matching the ambient logging convention used throughout this
// module.
func New(env *envsim.Environment, transport drone.Transport, drones []drone.IO, ticks TickSource, log *logrus.Logger) *Scheduler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{Env: env, Transport: transport, Drones: drones, Ticks: ticks, Log: log}
}

// Run drives the tick loop until the tick source reports end-of-stream or
// ctx is cancelled, releasing the transport on every exit path (spec §4.6
// Termination).
func (s *Scheduler) Run(ctx context.Context) error {
	defer func() {
		if err := s.Transport.Close(); err != nil {
			s.Log.WithError(err).Warn("error closing transport")
		}
	}()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !s.Ticks.Next(ctx) {
			return nil
		}
		s.tick(ctx)
	}
}

// tick runs one fixed-step iteration: drain pending messages, then for
// each drone in roster order, read pose, resolve its property, synthesize
// and write a disturbance (spec §4.6 Steady-state tick).
func (s *Scheduler) tick(ctx context.Context) {
	if err := s.Transport.Drain(ctx); err != nil {
		s.Log.WithError(err).Warn("transport drain failed")
	}

	for _, d := range s.Drones {
		pose, ok := d.ReadPose(s.Transport)
		if !ok {
			// Normal steady state during warmup (spec §7 TransportReadAbsent).
			continue
		}

		_, prop := s.Env.PropertyAt(pose.Linear.X, pose.Linear.Y, pose.Linear.Z)
		disturbance := drone.MakeDisturbance(prop)

		if !d.WriteDisturbance(s.Transport, disturbance) {
			s.Log.WithField("drone", d.Name).Warn("disturbance write failed; superseded next tick")
		}
	}
}
