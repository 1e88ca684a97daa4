// Package sim owns the scheduler: the single mutable "World" value that
// ties together the pond, the PRNG, the ID counter, and the telemetry
// collector, and the tick loop that drives them. Per the simulation
// engine's own design notes, process-wide state is wrapped in one
// value passed explicitly rather than held in package globals, keeping
// the scheduler testable and leaving room for multiple independent
// ponds in the same process.
package sim

import (
	"log/slog"

	"github.com/rountree/nanopond/config"
	"github.com/rountree/nanopond/ids"
	"github.com/rountree/nanopond/pond"
	"github.com/rountree/nanopond/prng"
	"github.com/rountree/nanopond/telemetry"
	"github.com/rountree/nanopond/vm"
)

// World bundles all process-wide simulation state.
type World struct {
	Pond   *pond.Pond
	RNG    *prng.PRNG
	IDs    *ids.Counter
	Stats  *telemetry.Collector
	Cfg    *config.Config
	Clock  uint64
	Logger *slog.Logger

	writer    *telemetry.Writer
	events    *telemetry.TransitionTracker
	eventSink telemetry.EventSink
	stopNow   bool
}

// New builds a World from a loaded config. writer and eventSink may be
// nil, in which case reports and transition events are skipped (useful
// for tests that only care about pond mechanics).
func New(cfg *config.Config, logger *slog.Logger, writer *telemetry.Writer, eventSink telemetry.EventSink) *World {
	w := &World{
		Pond:      pond.New(cfg.Pond.SizeX, cfg.Pond.SizeY, cfg.Derived.PondDepthWords),
		RNG:       prng.New(cfg.RNG.Seed),
		IDs:       &ids.Counter{},
		Stats:     &telemetry.Collector{},
		Cfg:       cfg,
		Logger:    logger,
		writer:    writer,
		eventSink: eventSink,
	}
	if eventSink != nil {
		w.events = telemetry.NewTransitionTracker(eventSink)
	}
	return w
}

// Stop requests the run loop exit at the start of its next tick,
// mirroring the reference implementation's cooperative `exitNow` flag.
func (w *World) Stop() {
	w.stopNow = true
}

// Stopped reports whether Stop has been called.
func (w *World) Stopped() bool {
	return w.stopNow
}

// vmParams derives the per-execution VM tunables from the World's config.
func (w *World) vmParams() vm.Params {
	return vm.Params{
		MutationRate:      w.Cfg.Mutation.Rate,
		FailedKillPenalty: w.Cfg.Interaction.FailedKillPenalty,
	}
}

// Tick advances the scheduler by exactly one step: an optional report,
// an optional seeding, then one cell execution.
func (w *World) Tick() error {
	w.Clock++

	if w.Cfg.Report.Frequency > 0 && w.Clock%w.Cfg.Report.Frequency == 0 {
		if err := w.report(); err != nil {
			return err
		}
	}

	if w.Cfg.Inflow.Frequency > 0 && w.Clock%w.Cfg.Inflow.Frequency == 0 {
		w.seed()
	}

	w.executeRandomCell()

	return nil
}

// seed picks a uniformly random slot and reinitializes it per the
// periodic inflow rule: fresh lineage, additive energy, fresh genome.
func (w *World) seed() {
	x := w.RNG.Intn(w.Pond.Width())
	y := w.RNG.Intn(w.Pond.Height())
	c := w.Pond.At(x, y)

	c.Reseed(w.IDs.Next())
	c.Energy += w.Cfg.Inflow.RateBase
	if w.Cfg.Inflow.RateVariation > 0 {
		c.Energy += w.RNG.Next() % w.Cfg.Inflow.RateVariation
	}
	for i := range c.Genome {
		c.Genome[i] = w.RNG.Next()
	}
}

// executeRandomCell picks a cell via the scheduler's address-derivation
// formula and runs its VM to completion.
func (w *World) executeRandomCell() {
	r := w.RNG.Next()
	x := int(r % uint64(w.Pond.Width()))
	y := int((r / uint64(w.Pond.Width()) >> 1) % uint64(w.Pond.Height()))

	cell := w.Pond.At(x, y)
	vm.Execute(w.Pond, x, y, cell, w.RNG, w.IDs, w.vmParams(), w.Stats)
}

// report scans the pond, writes one CSV row, fires any viable-
// replicator transition event, and resets the reporting window.
func (w *World) report() error {
	snap := telemetry.Scan(w.Pond)
	row := telemetry.BuildReportRow(w.Clock, snap, w.Stats)

	if w.writer != nil {
		if err := w.writer.Write(row); err != nil {
			return err
		}
	}

	if w.events != nil {
		w.events.Observe(snap.ViableReplicators)
	}

	if w.Cfg.Telemetry.LogEnergyHistogram && w.Logger != nil {
		telemetry.LogEnergyDistribution(w.Logger, w.Pond)
	}

	w.Stats.Reset()
	return nil
}
