package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rountree/nanopond/config"
	"github.com/rountree/nanopond/render"
	"github.com/rountree/nanopond/sim"
	"github.com/rountree/nanopond/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use embedded defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	seed := flag.Int64("seed", 0, "RNG seed override (0 = use config)")
	maxTicks := flag.Uint64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory override for report.csv and config snapshot")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *seed != 0 {
		cfg.RNG.Seed = *seed
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	slog.SetDefault(logger)

	writer, err := telemetry.NewWriter(cfg.Telemetry.OutputDir)
	if err != nil {
		slog.Error("failed to open report writer", "error", err)
		os.Exit(1)
	}
	defer writer.Close()

	if err := cfg.WriteYAML(cfg.Telemetry.OutputDir + "/config.yaml"); err != nil {
		slog.Warn("failed to snapshot config", "error", err)
	}

	eventSink := telemetry.SlogEventSink{Logger: logger}
	world := sim.New(cfg, logger, writer, eventSink)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutdown requested")
		world.Stop()
	}()

	slog.Info("starting nanopond",
		"seed", cfg.RNG.Seed,
		"pond_size_x", cfg.Pond.SizeX,
		"pond_size_y", cfg.Pond.SizeY,
		"pond_depth", cfg.Pond.Depth,
		"headless", *headless,
	)

	if *headless {
		runHeadless(world, *maxTicks)
		return
	}
	runGraphical(world, cfg, *maxTicks)
}

func runHeadless(world *sim.World, maxTicks uint64) {
	for {
		if world.Stopped() {
			slog.Info("stopped", "tick", world.Clock)
			return
		}
		if err := world.Tick(); err != nil {
			slog.Error("tick failed", "error", err)
			return
		}
		if maxTicks > 0 && world.Clock >= maxTicks {
			slog.Info("max ticks reached", "tick", world.Clock)
			return
		}
	}
}

func runGraphical(world *sim.World, cfg *config.Config, maxTicks uint64) {
	sink := render.NewRaylibSink(world.Pond, cfg.Visualization.CellScale, cfg.Visualization.TargetFPS)
	defer sink.Close()

	for !sink.ShouldClose() {
		if world.Stopped() {
			slog.Info("stopped", "tick", world.Clock)
			return
		}
		if err := world.Tick(); err != nil {
			slog.Error("tick failed", "error", err)
			return
		}
		sink.Draw(world.Pond)

		if maxTicks > 0 && world.Clock >= maxTicks {
			slog.Info("max ticks reached", "tick", world.Clock)
			return
		}
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
