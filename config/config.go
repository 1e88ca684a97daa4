// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Pond          PondConfig          `yaml:"pond"`
	Mutation      MutationConfig      `yaml:"mutation"`
	Inflow        InflowConfig        `yaml:"inflow"`
	Report        ReportConfig        `yaml:"report"`
	Interaction   InteractionConfig   `yaml:"interaction"`
	RNG           RNGConfig           `yaml:"rng"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Visualization VisualizationConfig `yaml:"visualization"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// PondConfig holds grid dimensions and genome length.
type PondConfig struct {
	SizeX int `yaml:"size_x"`
	SizeY int `yaml:"size_y"`
	Depth int `yaml:"depth"` // genome length in codons; must be a multiple of 16
}

// MutationConfig holds the per-codon mutation probability.
type MutationConfig struct {
	Rate uint32 `yaml:"rate"` // probability numerator over 2^32
}

// InflowConfig holds periodic-seeding parameters.
type InflowConfig struct {
	Frequency    uint64 `yaml:"frequency"`     // ticks between seedings
	RateBase     uint64 `yaml:"rate_base"`     // base seed energy
	RateVariation uint64 `yaml:"rate_variation"` // uniform add, 0 inclusive to this exclusive
}

// ReportConfig holds report cadence.
type ReportConfig struct {
	Frequency uint64 `yaml:"frequency"` // ticks between reports
}

// InteractionConfig holds interaction-rule tunables.
type InteractionConfig struct {
	FailedKillPenalty uint64 `yaml:"failed_kill_penalty"` // self-energy divisor on failed KILL of a viable target
}

// RNGConfig holds the PRNG seed.
type RNGConfig struct {
	Seed int64 `yaml:"seed"` // 0 means use the default seed
}

// TelemetryConfig holds reporting-sink parameters.
type TelemetryConfig struct {
	OutputDir          string `yaml:"output_dir"`
	LogEnergyHistogram bool   `yaml:"log_energy_histogram"`
}

// VisualizationConfig holds the optional graphical sink's parameters.
type VisualizationConfig struct {
	TargetFPS int `yaml:"target_fps"`
	CellScale int `yaml:"cell_scale"` // pixels per cell
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	PondDepthWords int // Pond.Depth / codons-per-word
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config and enforces
// the invariants the simulation engine requires before it will run.
func (c *Config) computeDerived() error {
	const codonsPerWord = 16
	if c.Pond.Depth%codonsPerWord != 0 {
		return fmt.Errorf("config: pond.depth (%d) must be a multiple of %d", c.Pond.Depth, codonsPerWord)
	}
	c.Derived.PondDepthWords = c.Pond.Depth / codonsPerWord
	return nil
}

// WriteYAML writes the configuration to a YAML file, snapshotting the
// run's effective settings alongside its other output.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
