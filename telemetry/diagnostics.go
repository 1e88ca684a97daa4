package telemetry

import (
	"log/slog"
	"sort"

	"github.com/rountree/nanopond/pond"
	"gonum.org/v1/gonum/stat"
)

// LogEnergyDistribution emits an optional diagnostic line describing
// the spread of energy across alive cells at report time. This is
// purely informational; nothing in the report row depends on it.
func LogEnergyDistribution(logger *slog.Logger, p *pond.Pond) {
	var energies []float64
	p.Each(func(x, y int, c *pond.Cell) {
		if c.Alive() {
			energies = append(energies, float64(c.Energy))
		}
	})
	if len(energies) == 0 {
		return
	}
	sort.Float64s(energies)

	logger.Info("energy distribution",
		slog.Float64("mean", stat.Mean(energies, nil)),
		slog.Float64("p10", stat.Quantile(0.10, stat.Empirical, energies, nil)),
		slog.Float64("p50", stat.Quantile(0.50, stat.Empirical, energies, nil)),
		slog.Float64("p90", stat.Quantile(0.90, stat.Empirical, energies, nil)),
	)
}
