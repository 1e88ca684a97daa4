package telemetry

import "github.com/rountree/nanopond/pond"

// Snapshot is the result of a single atomic scan over the whole pond,
// taken at report time.
type Snapshot struct {
	TotalEnergy           uint64
	AliveCells            uint64
	ViableReplicators      uint64
	MaxGeneration         uint64
}

// Scan visits every cell in p exactly once and aggregates the totals a
// report needs. Because the scheduler is single-threaded, this scan is
// the "atomic snapshot" the data model's invariants require; a
// parallel scheduler would need to stop-the-world or double-buffer
// around this call instead.
func Scan(p *pond.Pond) Snapshot {
	var s Snapshot
	p.Each(func(x, y int, c *pond.Cell) {
		if !c.Alive() {
			return
		}
		s.AliveCells++
		s.TotalEnergy += c.Energy
		if c.Viable() {
			s.ViableReplicators++
		}
		if c.Generation > s.MaxGeneration {
			s.MaxGeneration = c.Generation
		}
	})
	return s
}
