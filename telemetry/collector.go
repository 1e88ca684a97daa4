// Package telemetry aggregates per-tick execution counters into
// periodic reports and writes them out as CSV, mirroring the window/
// flush/reset shape the simulation's statistics component requires.
package telemetry

// NumOpcodes is the size of the VM's instruction set. Mirrored here
// (rather than imported from package vm) to keep telemetry a leaf
// package vm can depend on without a cycle.
const NumOpcodes = 16

// Collector accumulates execution and interaction-event counts for the
// current reporting window. It is reset to zero every time a report is
// flushed.
type Collector struct {
	instr          [NumOpcodes]uint64
	cellExecutions uint64
	viableReplaced uint64
	viableKilled   uint64
	viableShares   uint64
}

// RecordInstruction tallies one executed (non-skipped) codon.
func (c *Collector) RecordInstruction(codon int) {
	c.instr[codon]++
}

// RecordCellExecution tallies one cell VM invocation.
func (c *Collector) RecordCellExecution() {
	c.cellExecutions++
}

// RecordViableKilled tallies one granted KILL against a viable target.
func (c *Collector) RecordViableKilled() {
	c.viableKilled++
}

// RecordViableShares tallies one granted SHARE against a viable target.
func (c *Collector) RecordViableShares() {
	c.viableShares++
}

// RecordViableReplaced tallies one granted offspring commit over a
// viable target.
func (c *Collector) RecordViableReplaced() {
	c.viableReplaced++
}

// Reset zeroes every counter, starting a fresh reporting window.
func (c *Collector) Reset() {
	*c = Collector{}
}
