package vm

import (
	"testing"

	"github.com/rountree/nanopond/ids"
	"github.com/rountree/nanopond/pond"
	"github.com/rountree/nanopond/prng"
	"github.com/rountree/nanopond/telemetry"
)

func newTestPond(width, height, depthWords int) *pond.Pond {
	return pond.New(width, height, depthWords)
}

func zeroParams() Params {
	return Params{MutationRate: 0, FailedKillPenalty: 3}
}

func TestExecuteAllStopGenomeRunsExactlyOneStep(t *testing.T) {
	p := newTestPond(2, 1, 1)
	cell := p.At(0, 0)
	cell.Energy = 5
	// default genome is all-ones, i.e. every codon is STOP already.

	rng := prng.New(1)
	counter := &ids.Counter{}
	stats := &telemetry.Collector{}

	Execute(p, 0, 0, cell, rng, counter, zeroParams(), stats)

	if cell.Energy != 4 {
		t.Fatalf("Energy = %d, want 4 (one instruction executed)", cell.Energy)
	}
}

func TestExecuteAllZeroGenomeRunsToExhaustion(t *testing.T) {
	p := newTestPond(2, 1, 1)
	cell := p.At(0, 0)
	cell.Energy = 7
	for i := range cell.Genome {
		cell.Genome[i] = 0
	}

	rng := prng.New(1)
	counter := &ids.Counter{}
	stats := &telemetry.Collector{}

	Execute(p, 0, 0, cell, rng, counter, zeroParams(), stats)

	if cell.Energy != 0 {
		t.Fatalf("Energy = %d, want 0 (ZERO never halts)", cell.Energy)
	}
}

func TestEnergyOneExecutesExactlyOneStep(t *testing.T) {
	p := newTestPond(2, 1, 1)
	cell := p.At(0, 0)
	cell.Energy = 1
	for i := range cell.Genome {
		cell.Genome[i] = 0
	}

	rng := prng.New(1)
	counter := &ids.Counter{}
	stats := &telemetry.Collector{}

	Execute(p, 0, 0, cell, rng, counter, zeroParams(), stats)

	if cell.Energy != 0 {
		t.Fatalf("Energy = %d, want 0 after exactly one step", cell.Energy)
	}
}

func TestReadGWriteBFwdCopiesCodonIntoOutputBuffer(t *testing.T) {
	p := newTestPond(2, 1, 1)
	cell := p.At(0, 0)
	cell.Energy = 20

	// codon 0 (data pointer start) carries the payload to be copied.
	cell.Genome.SetCodon(0, 0, 0x7)
	cell.Genome.SetCodon(0, ExecStartBit, uint8(OpReadG))
	cell.Genome.SetCodon(0, ExecStartBit+4, uint8(OpWriteB))
	cell.Genome.SetCodon(0, ExecStartBit+8, uint8(OpFwd))
	cell.Genome.SetCodon(0, ExecStartBit+12, uint8(OpStop))

	// facing defaults to Left; give the neighbor energy and no parent
	// so offspring placement is unconditionally granted.
	neighbor := p.At(1, 0)
	neighbor.Energy = 1

	rng := prng.New(1)
	counter := &ids.Counter{}
	stats := &telemetry.Collector{}

	Execute(p, 0, 0, cell, rng, counter, zeroParams(), stats)

	if neighbor.Genome.Codon(0, 0) != 0x7 {
		t.Fatalf("offspring genome codon 0 = %#x, want 0x7 (copied from parent)", neighbor.Genome.Codon(0, 0))
	}
	if neighbor.ParentID != cell.ID {
		t.Fatalf("offspring parent_id = %d, want %d", neighbor.ParentID, cell.ID)
	}
}

func TestLoopRepCountsDownRegisterExactly(t *testing.T) {
	p := newTestPond(2, 1, 1)
	cell := p.At(0, 0)
	cell.Energy = 20

	cell.Genome.SetCodon(0, ExecStartBit, uint8(OpInc))
	cell.Genome.SetCodon(0, ExecStartBit+4, uint8(OpInc))
	cell.Genome.SetCodon(0, ExecStartBit+8, uint8(OpInc)) // reg = 3
	cell.Genome.SetCodon(0, ExecStartBit+12, uint8(OpLoop))
	cell.Genome.SetCodon(0, ExecStartBit+16, uint8(OpDec))
	cell.Genome.SetCodon(0, ExecStartBit+20, uint8(OpRep))
	cell.Genome.SetCodon(0, ExecStartBit+24, uint8(OpStop))

	rng := prng.New(1)
	counter := &ids.Counter{}
	stats := &telemetry.Collector{}

	Execute(p, 0, 0, cell, rng, counter, zeroParams(), stats)

	// 3 INCs + 3 iterations of (LOOP, DEC, REP) + 1 STOP = 13 fetches.
	if cell.Energy != 20-13 {
		t.Fatalf("Energy = %d, want %d", cell.Energy, 20-13)
	}
}

func TestLoopWithZeroRegisterSkipsToMatchingRep(t *testing.T) {
	p := newTestPond(2, 1, 1)
	cell := p.At(0, 0)
	cell.Energy = 20

	// reg stays 0: the outer LOOP should skip its whole body, including
	// a nested LOOP/REP pair, tracked via falseLoopDepth — the nested
	// INC must never run. WRITEG after both REPs makes the surviving
	// register value observable: if INC had incorrectly executed it
	// would leave reg=1 instead of 0.
	cell.Genome.SetCodon(0, ExecStartBit, uint8(OpLoop))
	cell.Genome.SetCodon(0, ExecStartBit+4, uint8(OpLoop))  // nested, should be skipped
	cell.Genome.SetCodon(0, ExecStartBit+8, uint8(OpInc))   // should never execute
	cell.Genome.SetCodon(0, ExecStartBit+12, uint8(OpRep))  // closes nested loop
	cell.Genome.SetCodon(0, ExecStartBit+16, uint8(OpRep))  // closes outer loop
	cell.Genome.SetCodon(0, ExecStartBit+20, uint8(OpWriteG))
	cell.Genome.SetCodon(0, ExecStartBit+24, uint8(OpStop))

	rng := prng.New(1)
	counter := &ids.Counter{}
	stats := &telemetry.Collector{}

	Execute(p, 0, 0, cell, rng, counter, zeroParams(), stats)

	if cell.Genome.Codon(0, 0) != 0 {
		t.Fatalf("genome codon 0 = %#x, want 0 (INC inside skipped loop must not run)", cell.Genome.Codon(0, 0))
	}
}

func TestRepOnEmptyStackIsNoOp(t *testing.T) {
	p := newTestPond(2, 1, 1)
	cell := p.At(0, 0)
	cell.Energy = 5

	cell.Genome.SetCodon(0, ExecStartBit, uint8(OpRep))
	cell.Genome.SetCodon(0, ExecStartBit+4, uint8(OpStop))

	rng := prng.New(1)
	counter := &ids.Counter{}
	stats := &telemetry.Collector{}

	Execute(p, 0, 0, cell, rng, counter, zeroParams(), stats)

	// REP + STOP = 2 fetches; a panic or infinite loop would fail the test.
	if cell.Energy != 3 {
		t.Fatalf("Energy = %d, want 3", cell.Energy)
	}
}

func TestLoopStackOverflowStopsExecution(t *testing.T) {
	// A tiny genome (1 word = 16 codons) makes the loop-stack bound
	// (numWords*CodonsPerWord = 16) easy to exceed with consecutive
	// unmatched LOOPs.
	p := newTestPond(2, 1, 1)
	cell := p.At(0, 0)
	cell.Energy = 1000

	cell.Genome.SetCodon(0, ExecStartBit, uint8(OpInc)) // reg = 1, stays nonzero throughout
	for shift := ExecStartBit + 4; shift < 64; shift += 4 {
		cell.Genome.SetCodon(0, shift, uint8(OpLoop))
	}

	rng := prng.New(1)
	counter := &ids.Counter{}
	stats := &telemetry.Collector{}

	Execute(p, 0, 0, cell, rng, counter, zeroParams(), stats)

	// One pass runs INC and 14 LOOPs (14 frames pushed), wraps to
	// ExecStartBit, runs INC again (reg = 2), and pushes frames 15 and
	// 16; the 17th LOOP finds the stack full and sets stop. That is 19
	// fetches, one per codon visited, so the run halts long before the
	// energy runs out.
	if cell.Energy == 1000 {
		t.Fatal("expected some energy to be consumed before overflow halted execution")
	}
}

func TestKillGrantedIncrementsViableKilled(t *testing.T) {
	p := newTestPond(2, 1, 1)
	actor := p.At(0, 0)
	actor.Energy = 10

	target := p.At(1, 0)
	target.Generation = 5 // viable
	target.Energy = 1
	target.ParentID = 0 // fresh: access always granted

	// facing defaults to Left, whose neighbor at x=0 wraps to x=width-1=1.
	actor.Genome.SetCodon(0, ExecStartBit, uint8(OpKill))
	actor.Genome.SetCodon(0, ExecStartBit+4, uint8(OpStop))

	rng := prng.New(1)
	counter := &ids.Counter{}
	stats := &telemetry.Collector{}

	Execute(p, 0, 0, actor, rng, counter, zeroParams(), stats)

	row := telemetry.BuildReportRow(0, telemetry.Snapshot{}, stats)
	if row.ViableKilled != 1 {
		t.Fatalf("ViableKilled = %d, want 1", row.ViableKilled)
	}
	if target.Genome.Codon(0, 0) != 0xf {
		t.Fatalf("target genome codon 0 = %#x, want 0xf (blanked)", target.Genome.Codon(0, 0))
	}
}

func TestShareGrantedSplitsEnergy(t *testing.T) {
	p := newTestPond(2, 1, 1)
	actor := p.At(0, 0)
	actor.Energy = 10

	target := p.At(1, 0)
	target.Energy = 3
	target.ParentID = 0

	actor.Genome.SetCodon(0, ExecStartBit, uint8(OpShare))
	actor.Genome.SetCodon(0, ExecStartBit+4, uint8(OpStop))

	rng := prng.New(1)
	counter := &ids.Counter{}
	stats := &telemetry.Collector{}

	Execute(p, 0, 0, actor, rng, counter, zeroParams(), stats)

	total := actor.Energy + target.Energy
	if total != 10+3-2 { // SHARE + STOP = 2 fetches
		t.Fatalf("total energy = %d, want %d (10+3 minus 2 fetches)", total, 10+3-2)
	}
	if target.Energy != 6 && target.Energy != 7 {
		t.Fatalf("target.Energy = %d, want 6 or 7", target.Energy)
	}
}
