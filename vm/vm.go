// Package vm implements the per-cell interpreter: the fetch-mutate-
// execute cycle over a cell's packed genome, dispatching each codon to
// one of sixteen instructions and invoking neighbor interactions
// through the interact package.
package vm

import (
	"github.com/rountree/nanopond/ids"
	"github.com/rountree/nanopond/interact"
	"github.com/rountree/nanopond/pond"
	"github.com/rountree/nanopond/prng"
	"github.com/rountree/nanopond/telemetry"
)

// loopFrame is one entry on the bounded LOOP/REP stack.
type loopFrame struct {
	word, shift int
}

// registers holds the per-execution VM state. None of this persists
// between cell executions; it is reset fresh each time Execute runs.
type registers struct {
	execWord, execShift int
	ptrWord, ptrShift    int
	reg                  uint8
	facing               pond.Direction
	outputBuf            pond.Genome
	loopStack            []loopFrame
	falseLoopDepth       int
	stop                 bool
	currentWord          uint64
}

// Params bundles the tunables Execute needs beyond the cell itself.
type Params struct {
	MutationRate      uint32 // probability numerator over 2^32
	FailedKillPenalty uint64
}

// Execute runs one cell's VM to completion: either its energy is
// exhausted or its stop flag is set (by STOP, or by a LOOP that
// overflows the loop stack). x, y identify the cell's position in
// p, used to resolve neighbor interactions. counter assigns fresh IDs
// for any KILL or offspring commit this execution triggers. stats
// records per-instruction and per-event counts for the current
// reporting window.
func Execute(p *pond.Pond, x, y int, cell *pond.Cell, rng *prng.PRNG, counter *ids.Counter, params Params, stats *telemetry.Collector) {
	numWords := p.DepthWords()

	r := registers{
		execWord:  ExecStartWord,
		execShift: ExecStartBit,
		outputBuf: pond.NewGenome(numWords),
	}
	r.currentWord = cell.Genome[0]

	stats.RecordCellExecution()

	for cell.Energy > 0 && !r.stop {
		codon := Opcode((r.currentWord >> uint(r.execShift)) & 0xf)

		if uint32(rng.Next()&0xffffffff) < params.MutationRate {
			tmp := rng.Next()
			if tmp&0x80 != 0 {
				codon = Opcode(tmp & 0xf)
			} else {
				r.reg = uint8(tmp & 0xf)
			}
		}

		cell.Energy--

		if r.falseLoopDepth > 0 {
			switch codon {
			case OpLoop:
				r.falseLoopDepth++
			case OpRep:
				r.falseLoopDepth--
			}
		} else {
			stats.RecordInstruction(int(codon))
			rerun := dispatch(p, x, y, cell, rng, counter, params, stats, &r, codon)
			if rerun {
				continue
			}
		}

		r.execWord, r.execShift = execAdvance(r.execWord, r.execShift, numWords)
		r.currentWord = cell.Genome[r.execWord]
	}

	commitOffspring(p, x, y, cell, rng, counter, params, stats, &r)
}

// execAdvance moves the execution cursor forward by one codon, wrapping
// to (ExecStartWord, ExecStartBit) at the end of the genome rather than
// to (0, 0) — intentional per the reference implementation.
func execAdvance(word, shift, numWords int) (int, int) {
	shift += pond.CodonBits
	if shift >= pond.WordBits {
		word++
		if word >= numWords {
			word = ExecStartWord
			shift = ExecStartBit
		} else {
			shift = 0
		}
	}
	return word, shift
}

// commitOffspring copies the output buffer into the faced neighbor if
// the cell emitted anything and the neighbor both holds energy and
// grants access.
func commitOffspring(p *pond.Pond, x, y int, cell *pond.Cell, rng *prng.PRNG, counter *ids.Counter, params Params, stats *telemetry.Collector, r *registers) {
	if !r.outputBuf.Emitted() {
		return
	}
	neighbor := p.Neighbor(x, y, r.facing)
	res := interact.PlaceOffspring(rng, counter, cell, neighbor, r.reg, r.outputBuf)
	if res.Granted && res.TargetWasViable {
		stats.RecordViableReplaced()
	}
}
