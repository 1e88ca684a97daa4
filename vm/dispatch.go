package vm

import (
	"github.com/rountree/nanopond/ids"
	"github.com/rountree/nanopond/interact"
	"github.com/rountree/nanopond/pond"
	"github.com/rountree/nanopond/prng"
	"github.com/rountree/nanopond/telemetry"
)

// dispatch executes one non-skipped codon. It reports whether the
// execution loop should re-fetch from r.execWord/r.execShift without
// advancing the cursor (the REP-rerun case) rather than falling through
// to the normal per-codon advance.
func dispatch(p *pond.Pond, x, y int, cell *pond.Cell, rng *prng.PRNG, counter *ids.Counter, params Params, stats *telemetry.Collector, r *registers, codon Opcode) (rerun bool) {
	numWords := p.DepthWords()

	switch codon {
	case OpZero:
		r.reg = 0
		r.ptrWord = 0
		r.ptrShift = 0
		r.facing = 0

	case OpFwd:
		r.ptrWord, r.ptrShift = pond.Advance(r.ptrWord, r.ptrShift, numWords)

	case OpBack:
		r.ptrWord, r.ptrShift = pond.Retreat(r.ptrWord, r.ptrShift, numWords)

	case OpInc:
		r.reg = (r.reg + 1) & 0xf

	case OpDec:
		r.reg = (r.reg - 1) & 0xf

	case OpReadG:
		r.reg = cell.Genome.Codon(r.ptrWord, r.ptrShift)

	case OpWriteG:
		cell.Genome.SetCodon(r.ptrWord, r.ptrShift, r.reg)
		r.currentWord = cell.Genome[r.execWord]

	case OpReadB:
		r.reg = r.outputBuf.Codon(r.ptrWord, r.ptrShift)

	case OpWriteB:
		r.outputBuf.SetCodon(r.ptrWord, r.ptrShift, r.reg)

	case OpLoop:
		if r.reg != 0 {
			if len(r.loopStack) >= numWords*pond.CodonsPerWord {
				r.stop = true
			} else {
				r.loopStack = append(r.loopStack, loopFrame{word: r.execWord, shift: r.execShift})
			}
		} else {
			r.falseLoopDepth = 1
		}

	case OpRep:
		if n := len(r.loopStack); n > 0 {
			top := r.loopStack[n-1]
			r.loopStack = r.loopStack[:n-1]
			if r.reg != 0 {
				r.execWord, r.execShift = top.word, top.shift
				r.currentWord = cell.Genome[r.execWord]
				return true
			}
		}

	case OpTurn:
		r.facing = pond.Direction(r.reg & 3)

	case OpXchg:
		r.execWord, r.execShift = execAdvance(r.execWord, r.execShift, numWords)
		tmp := r.reg
		r.reg = cell.Genome.Codon(r.execWord, r.execShift)
		cell.Genome.SetCodon(r.execWord, r.execShift, tmp)
		r.currentWord = cell.Genome[r.execWord]

	case OpKill:
		neighbor := p.Neighbor(x, y, r.facing)
		res := interact.Kill(rng, counter, cell, neighbor, r.reg, params.FailedKillPenalty)
		if res.Granted && res.TargetWasViable {
			stats.RecordViableKilled()
		}

	case OpShare:
		neighbor := p.Neighbor(x, y, r.facing)
		res := interact.Share(rng, cell, neighbor, r.reg)
		if res.Granted && res.TargetWasViable {
			stats.RecordViableShares()
		}

	case OpStop:
		r.stop = true
	}

	return false
}
