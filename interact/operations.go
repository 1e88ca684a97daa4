package interact

import (
	"github.com/rountree/nanopond/ids"
	"github.com/rountree/nanopond/pond"
	"github.com/rountree/nanopond/prng"
)

// KillResult describes the outcome of an attempted KILL.
type KillResult struct {
	Granted     bool
	TargetWasViable bool
}

// Kill attempts to blank target on behalf of actor, gated by
// AccessAllowed with Negative sense. On a granted kill the target is
// reseeded as a fresh, empty lineage and its first two genome words are
// reset to all-ones. On a denied kill against a viable target, actor is
// debited floor(actor.Energy / failedKillPenalty), clamped at zero.
func Kill(rng *prng.PRNG, counter *ids.Counter, actor, target *pond.Cell, guess uint8, failedKillPenalty uint64) KillResult {
	wasViable := target.Viable()
	if AccessAllowed(rng, target, guess, Negative) {
		target.Genome.BlankFirstTwoWords()
		target.Reseed(counter.Next())
		return KillResult{Granted: true, TargetWasViable: wasViable}
	}
	if wasViable {
		penalty := actor.Energy / failedKillPenalty
		if actor.Energy > penalty {
			actor.Energy -= penalty
		} else {
			actor.Energy = 0
		}
	}
	return KillResult{Granted: false, TargetWasViable: wasViable}
}

// ShareResult describes the outcome of an attempted SHARE.
type ShareResult struct {
	Granted     bool
	TargetWasViable bool
}

// Share attempts to equalize energy between actor and target, gated by
// AccessAllowed with Positive sense. The combined energy is split by
// integer halving; the actor keeps the remainder so total energy is
// conserved exactly.
func Share(rng *prng.PRNG, actor, target *pond.Cell, guess uint8) ShareResult {
	wasViable := target.Viable()
	if !AccessAllowed(rng, target, guess, Positive) {
		return ShareResult{Granted: false, TargetWasViable: wasViable}
	}
	total := actor.Energy + target.Energy
	target.Energy = total / 2
	actor.Energy = total - target.Energy
	return ShareResult{Granted: true, TargetWasViable: wasViable}
}

// OffspringResult describes the outcome of an attempted offspring commit.
type OffspringResult struct {
	Granted     bool
	TargetWasViable bool
}

// PlaceOffspring attempts to overwrite target with parent's offspring
// genome, gated by AccessAllowed with Negative sense (the same sense as
// KILL, since overwriting a living neighbor is a destructive act).
// Placement additionally requires the target to already hold energy;
// a dead (zero-energy) slot is left untouched and no random value is
// drawn for it.
func PlaceOffspring(rng *prng.PRNG, counter *ids.Counter, parent, target *pond.Cell, guess uint8, offspringGenome pond.Genome) OffspringResult {
	if !target.Alive() {
		return OffspringResult{}
	}
	wasViable := target.Viable()
	if !AccessAllowed(rng, target, guess, Negative) {
		return OffspringResult{TargetWasViable: wasViable}
	}
	target.BecomeOffspring(counter.Next(), parent, offspringGenome)
	return OffspringResult{Granted: true, TargetWasViable: wasViable}
}
