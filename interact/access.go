// Package interact implements the neighbor interaction rules: the
// similarity-gated access check and the three operations that use it
// (KILL, SHARE, and offspring placement). These are policy over the
// pond's data model, kept separate from the VM's instruction dispatch
// so the gate can be tested in isolation.
package interact

import (
	"github.com/rountree/nanopond/pond"
	"github.com/rountree/nanopond/prng"
)

// popcount4 is the number of set bits in a 4-bit value.
var popcount4 = [16]uint8{0, 1, 1, 2, 1, 2, 2, 3, 1, 2, 2, 3, 2, 3, 3, 4}

// Sense distinguishes the two access-gate biases.
type Sense int

const (
	// Negative gates KILL and offspring placement: access is more likely
	// the more dissimilar the guess is from the target's first codon.
	Negative Sense = 0
	// Positive gates SHARE: access is more likely the more similar the
	// guess is to the target's first codon.
	Positive Sense = 1
)

// AccessAllowed draws exactly one 4-bit random value and decides
// whether an interaction against target is permitted, given the
// actor's register guess and the interaction's sense. A target with no
// parent (freshly seeded or killed) is always accessible.
func AccessAllowed(rng *prng.PRNG, target *pond.Cell, guess uint8, sense Sense) bool {
	d := popcount4[target.Genome.Codon(0, 0)^(guess&0xf)]
	r := rng.Uint4()
	if sense == Negative {
		return r <= d || target.ParentID == 0
	}
	return r >= d || target.ParentID == 0
}
