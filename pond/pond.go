// Package pond holds the simulation's spatial data model: the packed
// genome, the cell it belongs to, and the toroidal grid that addresses
// cells by (x, y). It is pure state and addressing — no randomness, no
// instruction execution, no interaction policy. Those live in prng,
// vm, and interact respectively.
package pond

// Direction is one of the four toroidal neighbor directions.
type Direction uint8

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Pond is a fixed-size toroidal grid of cells.
type Pond struct {
	width, height int
	depthWords    int
	cells         []Cell
}

// New allocates a width x height grid, every slot holding a fresh
// all-ones-genome, zero-valued cell.
func New(width, height, depthWords int) *Pond {
	p := &Pond{
		width:      width,
		height:     height,
		depthWords: depthWords,
		cells:      make([]Cell, width*height),
	}
	for i := range p.cells {
		p.cells[i].Genome = NewGenome(depthWords)
	}
	return p
}

// Width returns the grid width in cells.
func (p *Pond) Width() int { return p.width }

// Height returns the grid height in cells.
func (p *Pond) Height() int { return p.height }

// DepthWords returns the genome length in words.
func (p *Pond) DepthWords() int { return p.depthWords }

// At returns a pointer to the cell at (x, y). x and y must already be
// in range; callers normalize with modulo before calling.
func (p *Pond) At(x, y int) *Cell {
	return &p.cells[y*p.width+x]
}

// Neighbor returns the cell adjacent to (x, y) in the given direction,
// wrapping at the grid's edges. An out-of-range direction returns the
// cell itself (unreachable in normal operation, since Direction is
// always derived from a 2-bit register value).
func (p *Pond) Neighbor(x, y int, dir Direction) *Cell {
	switch dir {
	case Left:
		if x == 0 {
			return p.At(p.width-1, y)
		}
		return p.At(x-1, y)
	case Right:
		if x == p.width-1 {
			return p.At(0, y)
		}
		return p.At(x+1, y)
	case Up:
		if y == 0 {
			return p.At(x, p.height-1)
		}
		return p.At(x, y-1)
	case Down:
		if y == p.height-1 {
			return p.At(x, 0)
		}
		return p.At(x, y+1)
	default:
		return p.At(x, y)
	}
}

// Each visits every cell exactly once, in row-major order, for
// reporting scans that require a single atomic snapshot of the grid.
func (p *Pond) Each(fn func(x, y int, c *Cell)) {
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			fn(x, y, p.At(x, y))
		}
	}
}
