package pond

// Cell is one grid location's state. A slot always exists; "empty" is
// represented by Energy == 0, never by a nil or absent entry.
type Cell struct {
	ID         uint64
	ParentID   uint64
	Lineage    uint64
	Generation uint64
	Energy     uint64
	Genome     Genome
}

// Alive reports whether the cell currently holds energy.
func (c *Cell) Alive() bool {
	return c.Energy > 0
}

// Viable reports whether the cell descends from at least two rounds of
// replication (generation > 2), the threshold at which a cell counts
// as a sustained replicator rather than raw seeded noise.
func (c *Cell) Viable() bool {
	return c.Generation > 2
}

// Reseed reinitializes the cell as a fresh lineage root: a new ID, no
// parent, lineage pointing at itself, generation zero. Used by both
// periodic inflow seeding and by a granted KILL.
func (c *Cell) Reseed(id uint64) {
	c.ID = id
	c.ParentID = 0
	c.Lineage = id
	c.Generation = 0
}

// BecomeOffspring overwrites the cell's identity and genome to reflect
// a granted replication from parent, copying from src.
func (c *Cell) BecomeOffspring(id uint64, parent *Cell, src Genome) {
	c.ID = id
	c.ParentID = parent.ID
	c.Lineage = parent.Lineage
	c.Generation = parent.Generation + 1
	c.Genome.CopyFrom(src)
}
