// Package ids provides the process-wide monotonic cell ID counter,
// wrapped in an explicit value rather than a package global so that a
// World (see the sim package) can own one independent counter per pond.
package ids

// Counter hands out strictly increasing cell identifiers.
type Counter struct {
	next uint64
}

// Next returns a fresh, never-before-returned ID.
func (c *Counter) Next() uint64 {
	c.next++
	return c.next
}
