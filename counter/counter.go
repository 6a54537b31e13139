// Package counter provides the per-subroutine temporary and label name
// generator the code generator uses while building a subroutine's TAC.
//
// The code generator keeps one Counter and resets it at each function
// entry, so temporaries and labels are numbered from zero within every
// function rather than accumulating across the whole program.
package counter

import "strconv"

// Counter hands out fresh temporary and label names.
type Counter struct {
	temps  int
	labels map[string]int
}

// New creates a zeroed Counter.
func New() *Counter {
	return &Counter{labels: make(map[string]int)}
}

// NewTemp returns the next fresh temporary name: t0, t1, t2, ...
func (c *Counter) NewTemp() string {
	name := "t" + strconv.Itoa(c.temps)
	c.temps++
	return name
}

// NewLabel returns the next fresh label name in the given family
// (e.g. "IF", "WHILE"): IF0, IF1, WHILE0, ...
func (c *Counter) NewLabel(family string) string {
	n := c.labels[family]
	c.labels[family] = n + 1
	return family + strconv.Itoa(n)
}

// Reset zeroes every counter, as done at the start of each subroutine.
func (c *Counter) Reset() {
	c.temps = 0
	c.labels = make(map[string]int)
}
