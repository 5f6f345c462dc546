package waf

// PriorityCounter is the watermark for automatic priority assignment within
// one compilation. It is a value, not shared state: each allocation returns
// the advanced counter and the caller threads it through category processing.
type PriorityCounter int

// Allocate returns the priority for one rule and the counter to use for the
// next. An explicit priority is honored as-is and pushes the watermark past
// it (running maximum), so later auto-assigned priorities never land below
// an earlier explicit one. Without an explicit priority the current
// watermark is consumed.
func (c PriorityCounter) Allocate(explicit *int) (int, PriorityCounter) {
	if explicit != nil {
		p := *explicit
		if next := PriorityCounter(p + 1); next > c {
			return p, next
		}
		return p, c
	}
	return int(c), c + 1
}

// Skip advances the watermark past n consecutively assigned priorities,
// used after a catalog expansion that numbered its own rules.
func (c PriorityCounter) Skip(n int) PriorityCounter {
	return c + PriorityCounter(n)
}
