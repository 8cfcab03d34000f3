package layout

// Cursor is the running write position inside one bounded content box.
// A cursor belongs to a single section of a single page; a page turn
// starts a fresh one.
//
// Capacity is expressed in the caller's unit: points for height-bounded
// boxes, or lines for line-budget columns (emit 1 per line).
type Cursor struct {
	X, Y      float64
	Remaining float64
	emitted   int
}

// NewCursor returns a cursor positioned at (x, y) with the given capacity.
func NewCursor(x, y, capacity float64) *Cursor {
	return &Cursor{X: x, Y: y, Remaining: capacity}
}

// epsilon absorbs float rounding when heights are summed.
const epsilon = 1e-9

// Fits reports whether h more units would fit without overflowing.
func (c *Cursor) Fits(h float64) bool {
	return c.Remaining+epsilon >= h
}

// Emit advances the cursor by h if it fits and reports whether it did. On
// false nothing changes and the caller must stop writing into this box.
func (c *Cursor) Emit(h float64) bool {
	if !c.Fits(h) {
		return false
	}
	c.Y += h
	c.Remaining -= h
	c.emitted++
	return true
}

// Emitted returns the number of successful Emit calls.
func (c *Cursor) Emitted() int {
	return c.emitted
}
