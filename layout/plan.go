package layout

import "math"

// Plan is a precomputed page-break plan over a sequence of rows. Breaks
// holds, in increasing order, the index of the first row of every page
// after the first. A plan is pure data: drawing replays it and never
// decides breaks on its own.
type Plan struct {
	Breaks []int
	Rows   int
}

// Pages returns the number of pages the plan needs. An empty sequence
// needs none.
func (p Plan) Pages() int {
	if p.Rows == 0 {
		return 0
	}
	return len(p.Breaks) + 1
}

// Page returns the half-open row range [start, end) of page i (0-based).
func (p Plan) Page(i int) (start, end int) {
	if i > 0 {
		start = p.Breaks[i-1]
	}
	end = p.Rows
	if i < len(p.Breaks) {
		end = p.Breaks[i]
	}
	return start, end
}

// PlanHeights walks rows of the given heights in order, filling the first
// page up to firstCapacity and every later page up to restCapacity. When
// the next row does not fit it records a break before that row. A row
// taller than an empty page still gets a page of its own, so the plan
// always makes progress.
func PlanHeights(heights []float64, firstCapacity, restCapacity float64) Plan {
	plan := Plan{Rows: len(heights)}
	cur := NewCursor(0, 0, firstCapacity)
	for i, h := range heights {
		if cur.Emit(h) {
			continue
		}
		if cur.Emitted() == 0 {
			// Oversized row alone on a fresh page.
			cur.Y += h
			cur.Remaining = 0
			cur.emitted++
			continue
		}
		plan.Breaks = append(plan.Breaks, i)
		cur = NewCursor(0, 0, restCapacity)
		if !cur.Emit(h) {
			cur.Remaining = 0
			cur.emitted++
		}
	}
	return plan
}

// RowsPerPage returns how many fixed-height rows fit in capacity, never
// less than one.
func RowsPerPage(capacity, rowHeight float64) int {
	if rowHeight <= 0 {
		return 1
	}
	n := int(math.Floor(capacity/rowHeight + epsilon))
	if n < 1 {
		return 1
	}
	return n
}

// PlanUniform plans rows of a single fixed height by division instead of
// accumulation. It yields the same plan as PlanHeights with constant
// heights.
func PlanUniform(rows int, rowHeight, firstCapacity, restCapacity float64) Plan {
	plan := Plan{Rows: rows}
	first := RowsPerPage(firstCapacity, rowHeight)
	rest := RowsPerPage(restCapacity, rowHeight)
	for next := first; next < rows; next += rest {
		plan.Breaks = append(plan.Breaks, next)
	}
	return plan
}
