package ticket

import (
	"fmt"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/layout"
	"github.com/zonefest/festpdf/metrics"
)

// DefaultColumnLines is the line budget of one program column on one page.
const DefaultColumnLines = 15

// ColumnSpec describes how program names are set in a column.
type ColumnSpec struct {
	Font     festpdf.Font
	Size     float64
	Width    float64 // usable text width
	Capacity int     // line budget per page
}

// Slice is the part of one category list printed on one page.
type Slice struct {
	Start, End int // half-open range into the category list

	// Lines holds the wrapped lines of items Start..End-1. An item taller
	// than the whole budget is cut to Capacity lines.
	Lines [][]layout.Line
}

// Len returns the number of items in the slice.
func (s Slice) Len() int { return s.End - s.Start }

// PagePlan is one physical ticket page: a synchronized slice of all three
// columns, indexed by festpdf.Category.
type PagePlan [3]Slice

// Plan is the column pagination of one participant. It is computed once and
// replayed for every copy, so all copies have the same number of pages.
type Plan struct {
	Pages []PagePlan
}

// PlanColumns splits the three category lists across pages. Each column
// fills its own line budget independently; a new page is started while any
// column has items left, and every column resumes where it stopped. A
// participant without programs still gets one page.
func PlanColumns(m metrics.Provider, progs festpdf.Programs, spec ColumnSpec) (Plan, error) {
	if spec.Capacity < 1 {
		return Plan{}, fmt.Errorf("ticket: column capacity %d", spec.Capacity)
	}

	var wrapped [3][][]layout.Line
	for _, c := range festpdf.Categories {
		list := progs.List(c)
		wrapped[c] = make([][]layout.Line, len(list))
		for i, name := range list {
			lines, err := layout.Wrap(m, name, spec.Font, spec.Size, spec.Width)
			if err != nil {
				return Plan{}, fmt.Errorf("ticket: %s program %q: %w", c, name, err)
			}
			wrapped[c][i] = lines
		}
	}

	var plan Plan
	var pos [3]int
	for {
		var page PagePlan
		for _, c := range festpdf.Categories {
			page[c] = fillColumn(wrapped[c], &pos[c], spec.Capacity)
		}
		plan.Pages = append(plan.Pages, page)

		more := false
		for _, c := range festpdf.Categories {
			if pos[c] < len(wrapped[c]) {
				more = true
			}
		}
		if !more {
			return plan, nil
		}
	}
}

// fillColumn takes items from *next while they fit the line budget.
func fillColumn(items [][]layout.Line, next *int, capacity int) Slice {
	s := Slice{Start: *next}
	cur := layout.NewCursor(0, 0, float64(capacity))
	for *next < len(items) {
		lines := items[*next]
		n := len(lines)
		if n == 0 {
			n = 1 // a blank name still holds its row
		}
		if !cur.Emit(float64(n)) {
			if cur.Emitted() > 0 {
				break
			}
			lines = lines[:capacity]
			cur.Remaining = 0
		}
		s.Lines = append(s.Lines, lines)
		*next++
		if cur.Remaining <= 0 {
			break
		}
	}
	s.End = *next
	return s
}
