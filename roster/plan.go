package roster

import (
	"fmt"
	"strconv"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/layout"
	"github.com/zonefest/festpdf/metrics"
)

// ColumnDef defines one roster column.
type ColumnDef struct {
	Title string
	Width float64 // fixed width; 0 shares the remaining space
	Align string  // "L", "C" or "R"
}

// Geometry is everything pass 1 needs to know about the pages.
type Geometry struct {
	FirstCapacity float64 // body height on the first page, below the header row
	RestCapacity  float64 // body height on continuation pages
	Width         float64 // table width
	Style         Style
}

// Cell is the measured content of one cell.
type Cell struct {
	Lines    []layout.Line
	Font     festpdf.Font
	Size     float64
	Align    string
	Headings int // leading lines set in bold
}

// Row is one measured roster row.
type Row struct {
	Cells  []Cell
	Height float64
}

// Plan is the output of pass 1: measured rows and the page breaks between
// them. Pass 2 draws exactly this plan.
type Plan struct {
	layout.Plan
	Columns []ColumnDef
	Widths  []float64
	Body    []Row
}

// FlatColumns are the columns of a flat roster.
var FlatColumns = []ColumnDef{
	{Title: "Sl No", Width: 50, Align: "C"},
	{Title: "Name"},
	{Title: "College"},
}

// GroupColumns are the columns of a grouped roster.
var GroupColumns = []ColumnDef{
	{Title: "Sl No", Width: 50, Align: "C"},
	{Title: "College / Participants"},
}

// calculateWidths splits width between the columns.
func calculateWidths(cols []ColumnDef, width float64) []float64 {
	widths := make([]float64, len(cols))
	fixed, auto := 0.0, 0
	for i, c := range cols {
		if c.Width > 0 {
			widths[i] = c.Width
			fixed += c.Width
		} else {
			auto++
		}
	}
	if auto > 0 {
		share := (width - fixed) / float64(auto)
		if share < 0 {
			share = 0
		}
		for i, c := range cols {
			if c.Width == 0 {
				widths[i] = share
			}
		}
	}
	return widths
}

// floorSize is the smallest size a flat-roster cell shrinks to.
const floorSize = 7

// PlanFlat plans a flat roster. Every row is one line high; text that is
// too wide shrinks to fit, and is cut short at floorSize, so the page split
// is a plain division.
func PlanFlat(m metrics.Provider, entries []festpdf.RosterEntry, g Geometry) (Plan, error) {
	p := Plan{Columns: FlatColumns, Widths: calculateWidths(FlatColumns, g.Width)}
	st := g.Style
	for _, e := range entries {
		values := []string{strconv.Itoa(e.SlNo), e.Name, e.CollegeName}
		row := Row{Height: st.LineHeight}
		for i, v := range values {
			avail := p.Widths[i] - st.CellPadding.Left - st.CellPadding.Right
			fit, err := layout.FitSize(m, v, festpdf.Regular, st.FontSize, floorSize, avail)
			if err != nil {
				return Plan{}, fmt.Errorf("roster: entry %d: %w", e.SlNo, err)
			}
			line, err := layout.Truncate(m, v, festpdf.Regular, fit.Size, avail)
			if err != nil {
				return Plan{}, fmt.Errorf("roster: entry %d: %w", e.SlNo, err)
			}
			row.Cells = append(row.Cells, Cell{
				Lines: []layout.Line{line},
				Font:  festpdf.Regular,
				Size:  fit.Size,
				Align: FlatColumns[i].Align,
			})
		}
		p.Body = append(p.Body, row)
	}
	p.Plan = layout.PlanUniform(len(entries), st.LineHeight, g.FirstCapacity, g.RestCapacity)
	return p, nil
}

// PlanGroups plans a grouped roster. A group's height is its wrapped
// college lines plus one line per participant; rows are accumulated
// against the remaining capacity and a break is recorded before the first
// row that does not fit.
func PlanGroups(m metrics.Provider, groups []festpdf.RosterGroup, g Geometry) (Plan, error) {
	p := Plan{Columns: GroupColumns, Widths: calculateWidths(GroupColumns, g.Width)}
	st := g.Style
	avail := p.Widths[1] - st.CellPadding.Left - st.CellPadding.Right

	heights := make([]float64, 0, len(groups))
	for i, grp := range groups {
		slNo := strconv.Itoa(i + 1)
		w, err := m.Width(slNo, festpdf.Regular, st.FontSize)
		if err != nil {
			return Plan{}, err
		}
		college, err := layout.Wrap(m, grp.CollegeName, festpdf.Bold, st.FontSize, avail)
		if err != nil {
			return Plan{}, fmt.Errorf("roster: group %d college: %w", i+1, err)
		}
		names := make([]layout.Line, 0, len(grp.ParticipantNames))
		for _, n := range grp.ParticipantNames {
			nw, err := m.Width(n, festpdf.Regular, st.FontSize)
			if err != nil {
				return Plan{}, fmt.Errorf("roster: group %d participant: %w", i+1, err)
			}
			names = append(names, layout.Line{Text: n, Width: nw})
		}
		lines := len(college) + len(names)
		if lines == 0 {
			lines = 1
		}
		row := Row{
			Cells: []Cell{
				{Lines: []layout.Line{{Text: slNo, Width: w}}, Font: festpdf.Regular, Size: st.FontSize, Align: "C"},
				{Lines: append(college, names...), Font: festpdf.Regular, Size: st.FontSize, Headings: len(college)},
			},
			Height: float64(lines) * st.LineHeight,
		}
		p.Body = append(p.Body, row)
		heights = append(heights, row.Height)
	}
	p.Plan = layout.PlanHeights(heights, g.FirstCapacity, g.RestCapacity)
	return p, nil
}
