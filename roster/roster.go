// Package roster lays out program rosters as paginated tables.
//
// Rendering is two-phase. Pass 1 (PlanFlat, PlanGroups) measures every row
// and records the page breaks; pass 2 (Render) replays that plan, drawing
// the page furniture, a repeated header row and the rows with alternating
// shading. Drawing never decides a break on its own, so the "Page n of m"
// caption always matches the pages produced.
package roster

import (
	"fmt"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/assembler"
	"github.com/zonefest/festpdf/canvas"
	"github.com/zonefest/festpdf/layout"
)

// Option configures an Engine.
type Option func(*Engine)

// WithStyle overrides the table style derived from the zone theme.
func WithStyle(s Style) Option {
	return func(e *Engine) {
		e.style = s
	}
}

// Engine lays out rosters through one assembler.
type Engine struct {
	a     *assembler.Assembler
	style Style
}

// New returns an engine drawing through a.
func New(a *assembler.Assembler, opts ...Option) *Engine {
	e := &Engine{a: a, style: DefaultStyle(a.Theme().PrimaryColor)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// furniture returns the page furniture of page n. Only the first page
// carries the full header and the subtitle.
func furniture(title, subtitle string, n, total int) assembler.Furniture {
	f := assembler.Furniture{Title: title, PageNumber: n, TotalPages: total}
	if n == 1 {
		f.Subtitle = subtitle
	} else {
		f.Compact = true
	}
	return f
}

// Geometry computes the body capacities of first and continuation pages.
func (e *Engine) Geometry(title, subtitle string) (Geometry, error) {
	first, err := e.a.ContentBox(furniture(title, subtitle, 1, 1))
	if err != nil {
		return Geometry{}, err
	}
	rest, err := e.a.ContentBox(furniture(title, subtitle, 2, 2))
	if err != nil {
		return Geometry{}, err
	}
	header := e.style.LineHeight
	return Geometry{
		FirstCapacity: first.H - header,
		RestCapacity:  rest.H - header,
		Width:         first.W,
		Style:         e.style,
	}, nil
}

// PlanFlat runs pass 1 for a flat roster.
func (e *Engine) PlanFlat(title, subtitle string, entries []festpdf.RosterEntry) (Plan, error) {
	g, err := e.Geometry(title, subtitle)
	if err != nil {
		return Plan{}, err
	}
	return PlanFlat(e.a.Canvas(), entries, g)
}

// PlanGroups runs pass 1 for a grouped roster.
func (e *Engine) PlanGroups(title, subtitle string, groups []festpdf.RosterGroup) (Plan, error) {
	g, err := e.Geometry(title, subtitle)
	if err != nil {
		return Plan{}, err
	}
	return PlanGroups(e.a.Canvas(), groups, g)
}

// Render runs pass 2 and returns the number of pages drawn. An empty plan
// still produces one page with the header row.
func (e *Engine) Render(title, subtitle string, p Plan) (int, error) {
	total := p.Pages()
	if total == 0 {
		total = 1
	}
	lh := e.style.LineHeight
	for i := 0; i < total; i++ {
		box, err := e.a.DrawFurniture(e.a.NewPage(), furniture(title, subtitle, i+1, total))
		if err != nil {
			return i, fmt.Errorf("roster: page %d: %w", i+1, err)
		}
		if err := e.drawHeaderRow(box.X, box.Y, p); err != nil {
			return i, fmt.Errorf("roster: page %d header: %w", i+1, err)
		}
		if p.Pages() == 0 {
			continue
		}

		cur := layout.NewCursor(box.X, box.Y+lh, box.H-lh)
		start, end := p.Page(i)
		for r := start; r < end; r++ {
			row := p.Body[r]
			top := cur.Y
			if !cur.Emit(row.Height) && r != start {
				return i, fmt.Errorf("roster: row %d does not fit page %d as planned", r+1, i+1)
			}
			if err := e.drawRow(box.X, top, p, row, r); err != nil {
				return i, fmt.Errorf("roster: row %d: %w", r+1, err)
			}
		}
	}
	return total, nil
}

func (e *Engine) drawHeaderRow(x, y float64, p Plan) error {
	c := e.a.Canvas()
	st := e.style
	hs := st.HeaderStyle
	font := festpdf.Bold
	if hs.Font != nil {
		font = *hs.Font
	}
	textColor := festpdf.Black
	if hs.TextColor != nil {
		textColor = *hs.TextColor
	}
	for j, col := range p.Columns {
		w := p.Widths[j]
		if err := e.drawCell(x, y, w, st.LineHeight, hs.FillColor); err != nil {
			return err
		}
		tw, err := c.Width(col.Title, font, st.FontSize)
		if err != nil {
			return err
		}
		tx := e.alignX(x, w, tw, col.Align)
		if err := c.DrawText(tx, y+e.textOffset(), col.Title, canvas.TextStyle{Font: font, Size: st.FontSize, Color: textColor}); err != nil {
			return err
		}
		x += w
	}
	return nil
}

func (e *Engine) drawRow(x, y float64, p Plan, row Row, index int) error {
	c := e.a.Canvas()
	st := e.style
	rs := st.rowStyle(index)
	textColor := festpdf.Black
	if rs.TextColor != nil {
		textColor = *rs.TextColor
	}
	for j, cell := range row.Cells {
		w := p.Widths[j]
		if err := e.drawCell(x, y, w, row.Height, rs.FillColor); err != nil {
			return err
		}
		for k, l := range cell.Lines {
			font := cell.Font
			if k < cell.Headings {
				font = festpdf.Bold
			}
			if rs.Font != nil {
				font = *rs.Font
			}
			tx := e.alignX(x, w, l.Width, cell.Align)
			ty := y + float64(k)*st.LineHeight + e.textOffset()
			if err := c.DrawText(tx, ty, l.Text, canvas.TextStyle{Font: font, Size: cell.Size, Color: textColor}); err != nil {
				return err
			}
		}
		x += w
	}
	return nil
}

func (e *Engine) drawCell(x, y, w, h float64, fill *festpdf.Color) error {
	style := canvas.RectStyle{
		Stroke:      true,
		StrokeColor: e.style.Border.Color,
		LineWidth:   e.style.Border.Width,
	}
	if fill != nil {
		style.Fill = true
		style.FillColor = *fill
	}
	return e.a.Canvas().DrawRect(x, y, w, h, style)
}

// textOffset is the baseline offset that centers a line in its slot.
func (e *Engine) textOffset() float64 {
	return (e.style.LineHeight + e.style.FontSize*0.7) / 2
}

func (e *Engine) alignX(x, w, textW float64, align string) float64 {
	pad := e.style.CellPadding
	switch align {
	case "C":
		return x + (w-textW)/2
	case "R":
		return x + w - pad.Right - textW
	}
	return x + pad.Left
}
