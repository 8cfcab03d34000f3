// Package ticket lays out participant tickets.
//
// A ticket page carries the zone furniture, the personal-details block with
// an optional photo, three program columns (off stage, stage, group), the
// registration barcode and the signature captions. Program columns overflow
// onto continuation pages that repeat the whole ticket; the column split is
// planned once per participant and replayed for every copy.
package ticket

import (
	"fmt"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/assembler"
	"github.com/zonefest/festpdf/canvas"
	"github.com/zonefest/festpdf/layout"
)

// Ticket geometry relative to the top of the content box, in points.
const (
	BoxHeight = 445
	Height    = 540 // box plus barcode and signature captions

	photoInset  = 10
	PhotoWidth  = 115.2
	PhotoHeight = 144

	detailsOffset = 135.2
	fieldHeight   = 24
	fieldSize     = 14
	fieldFloor    = 8

	bandTop       = 165
	bandHeight    = 25
	columnTop     = bandTop + bandHeight
	columnHeight  = 250
	columnGutter  = 5
	itemSize      = 12
	itemLeading   = 16
	firstBaseline = 15

	signatureBaseline = 535
	signatureSize     = 12
)

const (
	principalCaption  = "Principal Signature & Seal"
	councillorCaption = "University Union Councillor (UUC)"
)

// MaxColumnLines is the most lines a program column can hold.
const MaxColumnLines = columnHeight / itemLeading

// Title is the banner title printed on every ticket page.
const Title = "Participant Ticket"

// DefaultStudentCopy is the label of the participant's own copy.
const DefaultStudentCopy = "Student Copy"

// Option configures an Engine.
type Option func(*Engine)

// WithCopies sets the copy labels. Each participant is printed once per
// label, in order.
func WithCopies(labels ...string) Option {
	return func(e *Engine) {
		e.copies = append([]string(nil), labels...)
	}
}

// WithColumnLines sets the per-page line budget of a program column. It is
// clamped to 1..MaxColumnLines.
func WithColumnLines(n int) Option {
	return func(e *Engine) {
		e.lines = n
	}
}

// Engine renders tickets through one assembler. It is not safe for
// concurrent use; each document gets its own engine.
type Engine struct {
	a      *assembler.Assembler
	copies []string
	lines  int
}

// New returns an engine drawing through a. Without options it prints the
// zone copy and the student copy with DefaultColumnLines per column.
func New(a *assembler.Assembler, opts ...Option) *Engine {
	e := &Engine{
		a:      a,
		copies: []string{a.Theme().CopyLabel(), DefaultStudentCopy},
		lines:  DefaultColumnLines,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.lines > MaxColumnLines {
		e.lines = MaxColumnLines
	}
	if e.lines < 1 {
		e.lines = 1
	}
	return e
}

// Copies returns the copy labels in print order.
func (e *Engine) Copies() []string { return append([]string(nil), e.copies...) }

func (e *Engine) columnWidth() float64 {
	pw, _ := e.a.Canvas().PageSize()
	m := e.a.Margin()
	return (pw - 2*m - 4*columnGutter) / 3
}

// ColumnSpec returns the column geometry used for planning.
func (e *Engine) ColumnSpec() ColumnSpec {
	return ColumnSpec{
		Font:     festpdf.Regular,
		Size:     itemSize,
		Width:    e.columnWidth() - 2*columnGutter,
		Capacity: e.lines,
	}
}

// Plan computes the column pagination of rec.
func (e *Engine) Plan(rec festpdf.ExportRecord) (Plan, error) {
	return PlanColumns(e.a.Canvas(), rec.Programs, e.ColumnSpec())
}

// Check reports a ConfigurationError when the furniture of a ticket page
// leaves too little room for the ticket. It draws nothing and creates no
// page.
func (e *Engine) Check() error {
	for _, label := range e.copies {
		if _, err := e.contentBox(assembler.Furniture{Title: Title, CopyLabel: label, PageNumber: 1, TotalPages: 1, Notes: true}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) contentBox(f assembler.Furniture) (assembler.Box, error) {
	box, err := e.a.ContentBox(f)
	if err != nil {
		return box, err
	}
	if box.H < Height {
		return box, &festpdf.ConfigurationError{Key: "page size", Err: fmt.Errorf("ticket needs %dpt, page leaves %.1fpt", Height, box.H)}
	}
	return box, nil
}

// Render draws every copy of rec's ticket and returns the number of pages
// added. photo names an image already embedded in the canvas; an empty
// name draws the placeholder box.
func (e *Engine) Render(rec festpdf.ExportRecord, photo string) (int, error) {
	plan, err := e.Plan(rec)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, label := range e.copies {
		for i, page := range plan.Pages {
			f := assembler.Furniture{
				Title:      Title,
				CopyLabel:  label,
				PageNumber: i + 1,
				TotalPages: len(plan.Pages),
				Notes:      true,
			}
			if err := e.renderPage(rec, photo, f, page); err != nil {
				return added, fmt.Errorf("ticket %s (%s) page %d: %w", rec.RegistrationID, label, i+1, err)
			}
			added++
		}
	}
	return added, nil
}

func (e *Engine) renderPage(rec festpdf.ExportRecord, photo string, f assembler.Furniture, page PagePlan) error {
	if _, err := e.contentBox(f); err != nil {
		return err
	}
	box, err := e.a.DrawFurniture(e.a.NewPage(), f)
	if err != nil {
		return err
	}

	c := e.a.Canvas()
	top := box.Y
	if err := c.DrawRect(box.X, top, box.W, BoxHeight, canvas.RectStyle{Stroke: true, LineWidth: 1}); err != nil {
		return err
	}
	if err := e.drawPhoto(box, photo); err != nil {
		return err
	}
	if err := e.drawPersonalFields(box, rec); err != nil {
		return err
	}
	if err := e.drawProgramColumns(box, page); err != nil {
		return err
	}
	return e.drawSignatures(box, rec)
}

func (e *Engine) drawPhoto(box assembler.Box, photo string) error {
	c := e.a.Canvas()
	x, y := box.X+photoInset, box.Y+photoInset
	if photo != "" {
		return c.DrawImage(photo, x, y, PhotoWidth, PhotoHeight)
	}
	if err := c.DrawRect(x, y, PhotoWidth, PhotoHeight, canvas.RectStyle{Stroke: true, StrokeColor: festpdf.Color{R: 150, G: 150, B: 150}, LineWidth: 0.5}); err != nil {
		return err
	}
	const caption = "Photo"
	w, err := c.Width(caption, festpdf.Regular, 10)
	if err != nil {
		return err
	}
	return c.DrawText(x+(PhotoWidth-w)/2, y+PhotoHeight/2+3, caption, canvas.TextStyle{Font: festpdf.Regular, Size: 10, Color: festpdf.Color{R: 150, G: 150, B: 150}})
}

// field is one labelled box of the personal-details block.
type field struct {
	label string
	value string
	fit   bool // shrink the value to the box width
}

func (e *Engine) drawPersonalFields(box assembler.Box, rec festpdf.ExportRecord) error {
	pw, _ := e.a.Canvas().PageSize()
	x := box.X + detailsOffset
	y := box.Y + photoInset
	w := pw - x - e.a.Margin() - photoInset
	half := w / 2

	rows := []struct {
		left, right field
	}{
		{left: field{"Name:", rec.DisplayName, true}},
		{left: field{"Reg ID:", rec.RegistrationID, false}, right: field{"Sex:", rec.Sex, false}},
	}
	for i, r := range rows {
		if err := e.drawRow(x, y+float64(i)*fieldHeight, w, half, r.left, r.right); err != nil {
			return err
		}
	}
	if err := e.drawCollege(x, y+2*fieldHeight, w, rec.CollegeName); err != nil {
		return err
	}
	if err := e.drawRow(x, y+4*fieldHeight, w, half, field{"Course:", rec.Course, true}, field{}); err != nil {
		return err
	}
	return e.drawRow(x, y+5*fieldHeight, w, half, field{"Semester:", rec.SemesterLabel, false}, field{"Date of Birth:", rec.DateOfBirth, false})
}

func (e *Engine) drawRow(x, y, w, half float64, left, right field) error {
	if right.label == "" {
		return e.drawField(x, y, w, left)
	}
	if err := e.drawField(x, y, half, left); err != nil {
		return err
	}
	return e.drawField(x+half, y, half, right)
}

func (e *Engine) drawField(x, y, w float64, f field) error {
	c := e.a.Canvas()
	if err := c.DrawRect(x, y, w, fieldHeight, canvas.RectStyle{Stroke: true, LineWidth: 1}); err != nil {
		return err
	}
	lw, err := c.Width(f.label, festpdf.Bold, fieldSize)
	if err != nil {
		return err
	}
	baseline := y + fieldHeight - 8
	if err := c.DrawText(x+5, baseline, f.label, canvas.TextStyle{Font: festpdf.Bold, Size: fieldSize}); err != nil {
		return err
	}
	if f.value == "" {
		return nil
	}
	avail := w - 15 - lw
	size := float64(fieldSize)
	if f.fit {
		fit, err := layout.FitSize(c, f.value, festpdf.Regular, fieldSize, fieldFloor, avail)
		if err != nil {
			return err
		}
		size = fit.Size
	}
	line, err := layout.Truncate(c, f.value, festpdf.Regular, size, avail)
	if err != nil {
		return err
	}
	return c.DrawText(x+10+lw, baseline, line.Text, canvas.TextStyle{Font: festpdf.Regular, Size: size})
}

// drawCollege draws the two-line college field. The name wraps beside the
// label; if it needs more than two lines the size steps down until it fits
// or reaches the floor, where extra lines are dropped and a word wider than
// the box is cut short.
func (e *Engine) drawCollege(x, y, w float64, college string) error {
	c := e.a.Canvas()
	if err := c.DrawRect(x, y, w, 2*fieldHeight, canvas.RectStyle{Stroke: true, LineWidth: 1}); err != nil {
		return err
	}
	const label = "College:"
	lw, err := c.Width(label, festpdf.Bold, fieldSize)
	if err != nil {
		return err
	}
	first := y + fieldHeight - 8
	if err := c.DrawText(x+5, first, label, canvas.TextStyle{Font: festpdf.Bold, Size: fieldSize}); err != nil {
		return err
	}

	lines, size, err := wrapCollege(c, college, w-15-lw)
	if err != nil {
		return err
	}
	for i, l := range lines {
		if err := c.DrawText(x+10+lw, first+float64(i)*fieldHeight, l.Text, canvas.TextStyle{Font: festpdf.Regular, Size: size}); err != nil {
			return err
		}
	}
	return nil
}

func wrapCollege(m canvas.Canvas, college string, width float64) ([]layout.Line, float64, error) {
	for size := float64(fieldSize); ; size -= layout.FitStep {
		if size < fieldFloor {
			size = fieldFloor
		}
		lines, err := layout.Wrap(m, college, festpdf.Regular, size, width)
		if err != nil {
			return nil, 0, err
		}
		if len(lines) <= 2 || size == fieldFloor {
			if len(lines) > 2 {
				lines = lines[:2]
			}
			for i, l := range lines {
				if lines[i], err = layout.Truncate(m, l.Text, festpdf.Regular, size, width); err != nil {
					return nil, 0, err
				}
			}
			return lines, size, nil
		}
	}
}

func (e *Engine) drawProgramColumns(box assembler.Box, page PagePlan) error {
	c := e.a.Canvas()
	colW := e.columnWidth()
	primary := e.a.Theme().PrimaryColor
	for _, cat := range festpdf.Categories {
		x := box.X + columnGutter + float64(cat)*(colW+columnGutter)
		band := box.Y + bandTop
		if err := c.DrawRect(x, band, colW, bandHeight, canvas.RectStyle{Fill: true, FillColor: primary}); err != nil {
			return err
		}
		if err := c.DrawRect(x, band, colW, bandHeight+columnHeight, canvas.RectStyle{Stroke: true, LineWidth: 1}); err != nil {
			return err
		}
		title := cat.String()
		tw, err := c.Width(title, festpdf.Bold, itemSize)
		if err != nil {
			return err
		}
		if err := c.DrawText(x+(colW-tw)/2, band+17, title, canvas.TextStyle{Font: festpdf.Bold, Size: itemSize, Color: festpdf.White}); err != nil {
			return err
		}

		cur := layout.NewCursor(x+columnGutter, box.Y+columnTop, float64(e.lines*itemLeading))
		for _, item := range page[cat].Lines {
			for _, l := range item {
				baseline := cur.Y + firstBaseline
				if !cur.Emit(itemLeading) {
					break
				}
				if err := c.DrawText(cur.X, baseline, l.Text, canvas.TextStyle{Font: festpdf.Regular, Size: itemSize}); err != nil {
					return err
				}
			}
			if len(item) == 0 {
				cur.Emit(itemLeading)
			}
		}
	}
	return nil
}

func (e *Engine) drawSignatures(box assembler.Box, rec festpdf.ExportRecord) error {
	c := e.a.Canvas()
	th := e.a.Theme()
	pw, _ := c.PageSize()
	baseline := box.Y + signatureBaseline
	style := canvas.TextStyle{Font: festpdf.Regular, Size: signatureSize}

	if err := c.DrawText(box.X+5, baseline, principalCaption, style); err != nil {
		return err
	}
	w, err := c.Width(councillorCaption, festpdf.Regular, signatureSize)
	if err != nil {
		return err
	}
	if err := c.DrawText(pw-e.a.Margin()-5-w, baseline, councillorCaption, style); err != nil {
		return err
	}

	switch th.Barcode {
	case festpdf.BarcodeQR:
		const side = 70
		return c.DrawBarcode(th.Barcode, rec.RegistrationID, pw/2-side/2, box.Y+BoxHeight+12, side, side)
	case festpdf.BarcodePDF417:
		const bw, bh = 140, 42
		return c.DrawBarcode(th.Barcode, rec.RegistrationID, pw/2-bw/2, box.Y+BoxHeight+30, bw, bh)
	}
	return nil
}
