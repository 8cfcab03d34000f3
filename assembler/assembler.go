// Package assembler places the fixed furniture of a page: the zone header
// image or banner, the title block, the copy label, the footer notes and
// the running "Page n of m" caption.
//
// The assembler only does placement math. Every primitive is delegated to
// a canvas.Canvas, and the same code path that draws the furniture also
// reports the content box left over for the layout engines, so planning
// and drawing agree on the space available.
package assembler

import (
	"fmt"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/canvas"
	"github.com/zonefest/festpdf/layout"
)

// Furniture geometry, in points.
const (
	HeaderMaxHeight = 70
	bannerHeight    = 40
	headerGap       = 8

	titleSize     = 16
	subtitleSize  = 11
	copyLabelSize = 14
	runningSize   = 11

	notesTitleSize = 12
	noteSize       = 10
	noteLeading    = 13
	captionSize    = 9
	captionHeight  = 14
	contentGap     = 6
)

const headerImageName = "zone-header"

// Furniture describes what is printed around the content of one page.
type Furniture struct {
	Title      string
	Subtitle   string
	CopyLabel  string
	PageNumber int // 1-based; 0 omits the caption
	TotalPages int
	Notes      bool // print the theme's footer notes
	Compact    bool // continuation page: one running header line instead of the full header
}

// Box is a rectangle in page coordinates, origin top-left.
type Box struct {
	X, Y, W, H float64
}

// Bottom returns the y coordinate of the lower edge.
func (b Box) Bottom() float64 { return b.Y + b.H }

// Page identifies a page created through the assembler.
type Page struct {
	Number        int // 1-based position in the document
	Width, Height float64
}

// Assembler draws page furniture for one document in one zone theme.
type Assembler struct {
	c      canvas.Canvas
	theme  festpdf.ZoneTheme
	margin float64

	header     bool
	headerSize canvas.ImageSize
}

// New returns an assembler drawing onto c with the given theme and margin.
func New(c canvas.Canvas, th festpdf.ZoneTheme, margin float64) *Assembler {
	return &Assembler{c: c, theme: th, margin: margin}
}

// Canvas returns the underlying canvas.
func (a *Assembler) Canvas() canvas.Canvas { return a.c }

// Theme returns the active zone theme.
func (a *Assembler) Theme() festpdf.ZoneTheme { return a.theme }

// Margin returns the page margin.
func (a *Assembler) Margin() float64 { return a.margin }

// SetHeaderImage embeds the zone header image. Without one, the header is
// drawn as a colored banner carrying the zone name.
func (a *Assembler) SetHeaderImage(data []byte, format festpdf.ImageFormat) error {
	size, err := a.c.EmbedImage(headerImageName, data, format)
	if err != nil {
		return fmt.Errorf("assembler: header image: %w", err)
	}
	a.header = true
	a.headerSize = size
	return nil
}

// NewPage appends a page to the document.
func (a *Assembler) NewPage() Page {
	a.c.NewPage()
	w, h := a.c.PageSize()
	return Page{Number: a.c.PageCount(), Width: w, Height: h}
}

// FitImage scales a w×h image uniformly so it fits inside maxW×maxH.
func FitImage(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := maxW / w
	if s := maxH / h; s < scale {
		scale = s
	}
	return w * scale, h * scale
}

// DrawFurniture draws f on page p and returns the content box left for the
// page body.
func (a *Assembler) DrawFurniture(p Page, f Furniture) (Box, error) {
	if p.Number != a.c.PageCount() {
		return Box{}, fmt.Errorf("assembler: page %d is not the current page", p.Number)
	}
	return a.place(f, true)
}

// ContentBox returns the content box DrawFurniture would leave for f
// without drawing anything.
func (a *Assembler) ContentBox(f Furniture) (Box, error) {
	return a.place(f, false)
}

func (a *Assembler) place(f Furniture, draw bool) (Box, error) {
	pw, ph := a.c.PageSize()
	m := a.margin
	inner := pw - 2*m
	y := m

	var ops []func() error
	emit := func(fn func() error) {
		if draw {
			ops = append(ops, fn)
		}
	}

	if f.Compact {
		baseline := y + runningSize
		label := a.theme.Name
		if f.Title != "" {
			label += " - " + f.Title
		}
		emit(func() error { return a.text(m, baseline, label, festpdf.Bold, runningSize, a.theme.PrimaryColor) })
		if f.CopyLabel != "" {
			emit(func() error {
				return a.rightText(pw-m, baseline, "( "+f.CopyLabel+" )", festpdf.Regular, runningSize, festpdf.Black)
			})
		}
		rule := y + runningSize + 5
		emit(func() error {
			return a.c.DrawLine(m, rule, pw-m, rule, canvas.LineStyle{Color: a.theme.PrimaryColor, Width: 0.75})
		})
		y = rule + headerGap
	} else {
		hy := y
		if a.header {
			w, h := FitImage(a.headerSize.Width, a.headerSize.Height, inner, HeaderMaxHeight)
			x := (pw - w) / 2
			emit(func() error { return a.c.DrawImage(headerImageName, x, hy, w, h) })
			y += h
		} else {
			emit(func() error {
				if err := a.c.DrawRect(m, hy, inner, bannerHeight, canvas.RectStyle{Fill: true, FillColor: a.theme.PrimaryColor}); err != nil {
					return err
				}
				return a.centerText(pw/2, hy+bannerHeight/2+6, a.theme.Name, festpdf.Bold, 18, festpdf.White)
			})
			y += bannerHeight
		}
		y += headerGap

		if f.Title != "" {
			baseline := y + titleSize
			emit(func() error { return a.centerText(pw/2, baseline, f.Title, festpdf.Bold, titleSize, a.theme.PrimaryColor) })
			y += titleSize + 6
		}
		if f.Subtitle != "" {
			baseline := y + subtitleSize
			emit(func() error { return a.centerText(pw/2, baseline, f.Subtitle, festpdf.Regular, subtitleSize, festpdf.Black) })
			y += subtitleSize + 5
		}
		if f.CopyLabel != "" {
			baseline := y + copyLabelSize
			emit(func() error {
				return a.centerText(pw/2, baseline, "( "+f.CopyLabel+" )", festpdf.Regular, copyLabelSize, festpdf.Black)
			})
			y += copyLabelSize + 6
		}
	}

	bottom := ph - m
	if f.PageNumber > 0 {
		caption := fmt.Sprintf("Page %d of %d", f.PageNumber, f.TotalPages)
		baseline := bottom
		emit(func() error { return a.rightText(pw-m, baseline, caption, festpdf.Regular, captionSize, festpdf.Black) })
		bottom -= captionHeight
	}

	if f.Notes && len(a.theme.FooterNotes) > 0 {
		notes, height, err := a.noteLines(inner)
		if err != nil {
			return Box{}, err
		}
		top := bottom - height
		emit(func() error { return a.drawNotes(m, top, notes) })
		bottom = top
	}
	bottom -= contentGap

	box := Box{X: m, Y: y, W: inner, H: bottom - y}
	if box.H < 0 {
		return Box{}, fmt.Errorf("assembler: no room for content between %.1f and %.1f", y, bottom)
	}
	for _, op := range ops {
		if err := op(); err != nil {
			return Box{}, fmt.Errorf("assembler: %w", err)
		}
	}
	return box, nil
}

// noteLines wraps the theme's footer notes and returns the block height.
func (a *Assembler) noteLines(width float64) ([][]layout.Line, float64, error) {
	const bulletIndent = 10
	height := float64(notesTitleSize + 4)
	out := make([][]layout.Line, 0, len(a.theme.FooterNotes))
	for _, note := range a.theme.FooterNotes {
		lines, err := layout.Wrap(a.c, note, festpdf.Regular, noteSize, width-bulletIndent)
		if err != nil {
			return nil, 0, fmt.Errorf("assembler: footer note: %w", err)
		}
		out = append(out, lines)
		height += float64(len(lines)) * noteLeading
	}
	return out, height, nil
}

func (a *Assembler) drawNotes(x, top float64, notes [][]layout.Line) error {
	y := top + notesTitleSize
	if err := a.text(x, y, "Notes:", festpdf.Bold, notesTitleSize, festpdf.Black); err != nil {
		return err
	}
	y += 4
	for _, lines := range notes {
		for i, l := range lines {
			y += noteLeading
			if i == 0 {
				if err := a.text(x, y, "•", festpdf.Regular, noteSize, festpdf.Black); err != nil {
					return err
				}
			}
			if err := a.text(x+10, y, l.Text, festpdf.Regular, noteSize, festpdf.Black); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Assembler) text(x, y float64, s string, font festpdf.Font, size float64, c festpdf.Color) error {
	return a.c.DrawText(x, y, s, canvas.TextStyle{Font: font, Size: size, Color: c})
}

func (a *Assembler) centerText(cx, y float64, s string, font festpdf.Font, size float64, c festpdf.Color) error {
	w, err := a.c.Width(s, font, size)
	if err != nil {
		return err
	}
	return a.text(cx-w/2, y, s, font, size, c)
}

func (a *Assembler) rightText(right, y float64, s string, font festpdf.Font, size float64, c festpdf.Color) error {
	w, err := a.c.Width(s, font, size)
	if err != nil {
		return err
	}
	return a.text(right-w, y, s, font, size, c)
}
