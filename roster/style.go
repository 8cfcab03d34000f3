package roster

import festpdf "github.com/zonefest/festpdf"

// Padding defines spacing inside a cell.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// UniformPadding creates a Padding with the same value on all sides.
func UniformPadding(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// BorderStyle defines the appearance of cell borders.
type BorderStyle struct {
	Width float64
	Color festpdf.Color
}

// CellStyle defines the visual appearance of a cell. Nil fields inherit.
type CellStyle struct {
	FillColor *festpdf.Color
	TextColor *festpdf.Color
	Font      *festpdf.Font
}

// AlternateStyle defines alternating row colors, chosen by the parity of
// the row's index in the whole roster.
type AlternateStyle struct {
	Even CellStyle
	Odd  CellStyle
}

// Style defines the overall appearance of a roster table.
type Style struct {
	Border        BorderStyle
	HeaderStyle   CellStyle
	AlternateRows *AlternateStyle
	CellPadding   Padding
	FontSize      float64
	LineHeight    float64
}

// Tint mixes c with white; pct is the share of c kept, 0..100.
func Tint(c festpdf.Color, pct int) festpdf.Color {
	mix := func(v int) int { return 255 - (255-v)*pct/100 }
	return festpdf.Color{R: mix(c.R), G: mix(c.G), B: mix(c.B)}
}

// DefaultStyle derives the roster style from a zone's primary color: a
// solid header in that color and body rows alternating with a light tint.
func DefaultStyle(primary festpdf.Color) Style {
	white := festpdf.White
	bold := festpdf.Bold
	tint := Tint(primary, 15)
	return Style{
		Border:      BorderStyle{Width: 0.5, Color: festpdf.Color{R: 160, G: 160, B: 160}},
		HeaderStyle: CellStyle{FillColor: &primary, TextColor: &white, Font: &bold},
		AlternateRows: &AlternateStyle{
			Even: CellStyle{FillColor: &tint},
			Odd:  CellStyle{FillColor: &white},
		},
		CellPadding: Padding{Left: 4, Right: 4},
		FontSize:    11,
		LineHeight:  16,
	}
}

// rowStyle merges the body style for row index i.
func (s Style) rowStyle(i int) CellStyle {
	var out CellStyle
	if s.AlternateRows != nil {
		if i%2 == 0 {
			mergeStyle(&out, &s.AlternateRows.Even)
		} else {
			mergeStyle(&out, &s.AlternateRows.Odd)
		}
	}
	return out
}

// mergeStyle copies non-nil fields from src to dst.
func mergeStyle(dst, src *CellStyle) {
	if src.FillColor != nil {
		dst.FillColor = src.FillColor
	}
	if src.TextColor != nil {
		dst.TextColor = src.TextColor
	}
	if src.Font != nil {
		dst.Font = src.Font
	}
}
