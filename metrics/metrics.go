// Package metrics measures rendered text widths.
//
// Widths come from the same core-font tables the fpdf renderer uses when it
// places text, so a width reported here is the width that ends up on the
// page. Text is encoded to cp1252 first; a rune outside that encoding is
// reported as an UnsupportedGlyphError instead of being measured as zero.
package metrics

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	festpdf "github.com/zonefest/festpdf"
)

// Provider returns the rendered width of text in points.
type Provider interface {
	Width(text string, font festpdf.Font, size float64) (float64, error)
}

// Func adapts an ordinary function to the Provider interface.
type Func func(text string, font festpdf.Font, size float64) (float64, error)

func (f Func) Width(text string, font festpdf.Font, size float64) (float64, error) {
	return f(text, font, size)
}

var coreFamilies = map[string]bool{
	"helvetica":    true,
	"arial":        true,
	"courier":      true,
	"times":        true,
	"symbol":       true,
	"zapfdingbats": true,
}

// IsCoreFamily reports whether family names one of the standard PDF fonts.
func IsCoreFamily(family string) bool {
	return coreFamilies[strings.ToLower(family)]
}

// Encode converts UTF-8 text to the cp1252 bytes the core fonts expect.
func Encode(text string, font festpdf.Font) (string, error) {
	var sb strings.Builder
	sb.Grow(len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(text[i:]); size <= 1 {
				return "", &festpdf.UnsupportedGlyphError{Rune: r, Font: font}
			}
		}
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			return "", &festpdf.UnsupportedGlyphError{Rune: r, Font: font}
		}
		sb.WriteByte(b)
	}
	return sb.String(), nil
}

// Core measures text with the renderer's core-font width tables. It is
// safe for concurrent use.
type Core struct {
	mu  sync.Mutex
	pdf *fpdf.Fpdf
}

// NewCore returns a Core provider backed by a private fpdf instance that
// never produces a page.
func NewCore() *Core {
	return &Core{pdf: fpdf.New("P", "pt", "A4", "")}
}

func (c *Core) Width(text string, font festpdf.Font, size float64) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Measure(c.pdf, text, font, size)
}

// Measure encodes text and measures it on pdf. It is the single entry point
// shared by Core and the fpdf canvas.
func Measure(pdf *fpdf.Fpdf, text string, font festpdf.Font, size float64) (float64, error) {
	enc, err := Encode(text, font)
	if err != nil {
		return 0, &festpdf.MeasurementError{Text: text, Err: err}
	}
	if !IsCoreFamily(font.Family) {
		return 0, &festpdf.MeasurementError{Text: text, Err: festpdf.ErrUnknownFont}
	}
	return MeasureWith(pdf, enc, font, size)
}

// MeasureWith measures cp1252-encoded text on pdf, which must be using
// point units. The renderer's sticky error is cleared and returned so one
// bad font name does not poison later measurements.
func MeasureWith(pdf *fpdf.Fpdf, encoded string, font festpdf.Font, size float64) (float64, error) {
	pdf.SetFont(font.Family, font.Style, size)
	w := pdf.GetStringWidth(encoded)
	if pdf.Err() {
		err := pdf.Error()
		pdf.ClearError()
		return 0, &festpdf.MeasurementError{Text: encoded, Err: err}
	}
	return w, nil
}
