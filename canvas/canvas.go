// Package canvas defines the drawing surface the layout engines render
// onto, an fpdf-backed implementation, and a recording double for tests.
//
// A Canvas only draws what it is told to draw. It never wraps, shrinks or
// paginates; those decisions belong to the layout packages. Coordinates are
// in points with the origin at the top-left corner of the page, and text is
// positioned by its baseline.
package canvas

import (
	"io"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/metrics"
)

// TextStyle describes how a run of text is drawn.
type TextStyle struct {
	Font  festpdf.Font
	Size  float64
	Color festpdf.Color
}

// RectStyle describes a rectangle's fill and outline. A rectangle with
// neither Fill nor Stroke set is not drawn.
type RectStyle struct {
	Fill        bool
	FillColor   festpdf.Color
	Stroke      bool
	StrokeColor festpdf.Color
	LineWidth   float64 // 0 keeps the current width
}

// LineStyle describes a straight line.
type LineStyle struct {
	Color festpdf.Color
	Width float64
}

// ImageSize is the natural size of an embedded image, in points at 72 dpi.
type ImageSize struct {
	Width, Height float64
}

// Canvas is the rendering collaborator used by the page assembler and the
// layout engines. Width reports the same metrics the canvas uses when it
// places text.
type Canvas interface {
	metrics.Provider

	// NewPage appends a blank page and makes it current.
	NewPage()
	// PageSize returns the fixed page dimensions.
	PageSize() (width, height float64)
	// PageCount returns the number of pages created so far.
	PageCount() int

	DrawText(x, y float64, text string, style TextStyle) error
	DrawRect(x, y, w, h float64, style RectStyle) error
	DrawLine(x1, y1, x2, y2 float64, style LineStyle) error

	// EmbedImage registers image data under name without placing it.
	// Registering the same name twice returns the first registration.
	EmbedImage(name string, data []byte, format festpdf.ImageFormat) (ImageSize, error)
	// DrawImage places a previously embedded image.
	DrawImage(name string, x, y, w, h float64) error
	// DrawBarcode encodes code and places the symbol in the given box.
	DrawBarcode(kind festpdf.BarcodeKind, code string, x, y, w, h float64) error

	// Save serializes the document.
	Save(w io.Writer) error
}

// Factory creates the canvas for one document.
type Factory func(opts ...festpdf.Option) Canvas
