package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // decoders for EmbedImage
	_ "image/png"
	"io"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/metrics"
)

// OpKind names a recorded drawing operation.
type OpKind string

const (
	OpText    OpKind = "text"
	OpRect    OpKind = "rect"
	OpLine    OpKind = "line"
	OpImage   OpKind = "image"
	OpBarcode OpKind = "barcode"
)

// Op is one recorded drawing call.
type Op struct {
	Kind  OpKind
	Page  int // 1-based
	X, Y  float64
	W, H  float64
	Value string // text, image name or barcode payload
	Style TextStyle
	Rect  RectStyle
}

// Recorder is a Canvas that records drawing calls instead of producing a
// PDF. It lets layout code be tested against exact positions and page
// assignments.
type Recorder struct {
	Metrics metrics.Provider
	Ops     []Op

	width, height float64
	pages         int
	images        map[string]ImageSize
}

// NewRecorder returns a recorder with the page size from opts that measures
// text with m.
func NewRecorder(m metrics.Provider, opts ...festpdf.Option) *Recorder {
	cfg := festpdf.NewDocumentConfig(opts...)
	return &Recorder{
		Metrics: m,
		width:   cfg.PageWidth,
		height:  cfg.PageHeight,
		images:  make(map[string]ImageSize),
	}
}

// RecorderFactory returns a Factory whose canvases all measure with m. The
// most recent canvas is available through last.
func RecorderFactory(m metrics.Provider, last **Recorder) Factory {
	return func(opts ...festpdf.Option) Canvas {
		r := NewRecorder(m, opts...)
		if last != nil {
			*last = r
		}
		return r
	}
}

func (r *Recorder) Width(text string, font festpdf.Font, size float64) (float64, error) {
	return r.Metrics.Width(text, font, size)
}

func (r *Recorder) NewPage() { r.pages++ }

func (r *Recorder) PageSize() (float64, float64) { return r.width, r.height }

func (r *Recorder) PageCount() int { return r.pages }

var errNoPage = errors.New("canvas: drawing before the first page")

func (r *Recorder) record(op Op) error {
	if r.pages == 0 {
		return errNoPage
	}
	op.Page = r.pages
	r.Ops = append(r.Ops, op)
	return nil
}

func (r *Recorder) DrawText(x, y float64, text string, style TextStyle) error {
	if _, err := metrics.Encode(text, style.Font); err != nil {
		return festpdf.NewRenderError("DrawText", err)
	}
	return r.record(Op{Kind: OpText, X: x, Y: y, Value: text, Style: style})
}

func (r *Recorder) DrawRect(x, y, w, h float64, style RectStyle) error {
	if !style.Fill && !style.Stroke {
		return nil
	}
	return r.record(Op{Kind: OpRect, X: x, Y: y, W: w, H: h, Rect: style})
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 float64, style LineStyle) error {
	return r.record(Op{Kind: OpLine, X: x1, Y: y1, W: x2 - x1, H: y2 - y1})
}

// EmbedImage decodes the image header to learn its size. Data that is not
// a PNG or JPEG fails the same way it does on a real document.
func (r *Recorder) EmbedImage(name string, data []byte, format festpdf.ImageFormat) (ImageSize, error) {
	if size, ok := r.images[name]; ok {
		return size, nil
	}
	cfg, detected, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageSize{}, &festpdf.UnsupportedImageFormatError{Ref: name, Detected: string(format), Err: err}
	}
	if (detected == "png") != (format == festpdf.PNG) {
		return ImageSize{}, &festpdf.UnsupportedImageFormatError{Ref: name, Detected: detected}
	}
	size := ImageSize{Width: float64(cfg.Width), Height: float64(cfg.Height)}
	r.images[name] = size
	return size, nil
}

func (r *Recorder) DrawImage(name string, x, y, w, h float64) error {
	if _, ok := r.images[name]; !ok {
		return festpdf.NewRenderError("DrawImage", fmt.Errorf("image %q not embedded", name))
	}
	return r.record(Op{Kind: OpImage, X: x, Y: y, W: w, H: h, Value: name})
}

func (r *Recorder) DrawBarcode(kind festpdf.BarcodeKind, code string, x, y, w, h float64) error {
	if kind == festpdf.BarcodeNone || code == "" {
		return nil
	}
	return r.record(Op{Kind: OpBarcode, X: x, Y: y, W: w, H: h, Value: code})
}

// Save writes a one-line summary so callers that expect bytes get some.
func (r *Recorder) Save(w io.Writer) error {
	if r.pages == 0 {
		return festpdf.NewRenderError("Save", errors.New("document has no pages"))
	}
	_, err := fmt.Fprintf(w, "%%PDF-recorder pages=%d ops=%d\n", r.pages, len(r.Ops))
	return err
}

// Texts returns the text drawn on page (1-based), in drawing order.
func (r *Recorder) Texts(page int) []string {
	var out []string
	for _, op := range r.Ops {
		if op.Page == page && op.Kind == OpText {
			out = append(out, op.Value)
		}
	}
	return out
}

// Find returns the ops of the given kind on page. A page of 0 matches
// every page.
func (r *Recorder) Find(kind OpKind, page int) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind && (page == 0 || op.Page == page) {
			out = append(out, op)
		}
	}
	return out
}
