package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/boombuler/barcode/qr"
	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/barcode"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/metrics"
)

// PDF417 symbol parameters: data columns and error correction level.
const (
	pdf417Columns  = 6
	pdf417Security = 2
)

// PDF is a Canvas that writes a PDF document with fpdf. A PDF belongs to a
// single export and must not be shared between goroutines.
type PDF struct {
	pdf *fpdf.Fpdf
	cfg festpdf.DocumentConfig
}

// NewPDF creates an empty document. Automatic page breaks are disabled:
// every page is requested explicitly through NewPage.
func NewPDF(opts ...festpdf.Option) *PDF {
	cfg := festpdf.NewDocumentConfig(opts...)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: cfg.PageWidth, Ht: cfg.PageHeight},
	})
	pdf.SetMargins(cfg.Margin, cfg.Margin, cfg.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(cfg.Compress)
	pdf.SetCreator("festpdf", false)
	if cfg.Title != "" {
		pdf.SetTitle(cfg.Title, true)
	}
	if cfg.Author != "" {
		pdf.SetAuthor(cfg.Author, true)
	}
	if !cfg.Created.IsZero() {
		pdf.SetCreationDate(cfg.Created)
		pdf.SetModificationDate(cfg.Created)
	}
	return &PDF{pdf: pdf, cfg: cfg}
}

// NewPDFCanvas is a Factory producing PDF canvases.
func NewPDFCanvas(opts ...festpdf.Option) Canvas {
	return NewPDF(opts...)
}

// Width measures text with the document's own font tables.
func (p *PDF) Width(text string, font festpdf.Font, size float64) (float64, error) {
	if err := p.check("Width"); err != nil {
		return 0, err
	}
	return metrics.Measure(p.pdf, text, font, size)
}

func (p *PDF) NewPage() {
	p.pdf.AddPage()
}

func (p *PDF) PageSize() (float64, float64) {
	return p.cfg.PageWidth, p.cfg.PageHeight
}

func (p *PDF) PageCount() int {
	return p.pdf.PageCount()
}

func (p *PDF) DrawText(x, y float64, text string, style TextStyle) error {
	enc, err := metrics.Encode(text, style.Font)
	if err != nil {
		return festpdf.NewRenderError("DrawText", err)
	}
	p.pdf.SetFont(style.Font.Family, style.Font.Style, style.Size)
	p.pdf.SetTextColor(style.Color.R, style.Color.G, style.Color.B)
	p.pdf.Text(x, y, enc)
	return p.check("DrawText")
}

func (p *PDF) DrawRect(x, y, w, h float64, style RectStyle) error {
	var mode string
	switch {
	case style.Fill && style.Stroke:
		mode = "FD"
	case style.Fill:
		mode = "F"
	case style.Stroke:
		mode = "D"
	default:
		return nil
	}
	if style.Fill {
		c := style.FillColor
		p.pdf.SetFillColor(c.R, c.G, c.B)
	}
	if style.Stroke {
		c := style.StrokeColor
		p.pdf.SetDrawColor(c.R, c.G, c.B)
		if style.LineWidth > 0 {
			p.pdf.SetLineWidth(style.LineWidth)
		}
	}
	p.pdf.Rect(x, y, w, h, mode)
	return p.check("DrawRect")
}

func (p *PDF) DrawLine(x1, y1, x2, y2 float64, style LineStyle) error {
	p.pdf.SetDrawColor(style.Color.R, style.Color.G, style.Color.B)
	if style.Width > 0 {
		p.pdf.SetLineWidth(style.Width)
	}
	p.pdf.Line(x1, y1, x2, y2)
	return p.check("DrawLine")
}

// EmbedImage registers PNG or JPEG data. A decode failure is returned as an
// UnsupportedImageFormatError and leaves the document usable.
func (p *PDF) EmbedImage(name string, data []byte, format festpdf.ImageFormat) (ImageSize, error) {
	if err := p.check("EmbedImage"); err != nil {
		return ImageSize{}, err
	}
	switch format {
	case festpdf.PNG, festpdf.JPEG:
	default:
		return ImageSize{}, &festpdf.UnsupportedImageFormatError{Ref: name, Detected: string(format)}
	}
	info := p.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: string(format)}, bytes.NewReader(data))
	if p.pdf.Err() {
		err := p.pdf.Error()
		p.pdf.ClearError()
		return ImageSize{}, &festpdf.UnsupportedImageFormatError{Ref: name, Detected: string(format), Err: err}
	}
	if info == nil {
		return ImageSize{}, &festpdf.UnsupportedImageFormatError{Ref: name, Detected: string(format)}
	}
	return ImageSize{Width: info.Width(), Height: info.Height()}, nil
}

func (p *PDF) DrawImage(name string, x, y, w, h float64) error {
	if p.pdf.GetImageInfo(name) == nil {
		return festpdf.NewRenderError("DrawImage", fmt.Errorf("image %q not embedded", name))
	}
	p.pdf.ImageOptions(name, x, y, w, h, false, fpdf.ImageOptions{}, 0, "")
	return p.check("DrawImage")
}

// DrawBarcode draws a QR or PDF417 symbol. BarcodeNone and an empty code
// draw nothing.
func (p *PDF) DrawBarcode(kind festpdf.BarcodeKind, code string, x, y, w, h float64) error {
	if kind == festpdf.BarcodeNone || code == "" {
		return nil
	}
	var key string
	switch kind {
	case festpdf.BarcodeQR:
		key = barcode.RegisterQR(p.pdf, code, qr.M, qr.Auto)
	case festpdf.BarcodePDF417:
		key = barcode.RegisterPdf417(p.pdf, code, pdf417Columns, pdf417Security)
	default:
		return festpdf.NewRenderError("DrawBarcode", fmt.Errorf("unknown barcode kind %q", kind))
	}
	if err := p.reset("DrawBarcode"); err != nil {
		return err
	}
	barcode.Barcode(p.pdf, key, x, y, w, h, false)
	return p.reset("DrawBarcode")
}

// Save writes the document to w.
func (p *PDF) Save(w io.Writer) error {
	if p.pdf.PageCount() == 0 {
		return festpdf.NewRenderError("Save", errors.New("document has no pages"))
	}
	if err := p.pdf.Output(w); err != nil {
		return festpdf.NewRenderError("Save", err)
	}
	return nil
}

// check surfaces fpdf's sticky error. The error stays set, so the document
// is unusable afterwards.
func (p *PDF) check(op string) error {
	if p.pdf.Err() {
		return festpdf.NewRenderError(op, p.pdf.Error())
	}
	return nil
}

// reset surfaces and clears fpdf's sticky error, for operations whose
// failure leaves nothing half-written on the page.
func (p *PDF) reset(op string) error {
	if !p.pdf.Err() {
		return nil
	}
	err := p.pdf.Error()
	p.pdf.ClearError()
	return festpdf.NewRenderError(op, err)
}
