// Package bundle concatenates rendered documents into a single PDF.
//
// Ticket and roster documents are produced independently; a bundle imports
// every page of each as a template into a new document, in order, keeping
// each page's own size.
package bundle

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"

	festpdf "github.com/zonefest/festpdf"
)

// Document is one rendered PDF. Pages may be zero, in which case it is
// counted on import.
type Document struct {
	Data  []byte
	Pages int
}

const box = "/MediaBox"

// Merge writes the pages of docs, in order, to w and returns the number of
// pages written.
func Merge(w io.Writer, docs ...Document) (pages int, err error) {
	if len(docs) == 0 {
		return 0, errors.New("bundle: no documents provided")
	}
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, festpdf.NewRenderError("Merge", fmt.Errorf("%v", r))
		}
	}()

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	imp := gofpdi.NewImporter()

	for i, doc := range docs {
		n, err := appendDocument(pdf, imp, doc)
		if err != nil {
			return 0, fmt.Errorf("bundle: document %d: %w", i+1, err)
		}
		pages += n
	}
	if err := pdf.Error(); err != nil {
		return 0, festpdf.NewRenderError("Merge", err)
	}
	if err := pdf.Output(w); err != nil {
		return 0, festpdf.NewRenderError("Merge", err)
	}
	return pages, nil
}

// appendDocument imports every page of doc into pdf.
func appendDocument(pdf *fpdf.Fpdf, imp *gofpdi.Importer, doc Document) (int, error) {
	if !bytes.HasPrefix(doc.Data, []byte("%PDF-")) {
		return 0, errors.New("not a PDF document")
	}
	var rs io.ReadSeeker = bytes.NewReader(doc.Data)

	n := doc.Pages
	for page := 1; n == 0 || page <= n; page++ {
		tpl := imp.ImportPageFromStream(pdf, &rs, page, box)
		sizes := imp.GetPageSizes()
		if n == 0 {
			n = len(sizes)
		}
		w, h := festpdf.A4Width, festpdf.A4Height
		if dims, ok := sizes[page][box]; ok && dims["w"] > 0 && dims["h"] > 0 {
			w, h = dims["w"], dims["h"]
		}
		orientation := "P"
		if w > h {
			orientation = "L"
		}
		pdf.AddPageFormat(orientation, fpdf.SizeType{Wd: w, Ht: h})
		imp.UseImportedTemplate(pdf, tpl, 0, 0, w, h)
		if err := pdf.Error(); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// PageCount returns the number of pages in a PDF document.
func PageCount(data []byte) (n int, err error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return 0, errors.New("bundle: not a PDF document")
	}
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("bundle: %v", r)
		}
	}()
	scratch := fpdf.New("P", "pt", "A4", "")
	imp := gofpdi.NewImporter()
	var rs io.ReadSeeker = bytes.NewReader(data)
	imp.ImportPageFromStream(scratch, &rs, 1, box)
	return len(imp.GetPageSizes()), nil
}
