package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/bundle"
	"github.com/zonefest/festpdf/export"
)

// Summary describes a rendered request.
type Summary struct {
	JobIDs   []string
	Pages    int
	Degraded []export.Degradation
}

// Parse decodes a JSON request. Unknown fields are rejected.
func Parse(data []byte) (*Request, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var req Request
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("request: parsing: %w", err)
	}
	return &req, nil
}

// Validate checks the parts of a request that do not need a theme table.
func (r *Request) Validate() error {
	if r.Zone == "" {
		return &festpdf.ConfigurationError{Key: "zone", Err: errors.New("no zone given")}
	}
	if len(r.Tickets) == 0 && r.Roster == nil {
		return festpdf.ErrEmptyExport
	}
	if r.Roster != nil && len(r.Roster.Entries) > 0 && len(r.Roster.Groups) > 0 {
		return &festpdf.ConfigurationError{Key: "roster", Err: errors.New("both entries and groups given")}
	}
	return nil
}

// Options returns the exporter options the request asks for.
func (r *Request) Options() []export.Option {
	var opts []export.Option
	if len(r.Copies) > 0 {
		opts = append(opts, export.WithCopies(r.Copies...))
	}
	if r.ColumnLines > 0 {
		opts = append(opts, export.WithColumnLines(r.ColumnLines))
	}
	if r.StrictPhotos {
		opts = append(opts, export.WithStrictPhotos(true))
	}
	if p := r.Page; p != nil {
		var doc []festpdf.Option
		if p.Width > 0 && p.Height > 0 {
			doc = append(doc, festpdf.WithPageSize(p.Width, p.Height))
		}
		if p.Margin > 0 {
			doc = append(doc, festpdf.WithMargin(p.Margin))
		}
		if len(doc) > 0 {
			opts = append(opts, export.WithDocumentOptions(doc...))
		}
	}
	return opts
}

// Render parses a JSON request and writes the resulting PDF to w. opts
// configure the exporter before the request's own settings apply.
func Render(ctx context.Context, w io.Writer, data []byte, opts ...export.Option) (*Summary, error) {
	req, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return RenderRequest(ctx, w, req, opts...)
}

// RenderRequest renders a parsed request. Nothing is written to w unless
// every part renders.
func RenderRequest(ctx context.Context, w io.Writer, req *Request, opts ...export.Option) (*Summary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	all := append(append([]export.Option(nil), opts...), req.Options()...)
	ex := export.New(nil, all...)

	var docs []bundle.Document
	sum := &Summary{}
	if len(req.Tickets) > 0 {
		res, err := ex.Tickets(ctx, req.Zone, req.Tickets)
		if err != nil {
			return nil, err
		}
		docs = append(docs, bundle.Document{Data: res.PDF, Pages: res.Pages})
		sum.add(res)
	}
	if r := req.Roster; r != nil {
		res, err := ex.Roster(ctx, req.Zone, export.RosterRequest{
			Title:    r.Title,
			Subtitle: r.Subtitle,
			Entries:  r.Entries,
			Groups:   r.Groups,
		})
		if err != nil {
			return nil, err
		}
		docs = append(docs, bundle.Document{Data: res.PDF, Pages: res.Pages})
		sum.add(res)
	}

	if len(docs) == 1 {
		if _, err := w.Write(docs[0].Data); err != nil {
			return nil, fmt.Errorf("request: writing: %w", err)
		}
		return sum, nil
	}
	var buf bytes.Buffer
	if _, err := bundle.Merge(&buf, docs...); err != nil {
		return nil, err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return nil, fmt.Errorf("request: writing: %w", err)
	}
	return sum, nil
}

func (s *Summary) add(res *export.Result) {
	s.JobIDs = append(s.JobIDs, res.JobID)
	s.Pages += res.Pages
	s.Degraded = append(s.Degraded, res.Degraded...)
}
