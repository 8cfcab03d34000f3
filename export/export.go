// Package export turns export requests into finished PDF documents.
//
// An Exporter resolves the zone theme, prefetches photos, drives the ticket
// or roster engine over a fresh canvas and serializes the result. Each call
// owns its canvas, so one Exporter serves concurrent requests. Fatal errors
// return no bytes: a partial document is never handed out.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/assembler"
	"github.com/zonefest/festpdf/canvas"
	"github.com/zonefest/festpdf/photo"
	"github.com/zonefest/festpdf/roster"
	"github.com/zonefest/festpdf/theme"
	"github.com/zonefest/festpdf/ticket"
)

// ContentType is the media type of every document produced.
const ContentType = "application/pdf"

// Degradation records a participant whose ticket was printed without a
// photo.
type Degradation struct {
	RegistrationID string
	PhotoRef       string
	Err            error
}

// Result is a finished document.
type Result struct {
	JobID    string
	PDF      []byte
	Pages    int
	Degraded []Degradation
}

// RosterRequest describes one roster document. Exactly one of Entries and
// Groups is used; an empty roster still renders its header page.
type RosterRequest struct {
	Title    string
	Subtitle string
	Entries  []festpdf.RosterEntry
	Groups   []festpdf.RosterGroup
}

// Grouped reports whether the request is a grouped roster.
func (r RosterRequest) Grouped() bool { return len(r.Groups) > 0 }

// Exporter renders ticket and roster documents.
type Exporter struct {
	themes *theme.Table
	cfg    config
}

// New returns an exporter over the given theme table. A nil table means
// theme.Default().
func New(themes *theme.Table, opts ...Option) *Exporter {
	cfg := defaultConfig()
	cfg.themes = themes
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.Default()
	}
	if cfg.themes == nil {
		cfg.themes = theme.Default()
	}
	return &Exporter{themes: cfg.themes, cfg: cfg}
}

// Themes returns the exporter's theme table.
func (e *Exporter) Themes() *theme.Table { return e.themes }

// document creates the canvas and assembler for one export. The zone is
// resolved first so an unknown zone fails before any canvas exists.
func (e *Exporter) document(ctx context.Context, zone, title string) (canvas.Canvas, *assembler.Assembler, error) {
	th, err := e.themes.Resolve(zone)
	if err != nil {
		return nil, nil, err
	}
	opts := append([]festpdf.Option{festpdf.WithTitle(title), festpdf.WithAuthor(th.Name)}, e.cfg.docOpts...)
	doc := festpdf.NewDocumentConfig(opts...)
	c := e.cfg.newCanvas(opts...)
	a := assembler.New(c, th, doc.Margin)

	if th.HeaderImageRef != "" {
		data, err := e.cfg.fetcher.Fetch(ctx, th.HeaderImageRef)
		if err != nil {
			return nil, nil, &festpdf.ConfigurationError{Key: th.Key + ".header_image", Err: err}
		}
		format, err := photo.Sniff(th.HeaderImageRef, data)
		if err != nil {
			return nil, nil, &festpdf.ConfigurationError{Key: th.Key + ".header_image", Err: err}
		}
		if err := a.SetHeaderImage(data, format); err != nil {
			return nil, nil, &festpdf.ConfigurationError{Key: th.Key + ".header_image", Err: err}
		}
	}
	return c, a, nil
}

// Tickets renders every copy of every participant's ticket into one
// document, participants in input order.
func (e *Exporter) Tickets(ctx context.Context, zone string, records []festpdf.ExportRecord) (*Result, error) {
	if _, err := e.themes.Resolve(zone); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, festpdf.ErrEmptyExport
	}
	start := time.Now()
	res := &Result{JobID: uuid.NewString()}
	e.cfg.logger.Printf("export start job=%s kind=tickets zone=%s records=%d", res.JobID, zone, len(records))

	c, a, err := e.document(ctx, zone, ticket.Title+"s")
	if err != nil {
		return nil, e.fail(res, err)
	}
	var topts []ticket.Option
	if e.cfg.copies != nil {
		topts = append(topts, ticket.WithCopies(e.cfg.copies...))
	}
	if e.cfg.columnLines > 0 {
		topts = append(topts, ticket.WithColumnLines(e.cfg.columnLines))
	}
	eng := ticket.New(a, topts...)
	if err := eng.Check(); err != nil {
		return nil, e.fail(res, err)
	}

	refs := make([]string, len(records))
	for i, r := range records {
		refs[i] = r.PhotoRef
	}
	pool := photo.Pool{
		Fetcher: e.cfg.fetcher,
		Workers: e.cfg.fetchWorkers,
		Timeout: e.cfg.fetchTimeout,
	}
	photos := pool.Prefetch(ctx, refs)

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, e.fail(res, err)
		}
		name, err := e.embedPhoto(c, i, photos[i])
		if err != nil {
			if e.cfg.strictPhotos {
				return nil, e.fail(res, fmt.Errorf("export: participant %s: %w", rec.RegistrationID, err))
			}
			res.Degraded = append(res.Degraded, Degradation{RegistrationID: rec.RegistrationID, PhotoRef: rec.PhotoRef, Err: err})
			e.cfg.logger.Printf("export degraded job=%s reg_id=%s photo=%q err=%v", res.JobID, rec.RegistrationID, rec.PhotoRef, err)
		}
		if _, err := eng.Render(rec, name); err != nil {
			return nil, e.fail(res, err)
		}
	}
	return e.finish(res, c, start)
}

// embedPhoto embeds a prepared photo and returns its image name. An empty
// name with a nil error means the participant has no photo.
func (e *Exporter) embedPhoto(c canvas.Canvas, i int, p photo.Result) (string, error) {
	if p.Err != nil {
		return "", p.Err
	}
	if p.JPEG == nil {
		return "", nil
	}
	name := fmt.Sprintf("photo-%d", i)
	if _, err := c.EmbedImage(name, p.JPEG, festpdf.JPEG); err != nil {
		return "", err
	}
	return name, nil
}

// Roster renders a flat or grouped roster.
func (e *Exporter) Roster(ctx context.Context, zone string, req RosterRequest) (*Result, error) {
	if _, err := e.themes.Resolve(zone); err != nil {
		return nil, err
	}
	if len(req.Entries) > 0 && len(req.Groups) > 0 {
		return nil, &festpdf.ConfigurationError{Key: "roster", Err: errors.New("both entries and groups given")}
	}
	start := time.Now()
	res := &Result{JobID: uuid.NewString()}
	e.cfg.logger.Printf("export start job=%s kind=roster zone=%s title=%q rows=%d", res.JobID, zone, req.Title, len(req.Entries)+len(req.Groups))

	c, a, err := e.document(ctx, zone, req.Title)
	if err != nil {
		return nil, e.fail(res, err)
	}
	eng := roster.New(a)
	plan, err := planRoster(eng, req)
	if err != nil {
		return nil, e.fail(res, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, e.fail(res, err)
	}
	if _, err := eng.Render(req.Title, req.Subtitle, plan); err != nil {
		return nil, e.fail(res, err)
	}
	return e.finish(res, c, start)
}

// PlanRoster runs only the planning pass of a roster and returns the page
// breaks it would use.
func (e *Exporter) PlanRoster(ctx context.Context, zone string, req RosterRequest) (roster.Plan, error) {
	_, a, err := e.document(ctx, zone, req.Title)
	if err != nil {
		return roster.Plan{}, err
	}
	return planRoster(roster.New(a), req)
}

func planRoster(eng *roster.Engine, req RosterRequest) (roster.Plan, error) {
	if req.Grouped() {
		return eng.PlanGroups(req.Title, req.Subtitle, req.Groups)
	}
	return eng.PlanFlat(req.Title, req.Subtitle, req.Entries)
}

func (e *Exporter) finish(res *Result, c canvas.Canvas, start time.Time) (*Result, error) {
	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		return nil, e.fail(res, err)
	}
	res.PDF = buf.Bytes()
	res.Pages = c.PageCount()
	e.cfg.logger.Printf("export done job=%s pages=%d bytes=%d degraded=%d duration=%s",
		res.JobID, res.Pages, len(res.PDF), len(res.Degraded), time.Since(start))
	return res, nil
}

func (e *Exporter) fail(res *Result, err error) error {
	e.cfg.logger.Printf("export failed job=%s err=%v", res.JobID, err)
	return err
}
