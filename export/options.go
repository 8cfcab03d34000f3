package export

import (
	"log"
	"time"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/canvas"
	"github.com/zonefest/festpdf/photo"
	"github.com/zonefest/festpdf/theme"
)

// Option configures an Exporter.
type Option func(*config)

type config struct {
	copies       []string
	columnLines  int
	fetcher      photo.Fetcher
	fetchTimeout time.Duration
	fetchWorkers int
	strictPhotos bool
	logger       *log.Logger
	newCanvas    canvas.Factory
	docOpts      []festpdf.Option
	themes       *theme.Table
}

func defaultConfig() config {
	return config{
		fetcher:      photo.Source{},
		fetchTimeout: 10 * time.Second,
		fetchWorkers: 4,
		newCanvas:    canvas.NewPDFCanvas,
	}
}

// WithCopies sets the ticket copy labels. The default is the zone's copy
// label followed by "Student Copy".
func WithCopies(labels ...string) Option {
	return func(c *config) {
		c.copies = append([]string(nil), labels...)
	}
}

// WithColumnLines sets the per-page line budget of a ticket program column.
func WithColumnLines(n int) Option {
	return func(c *config) {
		c.columnLines = n
	}
}

// WithFetcher sets how photos and header images are retrieved.
func WithFetcher(f photo.Fetcher) Option {
	return func(c *config) {
		c.fetcher = f
	}
}

// WithFetchTimeout bounds each photo fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *config) {
		c.fetchTimeout = d
	}
}

// WithFetchWorkers sets how many photos are fetched at once.
func WithFetchWorkers(n int) Option {
	return func(c *config) {
		c.fetchWorkers = n
	}
}

// WithStrictPhotos makes a photo failure fail the whole export instead of
// printing that participant's ticket with an empty photo box.
func WithStrictPhotos(strict bool) Option {
	return func(c *config) {
		c.strictPhotos = strict
	}
}

// WithLogger sets the logger for export progress. Nil means log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithCanvas sets the canvas factory, mainly for tests.
func WithCanvas(f canvas.Factory) Option {
	return func(c *config) {
		c.newCanvas = f
	}
}

// WithDocumentOptions passes page geometry and metadata options to every
// document the exporter creates.
func WithDocumentOptions(opts ...festpdf.Option) Option {
	return func(c *config) {
		c.docOpts = append(c.docOpts, opts...)
	}
}

// WithThemes replaces the theme table given to New.
func WithThemes(t *theme.Table) Option {
	return func(c *config) {
		c.themes = t
	}
}
