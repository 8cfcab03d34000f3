package festpdf

import "time"

// A4 page dimensions in points.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// Option is a functional option for configuring a new document via
// NewDocumentConfig.
type Option func(*DocumentConfig)

// DocumentConfig describes the fixed page geometry and metadata of one
// output document. All lengths are in points.
type DocumentConfig struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
	Title      string
	Author     string
	Compress   bool
	Created    time.Time // zero means the renderer's clock
}

// WithPageSize sets a custom page size in points.
func WithPageSize(width, height float64) Option {
	return func(c *DocumentConfig) {
		c.PageWidth = width
		c.PageHeight = height
	}
}

// WithMargin sets the page margin used on all four sides.
func WithMargin(m float64) Option {
	return func(c *DocumentConfig) {
		c.Margin = m
	}
}

// WithTitle sets the document title metadata.
func WithTitle(title string) Option {
	return func(c *DocumentConfig) {
		c.Title = title
	}
}

// WithAuthor sets the document author metadata.
func WithAuthor(author string) Option {
	return func(c *DocumentConfig) {
		c.Author = author
	}
}

// WithCompression toggles content stream compression.
func WithCompression(on bool) Option {
	return func(c *DocumentConfig) {
		c.Compress = on
	}
}

// WithCreationDate pins the creation and modification dates, which makes
// output byte-for-byte reproducible.
func WithCreationDate(t time.Time) Option {
	return func(c *DocumentConfig) {
		c.Created = t
	}
}

// NewDocumentConfig returns the configuration for a new document. If no
// options are specified it describes a compressed portrait A4 page with a
// 25pt margin.
func NewDocumentConfig(opts ...Option) DocumentConfig {
	cfg := DocumentConfig{
		PageWidth:  A4Width,
		PageHeight: A4Height,
		Margin:     25,
		Compress:   true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
