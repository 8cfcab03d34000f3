package festpdf

import (
	"errors"
	"fmt"
)

// Sentinel errors for the common failure conditions of an export.
var (
	ErrUnknownZone      = errors.New("festpdf: zone has no registered theme")
	ErrInvalidTheme     = errors.New("festpdf: invalid zone theme")
	ErrUnsupportedImage = errors.New("festpdf: unsupported image format")
	ErrUnsupportedGlyph = errors.New("festpdf: glyph not supported by font")
	ErrUnknownFont      = errors.New("festpdf: font is not a core font")
	ErrEmptyExport      = errors.New("festpdf: nothing to export")
)

// ConfigurationError reports a missing or invalid configuration value. It
// is always fatal and is returned before any page is created.
type ConfigurationError struct {
	Key string // zone key or configuration field
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("festpdf: configuration %q: %v", e.Key, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// UnsupportedImageFormatError reports a photo that is neither PNG nor JPEG,
// or that could not be decoded.
type UnsupportedImageFormatError struct {
	Ref      string // photo reference as given in the record
	Detected string // sniffed content type
	Err      error  // decode failure, if any
}

func (e *UnsupportedImageFormatError) Error() string {
	msg := fmt.Sprintf("festpdf: unsupported image format %q", e.Detected)
	if e.Ref != "" {
		msg += " for " + e.Ref
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnsupportedImageFormatError) Is(target error) bool {
	return target == ErrUnsupportedImage
}

func (e *UnsupportedImageFormatError) Unwrap() error {
	return e.Err
}

// UnsupportedGlyphError reports a rune the font cannot render.
type UnsupportedGlyphError struct {
	Rune rune
	Font Font
}

func (e *UnsupportedGlyphError) Error() string {
	return fmt.Sprintf("festpdf: glyph %q (U+%04X) not supported by %s", e.Rune, e.Rune, e.Font)
}

func (e *UnsupportedGlyphError) Is(target error) bool {
	return target == ErrUnsupportedGlyph
}

// MeasurementError reports a text that could not be measured. It is fatal
// for the field being laid out.
type MeasurementError struct {
	Text string
	Err  error
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("festpdf: measuring %q: %v", e.Text, e.Err)
}

func (e *MeasurementError) Unwrap() error {
	return e.Err
}

// RenderError wraps a failure reported by the PDF renderer during a
// specific operation.
type RenderError struct {
	Op  string // operation name, e.g. "EmbedImage", "Save"
	Err error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("festpdf.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("festpdf.%s: unknown error", e.Op)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// NewRenderError wraps err with operation context.
func NewRenderError(op string, err error) *RenderError {
	return &RenderError{Op: op, Err: err}
}
