// Package photo fetches participant photos and normalizes them for
// embedding.
//
// Photos come from URLs or file paths, in whatever format the upload
// produced. Only PNG and JPEG are accepted; anything else is reported as an
// UnsupportedImageFormatError. Accepted photos are cropped to the ticket's
// photo aspect ratio, scaled, flattened onto white and re-encoded as JPEG,
// so a malformed upload fails here and never reaches the PDF writer.
package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/image/draw"

	festpdf "github.com/zonefest/festpdf"
)

// DefaultMaxBytes caps the size of a fetched photo.
const DefaultMaxBytes = 8 << 20

// Fetcher retrieves the raw bytes of a photo reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, ref string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return f(ctx, ref)
}

// Source fetches http(s) URLs with an HTTP client and everything else from
// the local filesystem.
type Source struct {
	Client   *http.Client // nil uses a client with a 30s timeout
	MaxBytes int64        // 0 uses DefaultMaxBytes
}

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// ErrTooLarge is returned for photos over the size cap.
var ErrTooLarge = errors.New("photo: exceeds size limit")

func (s Source) limit() int64 {
	if s.MaxBytes > 0 {
		return s.MaxBytes
	}
	return DefaultMaxBytes
}

// IsURL reports whether ref is fetched over HTTP.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func (s Source) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if IsURL(ref) {
		return s.fetchURL(ctx, ref)
	}
	return s.readFile(ref)
}

func (s Source) fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("photo: %w", err)
	}
	client := s.Client
	if client == nil {
		client = defaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("photo: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("photo: fetch %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, s.limit()+1))
	if err != nil {
		return nil, fmt.Errorf("photo: read %s: %w", url, err)
	}
	if int64(len(data)) > s.limit() {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, url)
	}
	return data, nil
}

func (s Source) readFile(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("photo: %w", err)
	}
	if fi.Size() > s.limit() {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("photo: %w", err)
	}
	return data, nil
}

// Sniff identifies PNG and JPEG data by magic bytes.
func Sniff(ref string, data []byte) (festpdf.ImageFormat, error) {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return festpdf.PNG, nil
	case bytes.HasPrefix(data, []byte{0xff, 0xd8, 0xff}):
		return festpdf.JPEG, nil
	}
	return "", &festpdf.UnsupportedImageFormatError{Ref: ref, Detected: http.DetectContentType(data)}
}

// Box is the pixel size photos are normalized to.
type Box struct {
	Width, Height int
}

// TicketBox is the ticket photo frame (115.2x144pt) at 2.5 pixels per point.
var TicketBox = Box{Width: 288, Height: 360}

// Normalize decodes a PNG or JPEG photo, center-crops it to box's aspect
// ratio, scales it to box and returns it as a JPEG. Transparent pixels
// become white.
func Normalize(ref string, data []byte, box Box) ([]byte, error) {
	format, err := Sniff(ref, data)
	if err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &festpdf.UnsupportedImageFormatError{Ref: ref, Detected: string(format), Err: err}
	}

	crop := cropToAspect(src.Bounds(), box)
	dst := image.NewRGBA(image.Rect(0, 0, box.Width, box.Height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 88}); err != nil {
		return nil, fmt.Errorf("photo: encode %s: %w", ref, err)
	}
	return buf.Bytes(), nil
}

// cropToAspect returns the largest centered rectangle of r with box's
// aspect ratio.
func cropToAspect(r image.Rectangle, box Box) image.Rectangle {
	w, h := r.Dx(), r.Dy()
	if w == 0 || h == 0 || box.Width == 0 || box.Height == 0 {
		return r
	}
	// Compare w/h against box.Width/box.Height without floats.
	if w*box.Height > h*box.Width {
		cw := h * box.Width / box.Height
		x := r.Min.X + (w-cw)/2
		return image.Rect(x, r.Min.Y, x+cw, r.Max.Y)
	}
	ch := w * box.Height / box.Width
	y := r.Min.Y + (h-ch)/2
	return image.Rect(r.Min.X, y, r.Max.X, y+ch)
}
