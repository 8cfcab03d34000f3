package layout

import (
	"strings"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/metrics"
)

// FitStep is the decrement, in points, tried between font sizes.
const FitStep = 0.5

// Fit is the outcome of FitSize.
type Fit struct {
	Size float64 // chosen font size
	Fits bool    // false when even the floor size overflows
}

// FitSize returns the largest size between floorSize and baseSize, in
// FitStep decrements, at which text fits on one line of the available
// width. If the text still overflows at floorSize it returns floorSize with
// Fits false; callers then cut the text with Truncate.
//
// The result is monotonic in available: a narrower box never yields a
// larger size.
func FitSize(m metrics.Provider, text string, font festpdf.Font, baseSize, floorSize, available float64) (Fit, error) {
	if floorSize <= 0 || floorSize > baseSize {
		floorSize = baseSize
	}
	size := baseSize
	for {
		w, err := m.Width(text, font, size)
		if err != nil {
			return Fit{}, err
		}
		if w <= available {
			return Fit{Size: size, Fits: true}, nil
		}
		if size <= floorSize {
			return Fit{Size: floorSize, Fits: false}, nil
		}
		size -= FitStep
		if size < floorSize {
			size = floorSize
		}
	}
}

// Ellipsis marks text shortened by Truncate.
const Ellipsis = "..."

// Truncate returns text as one line no wider than available. Text that
// fits is returned unchanged; otherwise the longest rune prefix that fits
// with Ellipsis appended. When not even Ellipsis fits the line is empty.
func Truncate(m metrics.Provider, text string, font festpdf.Font, size, available float64) (Line, error) {
	w, err := m.Width(text, font, size)
	if err != nil {
		return Line{}, err
	}
	if w <= available {
		return Line{Text: text, Width: w}, nil
	}
	runes := []rune(text)
	var best Line
	lo, hi := 0, len(runes)-1
	for lo <= hi {
		n := (lo + hi) / 2
		cand := strings.TrimRight(string(runes[:n]), " ") + Ellipsis
		cw, err := m.Width(cand, font, size)
		if err != nil {
			return Line{}, err
		}
		if cw <= available {
			best = Line{Text: cand, Width: cw}
			lo = n + 1
		} else {
			hi = n - 1
		}
	}
	return best, nil
}
