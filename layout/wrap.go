package layout

import (
	"strings"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/metrics"
)

// Line is one visual line produced by Wrap.
type Line struct {
	Text  string
	Width float64
}

// Wrap breaks text into lines no wider than available using first-fit
// greedy wrapping over whitespace-separated tokens. A token wider than the
// column is never split: it is placed alone on its own line and overflows.
// Blank text yields no lines.
func Wrap(m metrics.Provider, text string, font festpdf.Font, size, available float64) ([]Line, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	var lines []Line
	current := tokens[0]
	currentW, err := m.Width(current, font, size)
	if err != nil {
		return nil, err
	}
	for _, tok := range tokens[1:] {
		candidate := current + " " + tok
		w, err := m.Width(candidate, font, size)
		if err != nil {
			return nil, err
		}
		if w <= available {
			current, currentW = candidate, w
			continue
		}
		lines = append(lines, Line{Text: current, Width: currentW})
		current = tok
		if currentW, err = m.Width(current, font, size); err != nil {
			return nil, err
		}
	}
	return append(lines, Line{Text: current, Width: currentW}), nil
}

// CountLines returns the number of lines Wrap produces for the same
// arguments. It is the dry-run used before drawing and shares Wrap's code
// path, so a count and a later draw cannot disagree.
func CountLines(m metrics.Provider, text string, font festpdf.Font, size, available float64) (int, error) {
	lines, err := Wrap(m, text, font, size, available)
	return len(lines), err
}
