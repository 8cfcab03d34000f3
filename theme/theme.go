// Package theme holds the zone theme table: the per-zone cosmetic constants
// (colors, header image, footer notes, copy label) applied to every page.
package theme

import (
	"fmt"
	"sort"
	"strings"

	festpdf "github.com/zonefest/festpdf"
)

// Table is an immutable map from zone key to theme. It is safe for
// concurrent use.
type Table struct {
	themes map[string]festpdf.ZoneTheme
	keys   []string
}

// NewTable validates themes and builds a table. Keys are matched
// case-insensitively; a duplicate key is an error.
func NewTable(themes ...festpdf.ZoneTheme) (*Table, error) {
	t := &Table{themes: make(map[string]festpdf.ZoneTheme, len(themes))}
	for _, th := range themes {
		if err := Validate(th); err != nil {
			return nil, err
		}
		k := normalize(th.Key)
		if _, dup := t.themes[k]; dup {
			return nil, &festpdf.ConfigurationError{Key: th.Key, Err: fmt.Errorf("%w: duplicate zone key", festpdf.ErrInvalidTheme)}
		}
		t.themes[k] = th
		t.keys = append(t.keys, th.Key)
	}
	sort.Strings(t.keys)
	return t, nil
}

// Validate reports whether th can be used to render pages.
func Validate(th festpdf.ZoneTheme) error {
	invalid := func(msg string) error {
		return &festpdf.ConfigurationError{Key: th.Key, Err: fmt.Errorf("%w: %s", festpdf.ErrInvalidTheme, msg)}
	}
	if normalize(th.Key) == "" {
		return invalid("empty zone key")
	}
	c := th.PrimaryColor
	for _, v := range []int{c.R, c.G, c.B} {
		if v < 0 || v > 255 {
			return invalid("primary color out of range")
		}
	}
	switch th.Barcode {
	case festpdf.BarcodeNone, festpdf.BarcodeQR, festpdf.BarcodePDF417:
	default:
		return invalid(fmt.Sprintf("unknown barcode kind %q", th.Barcode))
	}
	return nil
}

// normalize folds "C", "c" and "C zone" to the same key.
func normalize(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.TrimSuffix(k, "zone")
	k = strings.TrimSuffix(k, "-")
	return strings.TrimSpace(k)
}

// Lookup returns the theme registered for key.
func (t *Table) Lookup(key string) (festpdf.ZoneTheme, bool) {
	th, ok := t.themes[normalize(key)]
	return th, ok
}

// Resolve is Lookup with the error callers return when a zone is missing.
func (t *Table) Resolve(key string) (festpdf.ZoneTheme, error) {
	th, ok := t.Lookup(key)
	if !ok {
		return festpdf.ZoneTheme{}, &festpdf.ConfigurationError{Key: key, Err: festpdf.ErrUnknownZone}
	}
	return th, nil
}

// Keys returns the registered zone keys in sorted order.
func (t *Table) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Themes returns the registered themes ordered by key.
func (t *Table) Themes() []festpdf.ZoneTheme {
	out := make([]festpdf.ZoneTheme, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, t.themes[normalize(k)])
	}
	return out
}

func notes(zone string) []string {
	return []string{
		"Kindly submit the " + zone + "-Zone copy along with the following documents to the Program Office before the deadline:",
		"A copy of your SSLC Book.",
	}
}

// Default returns the built-in table with zones A, B and C.
func Default() *Table {
	t, err := NewTable(
		festpdf.ZoneTheme{
			Key: "A", Name: "A Zone", LabelPrefix: "A-Zone",
			PrimaryColor: festpdf.Color{R: 176, G: 46, B: 130},
			FooterNotes:  notes("A"),
			Barcode:      festpdf.BarcodeQR,
		},
		festpdf.ZoneTheme{
			Key: "B", Name: "B Zone", LabelPrefix: "B-Zone",
			PrimaryColor: festpdf.Color{R: 48, G: 115, B: 133},
			FooterNotes:  notes("B"),
			Barcode:      festpdf.BarcodeQR,
		},
		festpdf.ZoneTheme{
			Key: "C", Name: "C Zone", LabelPrefix: "C-Zone",
			PrimaryColor: festpdf.Color{R: 133, G: 116, B: 50},
			FooterNotes:  notes("C"),
			Barcode:      festpdf.BarcodePDF417,
		},
	)
	if err != nil {
		panic(err)
	}
	return t
}
