package theme_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/theme"
)

func TestDefaultLookup(t *testing.T) {
	tbl := theme.Default()
	for _, key := range []string{"C", "c", "C zone", " c-zone "} {
		th, ok := tbl.Lookup(key)
		require.True(t, ok, "lookup %q", key)
		assert.Equal(t, "C", th.Key)
		assert.Equal(t, "#857432", th.PrimaryColor.Hex())
		assert.Equal(t, "C-Zone Copy", th.CopyLabel())
	}
	assert.Equal(t, []string{"A", "B", "C"}, tbl.Keys())
}

func TestResolveUnknownZone(t *testing.T) {
	_, err := theme.Default().Resolve("X")
	var ce *festpdf.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "X", ce.Key)
	assert.ErrorIs(t, err, festpdf.ErrUnknownZone)
}

func TestNewTableRejectsInvalid(t *testing.T) {
	_, err := theme.NewTable(festpdf.ZoneTheme{Key: "A"}, festpdf.ZoneTheme{Key: "a zone"})
	assert.ErrorIs(t, err, festpdf.ErrInvalidTheme, "duplicate key")

	_, err = theme.NewTable(festpdf.ZoneTheme{Key: "  "})
	assert.ErrorIs(t, err, festpdf.ErrInvalidTheme, "empty key")

	_, err = theme.NewTable(festpdf.ZoneTheme{Key: "D", Barcode: "code128"})
	assert.ErrorIs(t, err, festpdf.ErrInvalidTheme, "barcode kind")
}

const themesYAML = `
zones:
  - key: D
    color: "#123456"
    label_prefix: D-Zone
    barcode: qr
    notes:
      - Bring your college ID.
  - key: E
    name: East
`

func TestParse(t *testing.T) {
	tbl, err := theme.Parse([]byte(themesYAML))
	require.NoError(t, err)

	d, ok := tbl.Lookup("d")
	require.True(t, ok)
	assert.Equal(t, festpdf.Color{R: 0x12, G: 0x34, B: 0x56}, d.PrimaryColor)
	assert.Equal(t, "D Zone", d.Name)
	assert.Equal(t, festpdf.BarcodeQR, d.Barcode)
	assert.Equal(t, []string{"Bring your college ID."}, d.FooterNotes)

	e, ok := tbl.Lookup("E")
	require.True(t, ok)
	assert.Equal(t, "East", e.Name)
	assert.Equal(t, "Zone Copy", e.CopyLabel())
}

func TestParseErrors(t *testing.T) {
	_, err := theme.Parse([]byte("zones:\n  - key: A\n    colour: red\n"))
	assert.ErrorIs(t, err, festpdf.ErrInvalidTheme, "unknown field")

	_, err = theme.Parse([]byte("zones:\n  - key: A\n    color: red\n"))
	assert.ErrorIs(t, err, festpdf.ErrInvalidTheme, "bad color")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(themesYAML), 0o600))

	tbl, err := theme.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "E"}, tbl.Keys())

	_, err = theme.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	var ce *festpdf.ConfigurationError
	assert.True(t, errors.As(err, &ce))
}
