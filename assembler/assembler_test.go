package assembler_test

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/assembler"
	"github.com/zonefest/festpdf/canvas"
	"github.com/zonefest/festpdf/metrics"
	"github.com/zonefest/festpdf/theme"
)

func zoneC(t *testing.T) festpdf.ZoneTheme {
	t.Helper()
	th, err := theme.Default().Resolve("C")
	require.NoError(t, err)
	return th
}

func TestContentBoxMatchesDrawnBox(t *testing.T) {
	rec := canvas.NewRecorder(metrics.NewCore())
	a := assembler.New(rec, zoneC(t), 25)

	for _, f := range []assembler.Furniture{
		{Title: "Participant Ticket", CopyLabel: "C-Zone Copy", PageNumber: 1, TotalPages: 2, Notes: true},
		{Title: "Roster", Subtitle: "Thiruvathira", PageNumber: 1, TotalPages: 3},
		{Title: "Roster", PageNumber: 2, TotalPages: 3, Compact: true},
	} {
		planned, err := a.ContentBox(f)
		require.NoError(t, err)
		drawn, err := a.DrawFurniture(a.NewPage(), f)
		require.NoError(t, err)
		assert.Equal(t, planned, drawn, "furniture %+v", f)
	}
}

func TestCompactLeavesMoreRoom(t *testing.T) {
	a := assembler.New(canvas.NewRecorder(metrics.NewCore()), zoneC(t), 25)
	full, err := a.ContentBox(assembler.Furniture{Title: "Roster", Subtitle: "Group Song", PageNumber: 1, TotalPages: 2})
	require.NoError(t, err)
	compact, err := a.ContentBox(assembler.Furniture{Title: "Roster", PageNumber: 2, TotalPages: 2, Compact: true})
	require.NoError(t, err)
	assert.Greater(t, compact.H, full.H)
	assert.Equal(t, full.Bottom(), compact.Bottom())
}

func TestFurnitureText(t *testing.T) {
	rec := canvas.NewRecorder(metrics.NewCore())
	a := assembler.New(rec, zoneC(t), 25)
	_, err := a.DrawFurniture(a.NewPage(), assembler.Furniture{
		Title: "Participant Ticket", CopyLabel: "Student Copy", PageNumber: 2, TotalPages: 4, Notes: true,
	})
	require.NoError(t, err)

	texts := strings.Join(rec.Texts(1), "|")
	assert.Contains(t, texts, "C Zone")
	assert.Contains(t, texts, "( Student Copy )")
	assert.Contains(t, texts, "Notes:")
	assert.Contains(t, texts, "A copy of your SSLC Book.")
	assert.Contains(t, texts, "Page 2 of 4")
	assert.Len(t, rec.Find(canvas.OpRect, 1), 1, "banner drawn without a header image")
}

func TestHeaderImageKeepsAspect(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 600, 100))))

	rec := canvas.NewRecorder(metrics.NewCore())
	a := assembler.New(rec, zoneC(t), 25)
	require.NoError(t, a.SetHeaderImage(buf.Bytes(), festpdf.PNG))
	_, err := a.DrawFurniture(a.NewPage(), assembler.Furniture{Title: "T"})
	require.NoError(t, err)

	imgs := rec.Find(canvas.OpImage, 1)
	require.Len(t, imgs, 1)
	assert.InDelta(t, 6.0, imgs[0].W/imgs[0].H, 1e-9)
	assert.LessOrEqual(t, imgs[0].H, float64(assembler.HeaderMaxHeight))
}

func TestFitImage(t *testing.T) {
	w, h := assembler.FitImage(400, 200, 100, 100)
	assert.Equal(t, 100.0, w)
	assert.Equal(t, 50.0, h)

	w, h = assembler.FitImage(10, 40, 100, 100)
	assert.Equal(t, 25.0, w)
	assert.Equal(t, 100.0, h)

	w, h = assembler.FitImage(0, 40, 100, 100)
	assert.Zero(t, w+h)
	assert.False(t, math.IsNaN(w))
}

func TestDrawFurnitureStalePage(t *testing.T) {
	a := assembler.New(canvas.NewRecorder(metrics.NewCore()), zoneC(t), 25)
	first := a.NewPage()
	a.NewPage()
	_, err := a.DrawFurniture(first, assembler.Furniture{Title: "late"})
	assert.Error(t, err)
}
