package export_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/canvas"
	"github.com/zonefest/festpdf/export"
	"github.com/zonefest/festpdf/metrics"
	"github.com/zonefest/festpdf/photo"
	"github.com/zonefest/festpdf/theme"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 50))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fakeFetcher serves "ok.png" and fails every other ref.
func fakeFetcher(t *testing.T) photo.Fetcher {
	data := pngBytes(t)
	return photo.FetcherFunc(func(_ context.Context, ref string) ([]byte, error) {
		switch ref {
		case "ok.png":
			return data, nil
		case "anim.gif":
			return []byte("GIF89a\x01\x00\x01\x00"), nil
		}
		return nil, errors.New("not found")
	})
}

func records() []festpdf.ExportRecord {
	return []festpdf.ExportRecord{
		{
			RegistrationID: "CZ-0001",
			DisplayName:    "ANJALI MENON",
			Sex:            "Female",
			CollegeName:    "Sree Kerala Varma College",
			Course:         "BA Music",
			SemesterLabel:  "S3",
			DateOfBirth:    "14/08/2004",
			PhotoRef:       "ok.png",
			Programs:       festpdf.Programs{OffStage: []string{"Essay Writing"}, Stage: []string{"Light Music"}},
		},
		{
			RegistrationID: "CZ-0002",
			DisplayName:    "RAHUL K",
			Sex:            "Male",
			CollegeName:    "Maharajas College",
			Course:         "BSc Physics",
			SemesterLabel:  "S1",
			DateOfBirth:    "02/01/2005",
			PhotoRef:       "anim.gif",
			Programs:       festpdf.Programs{Group: []string{"Group Song"}},
		},
	}
}

func newExporter(t *testing.T, last **canvas.Recorder, logs *bytes.Buffer, opts ...export.Option) *export.Exporter {
	t.Helper()
	base := []export.Option{
		export.WithFetcher(fakeFetcher(t)),
		export.WithFetchTimeout(time.Second),
		export.WithLogger(log.New(logs, "", 0)),
	}
	if last != nil {
		base = append(base, export.WithCanvas(canvas.RecorderFactory(metrics.NewCore(), last)))
	}
	return export.New(theme.Default(), append(base, opts...)...)
}

func TestTicketsDegradesBadPhotos(t *testing.T) {
	var rec *canvas.Recorder
	var logs bytes.Buffer
	ex := newExporter(t, &rec, &logs)

	res, err := ex.Tickets(context.Background(), "C", records())
	require.NoError(t, err)
	require.NotNil(t, rec)

	// Two participants, two copies each, one page per copy.
	assert.Equal(t, 4, res.Pages)
	assert.True(t, bytes.HasPrefix(res.PDF, []byte("%PDF")))
	assert.NotEmpty(t, res.JobID)

	require.Len(t, res.Degraded, 1)
	assert.Equal(t, "CZ-0002", res.Degraded[0].RegistrationID)
	assert.ErrorIs(t, res.Degraded[0].Err, festpdf.ErrUnsupportedImage)

	images := rec.Find(canvas.OpImage, 0)
	require.Len(t, images, 2, "only the first participant's photo, once per copy")
	for _, op := range images {
		assert.Equal(t, "photo-0", op.Value)
	}

	out := logs.String()
	assert.Contains(t, out, "export start job="+res.JobID+" kind=tickets zone=C records=2")
	assert.Contains(t, out, "export degraded job="+res.JobID+" reg_id=CZ-0002")
	assert.Contains(t, out, "pages=4")
}

func TestTicketsStrictPhotos(t *testing.T) {
	var rec *canvas.Recorder
	var logs bytes.Buffer
	ex := newExporter(t, &rec, &logs, export.WithStrictPhotos(true))

	res, err := ex.Tickets(context.Background(), "C", records())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, festpdf.ErrUnsupportedImage)
	assert.Contains(t, err.Error(), "CZ-0002")
	assert.Contains(t, logs.String(), "export failed")
}

func TestTicketsUnknownZoneCreatesNothing(t *testing.T) {
	var rec *canvas.Recorder
	var logs bytes.Buffer
	ex := newExporter(t, &rec, &logs)

	_, err := ex.Tickets(context.Background(), "X", records())
	var ce *festpdf.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "X", ce.Key)
	assert.ErrorIs(t, err, festpdf.ErrUnknownZone)
	assert.Nil(t, rec, "no canvas may be created for an unknown zone")

	_, err = ex.Roster(context.Background(), "X", export.RosterRequest{Title: "Mime"})
	assert.ErrorIs(t, err, festpdf.ErrUnknownZone)
	assert.Nil(t, rec)
}

func TestTicketsEmpty(t *testing.T) {
	var logs bytes.Buffer
	ex := newExporter(t, nil, &logs)
	_, err := ex.Tickets(context.Background(), "A", nil)
	assert.ErrorIs(t, err, festpdf.ErrEmptyExport)
}

func TestTicketsCopiesOption(t *testing.T) {
	var rec *canvas.Recorder
	var logs bytes.Buffer
	ex := newExporter(t, &rec, &logs, export.WithCopies("Office Copy"))

	res, err := ex.Tickets(context.Background(), "B", records()[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
	assert.Contains(t, rec.Texts(1), "( Office Copy )")
}

func TestTicketsCancelled(t *testing.T) {
	var logs bytes.Buffer
	ex := newExporter(t, nil, &logs)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := ex.Tickets(ctx, "A", records())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTicketsRealPDF(t *testing.T) {
	var logs bytes.Buffer
	ex := newExporter(t, nil, &logs, export.WithDocumentOptions(festpdf.WithCreationDate(time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC))))

	res, err := ex.Tickets(context.Background(), "A", records())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(res.PDF, []byte("%PDF-")))
	assert.Equal(t, 4, res.Pages)
}

func TestRosterFlatAndGrouped(t *testing.T) {
	var rec *canvas.Recorder
	var logs bytes.Buffer
	ex := newExporter(t, &rec, &logs)

	entries := make([]festpdf.RosterEntry, 60)
	for i := range entries {
		entries[i] = festpdf.RosterEntry{SlNo: i + 1, Name: "PARTICIPANT", CollegeName: "Govt College"}
	}
	req := export.RosterRequest{Title: "Light Music", Subtitle: "Participants", Entries: entries}
	res, err := ex.Roster(context.Background(), "A", req)
	require.NoError(t, err)

	plan, err := ex.PlanRoster(context.Background(), "A", req)
	require.NoError(t, err)
	assert.Equal(t, plan.Pages(), res.Pages)
	assert.Greater(t, res.Pages, 1)

	groups := []festpdf.RosterGroup{
		{CollegeName: "Govt College", ParticipantNames: []string{"ASHA", "BINU", "CHITRA"}},
		{CollegeName: "St Thomas College", ParticipantNames: []string{"DEV"}},
	}
	res, err = ex.Roster(context.Background(), "A", export.RosterRequest{Title: "Group Song", Groups: groups})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
	texts := strings.Join(rec.Texts(1), "|")
	assert.Contains(t, texts, "Group Song")
	assert.Contains(t, texts, "St Thomas College")
}

func TestRosterRejectsMixedRequest(t *testing.T) {
	var logs bytes.Buffer
	ex := newExporter(t, nil, &logs)
	_, err := ex.Roster(context.Background(), "A", export.RosterRequest{
		Title:   "Mixed",
		Entries: []festpdf.RosterEntry{{SlNo: 1, Name: "A"}},
		Groups:  []festpdf.RosterGroup{{CollegeName: "B"}},
	})
	var ce *festpdf.ConfigurationError
	assert.ErrorAs(t, err, &ce)
}

func TestRosterEmptyRendersHeaderPage(t *testing.T) {
	var rec *canvas.Recorder
	var logs bytes.Buffer
	ex := newExporter(t, &rec, &logs)
	res, err := ex.Roster(context.Background(), "b zone", export.RosterRequest{Title: "Mime"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
}

func TestHeaderImageFailureIsConfiguration(t *testing.T) {
	th := theme.Default().Themes()[0]
	th.HeaderImageRef = "missing.png"
	table, err := theme.NewTable(th)
	require.NoError(t, err)

	var rec *canvas.Recorder
	var logs bytes.Buffer
	ex := export.New(table,
		export.WithFetcher(fakeFetcher(t)),
		export.WithLogger(log.New(&logs, "", 0)),
		export.WithCanvas(canvas.RecorderFactory(metrics.NewCore(), &rec)))

	_, err = ex.Tickets(context.Background(), th.Key, records())
	var ce *festpdf.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, th.Key+".header_image", ce.Key)
	require.NotNil(t, rec)
	assert.Zero(t, rec.PageCount())
}

func TestTicketsCrowdedThemeFailsBeforeAnyPage(t *testing.T) {
	th := theme.Default().Themes()[2]
	th.FooterNotes = nil
	for i := 0; i < 12; i++ {
		th.FooterNotes = append(th.FooterNotes, "Report at the venue 30 minutes before the program.")
	}
	table, err := theme.NewTable(th)
	require.NoError(t, err)

	var rec *canvas.Recorder
	var logs bytes.Buffer
	ex := export.New(table,
		export.WithFetcher(fakeFetcher(t)),
		export.WithLogger(log.New(&logs, "", 0)),
		export.WithCanvas(canvas.RecorderFactory(metrics.NewCore(), &rec)))

	_, err = ex.Tickets(context.Background(), th.Key, records())
	var ce *festpdf.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "page size", ce.Key)
	require.NotNil(t, rec)
	assert.Zero(t, rec.PageCount())
	assert.Contains(t, logs.String(), "export failed")
}
