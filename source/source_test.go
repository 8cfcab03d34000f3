package source_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/source"
)

var (
	essay   = source.Event{ID: "e1", Name: "Essay Writing"}
	song    = source.Event{ID: "e2", Name: "Light Music", Onstage: true}
	choir   = source.Event{ID: "e3", Name: "Group Song", Onstage: true, Group: true}
	poster  = source.Event{ID: "e4", Name: "Poster Design"}
	anjali  = source.Participant{ID: "p1", Name: " anjali menon ", Gender: "female", College: "Govt College", Course: "BA Music", Semester: 3, DOB: time.Date(2004, 8, 14, 0, 0, 0, 0, time.UTC), ImageRef: "https://cdn.example/p1.jpg"}
	rahul   = source.Participant{ID: "p2", Name: "Rahul K", Gender: "male", College: "Maharajas College", Course: "BSc Physics", Semester: 1}
	devika  = source.Participant{ID: "p3", Name: "Devika", Gender: "female", College: "Govt College"}
	regList = []source.Registration{
		{ID: "r1", Event: essay, ParticipantIDs: []string{"p1"}},
		{ID: "r2", Event: choir, GroupName: "Team A", ParticipantIDs: []string{"p1", "p3"}},
		{ID: "r3", Event: song, ParticipantIDs: []string{"p1"}},
		{ID: "r4", Event: poster, ParticipantIDs: []string{"p1"}},
		{ID: "r5", Event: song, ParticipantIDs: []string{"p2"}},
		{ID: "r6", Event: choir, GroupName: "Team B", ParticipantIDs: []string{"p2", "missing"}},
		{ID: "r7", Event: song, ParticipantIDs: []string{"p3"}},
	}
)

func TestTransform(t *testing.T) {
	got := source.Transform(anjali, regList)
	want := festpdf.ExportRecord{
		RegistrationID: "p1",
		DisplayName:    "ANJALI MENON",
		Sex:            "Female",
		CollegeName:    "Govt College",
		Course:         "BA Music",
		SemesterLabel:  "3",
		DateOfBirth:    "14/08/2004",
		PhotoRef:       "https://cdn.example/p1.jpg",
		Programs: festpdf.Programs{
			OffStage: []string{"Essay Writing", "Poster Design"},
			Stage:    []string{"Light Music"},
			Group:    []string{"Group Song"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transform mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformMissingOptionalFields(t *testing.T) {
	got := source.Transform(source.Participant{ID: "p9", Name: "x"}, nil)
	assert.Equal(t, "X", got.DisplayName)
	assert.Empty(t, got.DateOfBirth)
	assert.Empty(t, got.SemesterLabel)
	assert.True(t, got.Programs.Empty())
}

func TestRecordsKeepsOrder(t *testing.T) {
	recs := source.Records([]source.Participant{rahul, anjali}, regList)
	assert.Equal(t, "p2", recs[0].RegistrationID)
	assert.Equal(t, "p1", recs[1].RegistrationID)
	assert.Equal(t, []string{"Group Song"}, recs[0].Programs.Group)
}

func TestFlatRoster(t *testing.T) {
	byID := source.Index([]source.Participant{anjali, rahul, devika})
	got := source.FlatRoster("e2", regList, byID)
	want := []festpdf.RosterEntry{
		{SlNo: 1, Name: "ANJALI MENON", CollegeName: "Govt College"},
		{SlNo: 2, Name: "DEVIKA", CollegeName: "Govt College"},
		{SlNo: 3, Name: "RAHUL K", CollegeName: "Maharajas College"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FlatRoster mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupRoster(t *testing.T) {
	byID := source.Index([]source.Participant{anjali, rahul, devika})
	got := source.GroupRoster("e3", regList, byID)
	want := []festpdf.RosterGroup{
		{CollegeName: "Govt College", ParticipantNames: []string{"ANJALI MENON", "DEVIKA"}},
		{CollegeName: "Maharajas College", ParticipantNames: []string{"RAHUL K"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GroupRoster mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, source.GroupRoster("nope", regList, byID))
}
