// Package source reduces upstream participant and registration data to the
// records the layout engines consume.
package source

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	festpdf "github.com/zonefest/festpdf"
)

// DateLayout is the printed date of birth format (day/month/year).
const DateLayout = "02/01/2006"

// Participant is a registered student as stored upstream.
type Participant struct {
	ID       string
	Name     string
	Gender   string
	College  string
	Course   string
	Semester int
	DOB      time.Time
	ImageRef string
}

// Event is a competition item. Onstage and Group come from its event type.
type Event struct {
	ID      string
	Name    string
	Onstage bool
	Group   bool
}

// Registration enters one or more participants into an event. Individual
// events have one participant per registration.
type Registration struct {
	ID             string
	Event          Event
	GroupName      string
	ParticipantIDs []string
}

// Includes reports whether participant id is part of r.
func (r Registration) Includes(id string) bool {
	for _, p := range r.ParticipantIDs {
		if p == id {
			return true
		}
	}
	return false
}

var (
	upper = cases.Upper(language.Und)
	title = cases.Title(language.English)
)

// Transform builds the ticket record of p from the registrations that
// include p. Programs keep registration order within each category:
// off-stage events, on-stage solo events, group events.
func Transform(p Participant, regs []Registration) festpdf.ExportRecord {
	rec := festpdf.ExportRecord{
		RegistrationID: p.ID,
		DisplayName:    upper.String(strings.TrimSpace(p.Name)),
		Sex:            title.String(strings.TrimSpace(p.Gender)),
		CollegeName:    strings.TrimSpace(p.College),
		Course:         strings.TrimSpace(p.Course),
		PhotoRef:       p.ImageRef,
	}
	if p.Semester > 0 {
		rec.SemesterLabel = strconv.Itoa(p.Semester)
	}
	if !p.DOB.IsZero() {
		rec.DateOfBirth = p.DOB.Format(DateLayout)
	}
	for _, r := range regs {
		if !r.Includes(p.ID) {
			continue
		}
		switch {
		case r.Event.Group:
			rec.Programs.Group = append(rec.Programs.Group, r.Event.Name)
		case r.Event.Onstage:
			rec.Programs.Stage = append(rec.Programs.Stage, r.Event.Name)
		default:
			rec.Programs.OffStage = append(rec.Programs.OffStage, r.Event.Name)
		}
	}
	return rec
}

// Records transforms every participant, keeping participant order.
func Records(participants []Participant, regs []Registration) []festpdf.ExportRecord {
	out := make([]festpdf.ExportRecord, len(participants))
	for i, p := range participants {
		out[i] = Transform(p, regs)
	}
	return out
}

// Index maps participant ids to participants.
func Index(participants []Participant) map[string]Participant {
	m := make(map[string]Participant, len(participants))
	for _, p := range participants {
		m[p.ID] = p
	}
	return m
}

// FlatRoster lists every participant registered for eventID, ordered by
// college then name, numbered from 1. Unknown participant ids are skipped.
func FlatRoster(eventID string, regs []Registration, byID map[string]Participant) []festpdf.RosterEntry {
	var entries []festpdf.RosterEntry
	for _, r := range regs {
		if r.Event.ID != eventID {
			continue
		}
		for _, id := range r.ParticipantIDs {
			p, ok := byID[id]
			if !ok {
				continue
			}
			entries = append(entries, festpdf.RosterEntry{
				Name:        upper.String(strings.TrimSpace(p.Name)),
				CollegeName: strings.TrimSpace(p.College),
			})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CollegeName != entries[j].CollegeName {
			return entries[i].CollegeName < entries[j].CollegeName
		}
		return entries[i].Name < entries[j].Name
	})
	for i := range entries {
		entries[i].SlNo = i + 1
	}
	return entries
}

// GroupRoster returns one group per team registered for eventID, ordered by
// college. A team's college is its first known participant's college.
func GroupRoster(eventID string, regs []Registration, byID map[string]Participant) []festpdf.RosterGroup {
	var groups []festpdf.RosterGroup
	for _, r := range regs {
		if r.Event.ID != eventID {
			continue
		}
		var g festpdf.RosterGroup
		for _, id := range r.ParticipantIDs {
			p, ok := byID[id]
			if !ok {
				continue
			}
			if g.CollegeName == "" {
				g.CollegeName = strings.TrimSpace(p.College)
			}
			g.ParticipantNames = append(g.ParticipantNames, upper.String(strings.TrimSpace(p.Name)))
		}
		if len(g.ParticipantNames) == 0 {
			continue
		}
		groups = append(groups, g)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CollegeName < groups[j].CollegeName
	})
	return groups
}
