package mcp

import (
	"encoding/json"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/export"
	reqpkg "github.com/zonefest/festpdf/request"
)

// RegisterDefaultResources adds the zone table and an example request to
// the server. Resources use the festpdf:// scheme.
func RegisterDefaultResources(s *Server, opts ...export.Option) {
	t := &tools{opts: opts}
	s.AddResource(Resource{
		URI:         "festpdf://zones",
		Name:        "Zone Themes",
		Description: "The configured zones: key, name, primary color, copy label, barcode kind and footer notes.",
		MIMEType:    "application/json",
		Handler: func(uri string) ([]ResourceContent, error) {
			return jsonContent(uri, zoneInfo(t.exporter()))
		},
	})

	s.AddResource(Resource{
		URI:         "festpdf://request-example",
		Name:        "Export Request Example",
		Description: "A complete export request with one ticket and a grouped roster, in the format render_tickets and render_roster accept.",
		MIMEType:    "application/json",
		Handler: func(uri string) ([]ResourceContent, error) {
			return jsonContent(uri, exampleRequest)
		},
	})
}

var exampleRequest = reqpkg.Request{
	Zone: "C",
	Tickets: []festpdf.ExportRecord{{
		RegistrationID: "CZ-1042",
		DisplayName:    "ANJALI MENON",
		Sex:            "Female",
		CollegeName:    "Sree Kerala Varma College",
		Course:         "BA Music",
		SemesterLabel:  "3",
		DateOfBirth:    "14/08/2004",
		PhotoRef:       "https://example.org/photos/cz-1042.jpg",
		Programs: festpdf.Programs{
			OffStage: []string{"Essay Writing (Malayalam)"},
			Stage:    []string{"Light Music"},
			Group:    []string{"Group Song"},
		},
	}},
	Roster: &reqpkg.Roster{
		Title:    "Group Song",
		Subtitle: "Stage 2",
		Groups: []festpdf.RosterGroup{
			{CollegeName: "Sree Kerala Varma College", ParticipantNames: []string{"ANJALI MENON", "DEVIKA R"}},
		},
	},
}

func jsonContent(uri string, v interface{}) ([]ResourceContent, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(jsonBytes),
	}}, nil
}
