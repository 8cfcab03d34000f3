// Package request renders JSON export requests.
//
// A request names a zone and carries ticket records, a roster, or both.
// Both kinds are rendered separately and bundled tickets first.
//
// Example JSON:
//
//	{
//	  "zone": "C",
//	  "copies": ["C-Zone Copy", "Student Copy"],
//	  "tickets": [{
//	    "registrationId": "CZ-1042",
//	    "displayName": "ANJALI MENON",
//	    "programs": {"offStage": ["Essay Writing"], "stage": [], "group": []}
//	  }],
//	  "roster": {
//	    "title": "Light Music",
//	    "entries": [{"slNo": 1, "name": "ANJALI MENON", "collegeName": "Govt College"}]
//	  }
//	}
package request

import festpdf "github.com/zonefest/festpdf"

// Request is one export job.
type Request struct {
	Zone         string                 `json:"zone"`
	Copies       []string               `json:"copies,omitempty"`
	ColumnLines  int                    `json:"columnLines,omitempty"`
	StrictPhotos bool                   `json:"strictPhotos,omitempty"`
	Page         *Page                  `json:"page,omitempty"`
	Tickets      []festpdf.ExportRecord `json:"tickets,omitempty"`
	Roster       *Roster                `json:"roster,omitempty"`
}

// Page overrides the A4 page geometry, in points.
type Page struct {
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Margin float64 `json:"margin,omitempty"`
}

// Roster is a flat or grouped roster. Only one of Entries and Groups may be
// set.
type Roster struct {
	Title    string                `json:"title"`
	Subtitle string                `json:"subtitle,omitempty"`
	Entries  []festpdf.RosterEntry `json:"entries,omitempty"`
	Groups   []festpdf.RosterGroup `json:"groups,omitempty"`
}
