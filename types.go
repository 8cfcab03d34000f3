package festpdf

import (
	"fmt"
	"strconv"
	"strings"
)

// Programs holds a participant's program names split by category.
type Programs struct {
	OffStage []string `json:"offStage" yaml:"off_stage"`
	Stage    []string `json:"stage" yaml:"stage"`
	Group    []string `json:"group" yaml:"group"`
}

// Category identifies one of the three program columns on a ticket.
type Category int

const (
	OffStage Category = iota
	Stage
	Group
)

// Categories lists the program columns in drawing order.
var Categories = [3]Category{OffStage, Stage, Group}

func (c Category) String() string {
	switch c {
	case OffStage:
		return "Off Stage"
	case Stage:
		return "Stage"
	case Group:
		return "Group"
	}
	return "Category(" + strconv.Itoa(int(c)) + ")"
}

// List returns the program names of category c.
func (p Programs) List(c Category) []string {
	switch c {
	case OffStage:
		return p.OffStage
	case Stage:
		return p.Stage
	case Group:
		return p.Group
	}
	return nil
}

// Empty reports whether no category holds any program.
func (p Programs) Empty() bool {
	return len(p.OffStage) == 0 && len(p.Stage) == 0 && len(p.Group) == 0
}

// ExportRecord is the flat shape a participant is reduced to before a
// ticket is laid out. It is built once per export request and never
// modified afterwards.
type ExportRecord struct {
	RegistrationID string   `json:"registrationId"`
	DisplayName    string   `json:"displayName"`
	Sex            string   `json:"sex"`
	CollegeName    string   `json:"collegeName"`
	Course         string   `json:"course"`
	SemesterLabel  string   `json:"semesterLabel"`
	DateOfBirth    string   `json:"dateOfBirth"`
	PhotoRef       string   `json:"photoRef,omitempty"` // URL or file path; empty means no photo
	Programs       Programs `json:"programs"`
}

// RosterEntry is one row of a flat roster.
type RosterEntry struct {
	SlNo        int    `json:"slNo"`
	Name        string `json:"name"`
	CollegeName string `json:"collegeName"`
}

// RosterGroup is one team row of a grouped roster. Its rendered height
// depends on how many lines the college name wraps to plus one line per
// participant.
type RosterGroup struct {
	CollegeName      string   `json:"collegeName"`
	ParticipantNames []string `json:"participantNames"`
}

// Font names a core PDF font face.
type Font struct {
	Family string // Helvetica, Courier, Times
	Style  string // "", "B", "I", "BI"
}

var (
	Regular = Font{Family: "Helvetica"}
	Bold    = Font{Family: "Helvetica", Style: "B"}
)

func (f Font) String() string {
	if f.Style == "" {
		return f.Family
	}
	return f.Family + "-" + f.Style
}

// Color is an RGB color with components in 0..255.
type Color struct {
	R, G, B int
}

var (
	Black = Color{}
	White = Color{255, 255, 255}
)

// ParseHexColor parses "#rrggbb" (the leading '#' is optional).
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("festpdf: invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("festpdf: invalid color %q: %w", s, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// Hex formats c as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ImageFormat is a raster format the renderer can embed.
type ImageFormat string

const (
	PNG  ImageFormat = "png"
	JPEG ImageFormat = "jpg"
)

// BarcodeKind selects the symbology printed on tickets.
type BarcodeKind string

const (
	BarcodeNone   BarcodeKind = ""
	BarcodeQR     BarcodeKind = "qr"
	BarcodePDF417 BarcodeKind = "pdf417"
)

// ZoneTheme holds the cosmetic constants of one zone. It never changes the
// layout algorithm.
type ZoneTheme struct {
	Key            string
	Name           string
	PrimaryColor   Color
	HeaderImageRef string
	FooterNotes    []string
	LabelPrefix    string
	Barcode        BarcodeKind
}

// CopyLabel returns the label printed on the zone's own copy of a ticket.
func (t ZoneTheme) CopyLabel() string {
	if t.LabelPrefix == "" {
		return "Zone Copy"
	}
	return t.LabelPrefix + " Copy"
}
