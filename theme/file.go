package theme

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	festpdf "github.com/zonefest/festpdf"
)

// File is the YAML layout of a theme file:
//
//	zones:
//	  - key: C
//	    name: C Zone
//	    color: "#857432"
//	    header_image: templates/zone_c_header.png
//	    label_prefix: C-Zone
//	    barcode: pdf417
//	    notes:
//	      - A copy of your SSLC Book.
type File struct {
	Zones []ZoneEntry `yaml:"zones"`
}

// ZoneEntry is one zone in a theme file.
type ZoneEntry struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Color       string   `yaml:"color"`
	HeaderImage string   `yaml:"header_image"`
	LabelPrefix string   `yaml:"label_prefix"`
	Barcode     string   `yaml:"barcode"`
	Notes       []string `yaml:"notes"`
}

// Theme converts the entry to a ZoneTheme.
func (e ZoneEntry) Theme() (festpdf.ZoneTheme, error) {
	th := festpdf.ZoneTheme{
		Key:            e.Key,
		Name:           e.Name,
		HeaderImageRef: e.HeaderImage,
		FooterNotes:    e.Notes,
		LabelPrefix:    e.LabelPrefix,
		Barcode:        festpdf.BarcodeKind(e.Barcode),
	}
	if th.Name == "" {
		th.Name = e.Key + " Zone"
	}
	if e.Color != "" {
		c, err := festpdf.ParseHexColor(e.Color)
		if err != nil {
			return festpdf.ZoneTheme{}, &festpdf.ConfigurationError{Key: e.Key, Err: fmt.Errorf("%w: %v", festpdf.ErrInvalidTheme, err)}
		}
		th.PrimaryColor = c
	}
	return th, nil
}

// Parse reads a theme table from YAML. Unknown fields are rejected.
func Parse(data []byte) (*Table, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, &festpdf.ConfigurationError{Key: "themes", Err: fmt.Errorf("%w: %v", festpdf.ErrInvalidTheme, err)}
	}
	themes := make([]festpdf.ZoneTheme, 0, len(f.Zones))
	for _, z := range f.Zones {
		th, err := z.Theme()
		if err != nil {
			return nil, err
		}
		themes = append(themes, th)
	}
	return NewTable(themes...)
}

// LoadFile reads a theme table from a YAML file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &festpdf.ConfigurationError{Key: path, Err: err}
	}
	return Parse(data)
}
