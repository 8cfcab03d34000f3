package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/bundle"
	"github.com/zonefest/festpdf/export"
	reqpkg "github.com/zonefest/festpdf/request"
)

// RegisterDefaultTools adds the rendering tools to the server. opts
// configure every exporter the tools create.
func RegisterDefaultTools(s *Server, opts ...export.Option) {
	t := &tools{opts: opts}
	s.AddTool(t.renderTicketsTool())
	s.AddTool(t.renderRosterTool())
	s.AddTool(t.planRosterTool())
	s.AddTool(t.listZonesTool())
	s.AddTool(mergePDFsTool())
}

type tools struct {
	opts []export.Option
}

func (t *tools) exporter() *export.Exporter {
	return export.New(nil, t.opts...)
}

var outputPathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Optional file path to save the PDF. If omitted, returns base64.",
}

var zoneProperty = map[string]interface{}{
	"type":        "string",
	"description": "Zone key, e.g. \"A\", \"b\" or \"C zone\"",
}

func rosterProperties() map[string]interface{} {
	return map[string]interface{}{
		"zone":     zoneProperty,
		"title":    map[string]interface{}{"type": "string", "description": "Program name printed as the roster title"},
		"subtitle": map[string]interface{}{"type": "string", "description": "Optional line under the title on page 1"},
		"entries": map[string]interface{}{
			"type":        "array",
			"description": "Flat roster rows: {slNo, name, collegeName}",
			"items":       map[string]interface{}{"type": "object"},
		},
		"groups": map[string]interface{}{
			"type":        "array",
			"description": "Grouped roster rows: {collegeName, participantNames}",
			"items":       map[string]interface{}{"type": "object"},
		},
		"outputPath": outputPathProperty,
	}
}

// decodeArgs re-encodes tool arguments into v, rejecting unknown fields.
func decodeArgs(args map[string]interface{}, v interface{}) error {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("%w: %v", errArguments, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errArguments, err)
	}
	return nil
}

func (t *tools) renderTicketsTool() Tool {
	return Tool{
		Name:        "render_tickets",
		Description: "Render participant tickets for one zone. Each participant gets one ticket per copy label; program lists that overflow continue on extra pages. Returns the PDF as base64 or saves it.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"zone": zoneProperty,
				"tickets": map[string]interface{}{
					"type":        "array",
					"description": "Ticket records: {registrationId, displayName, sex, collegeName, course, semesterLabel, dateOfBirth, photoRef, programs: {offStage, stage, group}}",
					"items":       map[string]interface{}{"type": "object"},
				},
				"copies": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Copy labels. Defaults to the zone copy and the student copy.",
				},
				"columnLines":  map[string]interface{}{"type": "number", "description": "Lines per program column per page (1-15)"},
				"strictPhotos": map[string]interface{}{"type": "boolean", "description": "Fail instead of leaving the photo box empty"},
				"outputPath":   outputPathProperty,
			},
			"required": []string{"zone", "tickets"},
		},
		Handler: t.handleRenderTickets,
	}
}

func (t *tools) handleRenderTickets(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
	var in struct {
		reqpkg.Request
		OutputPath string `json:"outputPath"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return ToolResult{}, err
	}
	if len(in.Tickets) == 0 {
		return ToolResult{}, festpdf.ErrEmptyExport
	}
	in.Roster = nil
	return t.render(ctx, &in.Request, in.OutputPath)
}

func (t *tools) renderRosterTool() Tool {
	return Tool{
		Name:        "render_roster",
		Description: "Render a program roster as a table. Give either entries (one row per participant) or groups (one row per team). The header row repeats on every page.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": rosterProperties(),
			"required":   []string{"zone", "title"},
		},
		Handler: t.handleRenderRoster,
	}
}

type rosterArgs struct {
	Zone       string `json:"zone"`
	reqpkg.Roster
	OutputPath string `json:"outputPath"`
}

func (t *tools) handleRenderRoster(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
	var in rosterArgs
	if err := decodeArgs(args, &in); err != nil {
		return ToolResult{}, err
	}
	req := &reqpkg.Request{Zone: in.Zone, Roster: &in.Roster}
	return t.render(ctx, req, in.OutputPath)
}

func (t *tools) render(ctx context.Context, req *reqpkg.Request, outputPath string) (ToolResult, error) {
	var buf bytes.Buffer
	sum, err := reqpkg.RenderRequest(ctx, &buf, req, t.opts...)
	if err != nil {
		return ToolResult{}, fmt.Errorf("rendering PDF: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "PDF rendered: %d pages, %d bytes", sum.Pages, buf.Len())
	for _, d := range sum.Degraded {
		fmt.Fprintf(&text, "\nno photo for %s: %v", d.RegistrationID, d.Err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
			return ToolResult{}, fmt.Errorf("writing file: %w", err)
		}
		fmt.Fprintf(&text, "\nSaved to %s", outputPath)
		return ToolResult{Content: []ContentBlock{{Type: "text", Text: text.String()}}}, nil
	}

	return ToolResult{
		Content: []ContentBlock{
			{Type: "text", Text: text.String()},
			{Type: "resource", MIMEType: export.ContentType, Data: base64.StdEncoding.EncodeToString(buf.Bytes())},
		},
	}, nil
}

func (t *tools) planRosterTool() Tool {
	props := rosterProperties()
	delete(props, "outputPath")
	return Tool{
		Name:        "plan_roster",
		Description: "Compute the page breaks of a roster without rendering it. Returns the page count and the row range of every page.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": props,
			"required":   []string{"zone", "title"},
		},
		Handler: t.handlePlanRoster,
	}
}

func (t *tools) handlePlanRoster(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
	var in rosterArgs
	if err := decodeArgs(args, &in); err != nil {
		return ToolResult{}, err
	}
	plan, err := t.exporter().PlanRoster(ctx, in.Zone, export.RosterRequest{
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Entries:  in.Entries,
		Groups:   in.Groups,
	})
	if err != nil {
		return ToolResult{}, err
	}

	pages := make([]map[string]interface{}, 0, plan.Pages())
	for i := 0; i < plan.Pages(); i++ {
		start, end := plan.Page(i)
		pages = append(pages, map[string]interface{}{
			"page":  i + 1,
			"first": start + 1,
			"last":  end,
		})
	}
	info := map[string]interface{}{
		"rows":     plan.Rows,
		"numPages": plan.Pages(),
		"breaks":   plan.Breaks,
		"pages":    pages,
	}
	jsonBytes, _ := json.MarshalIndent(info, "", "  ")
	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(jsonBytes)}},
	}, nil
}

func (t *tools) listZonesTool() Tool {
	return Tool{
		Name:        "list_zones",
		Description: "List the configured zones with their colors, copy labels and barcode kinds.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Handler: t.handleListZones,
	}
}

func (t *tools) handleListZones(_ context.Context, _ map[string]interface{}) (ToolResult, error) {
	jsonBytes, _ := json.MarshalIndent(zoneInfo(t.exporter()), "", "  ")
	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(jsonBytes)}},
	}, nil
}

func zoneInfo(ex *export.Exporter) []map[string]interface{} {
	themes := ex.Themes().Themes()
	zones := make([]map[string]interface{}, 0, len(themes))
	for _, th := range themes {
		zones = append(zones, map[string]interface{}{
			"key":       th.Key,
			"name":      th.Name,
			"color":     th.PrimaryColor.Hex(),
			"copyLabel": th.CopyLabel(),
			"barcode":   string(th.Barcode),
			"notes":     th.FooterNotes,
		})
	}
	return zones
}

func mergePDFsTool() Tool {
	return Tool{
		Name:        "merge_pdfs",
		Description: "Merge rendered PDF files into one, in the given order. Useful for bundling tickets with their roster.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"paths": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "PDF files to merge, in order",
				},
				"outputPath": map[string]interface{}{
					"type":        "string",
					"description": "Output file path",
				},
			},
			"required": []string{"paths", "outputPath"},
		},
		Handler: handleMergePDFs,
	}
}

func handleMergePDFs(_ context.Context, args map[string]interface{}) (ToolResult, error) {
	paths, ok := args["paths"].([]interface{})
	if !ok || len(paths) == 0 {
		return ToolResult{}, fmt.Errorf("%w: missing 'paths'", errArguments)
	}
	outputPath, ok := args["outputPath"].(string)
	if !ok || outputPath == "" {
		return ToolResult{}, fmt.Errorf("%w: missing 'outputPath'", errArguments)
	}

	docs := make([]bundle.Document, 0, len(paths))
	for _, p := range paths {
		path, ok := p.(string)
		if !ok {
			return ToolResult{}, fmt.Errorf("%w: invalid path %v", errArguments, p)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return ToolResult{}, fmt.Errorf("reading %s: %w", path, err)
		}
		docs = append(docs, bundle.Document{Data: data})
	}

	var buf bytes.Buffer
	pages, err := bundle.Merge(&buf, docs...)
	if err != nil {
		return ToolResult{}, fmt.Errorf("merging: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return ToolResult{}, fmt.Errorf("writing file: %w", err)
	}
	return ToolResult{
		Content: []ContentBlock{{
			Type: "text",
			Text: fmt.Sprintf("Merged %d files (%d pages) into %s", len(docs), pages, outputPath),
		}},
	}, nil
}
