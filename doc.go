// Package festpdf holds the shared types of the festival document engine:
// export records, roster rows, zone themes, fonts, colors and the error
// taxonomy used by every subpackage.
//
// The engine lays out participant tickets and program rosters on fixed-size
// PDF pages. The work is split across subpackages:
//
//   - metrics: text widths matching the renderer exactly
//   - layout: fit-to-width, greedy line wrapping, section cursors and page-break plans
//   - canvas: the drawing collaborator (fpdf-backed, plus a recorder for tests)
//   - assembler: page furniture (header image, title banner, copy label, footer)
//   - ticket, roster: the two layout engines
//   - photo: photo fetching, sniffing and normalization
//   - theme: the zone theme table and its YAML form
//   - export: orchestration of a whole export request
//   - source, source/postgres: upstream participant data
//   - request, bundle: JSON export requests and document merging
//   - mcp: tools for AI assistants
//
// A typical ticket export:
//
//	ex := export.New(theme.Default())
//	res, err := ex.Tickets(ctx, "C", records)
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("tickets.pdf", res.PDF, 0o644)
package festpdf
