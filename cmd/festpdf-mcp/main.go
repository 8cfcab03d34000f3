// Command festpdf-mcp is an MCP (Model Context Protocol) server that exposes
// festival ticket and roster rendering to AI assistants.
//
// # Installation
//
//	go install github.com/zonefest/festpdf/cmd/festpdf-mcp@latest
//
// # Configuration
//
//	{
//	  "mcpServers": {
//	    "festpdf": {
//	      "command": "festpdf-mcp",
//	      "env": {"FESTPDF_THEMES": "/etc/festpdf/zones.yaml"}
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - render_tickets: Render participant tickets for a zone
//   - render_roster: Render a flat or grouped program roster
//   - plan_roster: Compute roster page breaks without rendering
//   - list_zones: List configured zone themes
//   - merge_pdfs: Merge rendered PDFs
//
// # Available Resources
//
//   - festpdf://zones : Configured zone themes
//   - festpdf://request-example : A complete export request
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/zonefest/festpdf/export"
	"github.com/zonefest/festpdf/mcp"
	"github.com/zonefest/festpdf/theme"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// stdout carries the protocol; logs go to stderr.
	opts := []export.Option{export.WithLogger(log.New(os.Stderr, "festpdf-mcp: ", log.LstdFlags))}
	if path := os.Getenv("FESTPDF_THEMES"); path != "" {
		table, err := theme.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "festpdf-mcp: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, export.WithThemes(table))
	}

	server := mcp.NewServer()
	mcp.RegisterDefaultTools(server, opts...)
	mcp.RegisterDefaultResources(server, opts...)

	if err := server.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "festpdf-mcp: %v\n", err)
		os.Exit(1)
	}
}
