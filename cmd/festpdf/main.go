// Command festpdf renders festival tickets and rosters to PDF.
//
// It renders a JSON export request:
//
//	festpdf -o tickets.pdf request.json
//	festpdf -zone C -o - request.json > tickets.pdf
//
// or loads one college's tickets, or one event's roster, from PostgreSQL:
//
//	festpdf -db postgres://... -zone C -college "Govt College" -o tickets.pdf
//	festpdf -db postgres://... -zone C -event e12 -title "Group Song" -o roster.pdf
//
// The zone defaults to $FESTPDF_ZONE. PDF output is never written to a
// terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/term"

	"github.com/zonefest/festpdf/export"
	"github.com/zonefest/festpdf/request"
	"github.com/zonefest/festpdf/source/postgres"
	"github.com/zonefest/festpdf/theme"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "festpdf: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	output      string
	zone        string
	themes      string
	copies      string
	columnLines int
	strict      bool
	workers     int
	timeout     time.Duration
	quiet       bool
	dsn         string
	college     string
	event       string
	title       string
	subtitle    string
}

var errTerminal = errors.New("refusing to write PDF to a terminal; use -o FILE or redirect stdout")

// isTerminal is replaced in tests.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var o options
	fs := flag.NewFlagSet("festpdf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.output, "o", "-", "output file, - for stdout")
	fs.StringVar(&o.zone, "zone", os.Getenv("FESTPDF_ZONE"), "zone key when the request names none (default $FESTPDF_ZONE)")
	fs.StringVar(&o.themes, "themes", "", "zone theme YAML file (default built-in zones A, B and C)")
	fs.StringVar(&o.copies, "copies", "", "comma-separated ticket copy labels")
	fs.IntVar(&o.columnLines, "column-lines", 0, "lines per program column per page")
	fs.BoolVar(&o.strict, "strict-photos", false, "fail when a photo cannot be used")
	fs.IntVar(&o.workers, "workers", 4, "concurrent photo fetches")
	fs.DurationVar(&o.timeout, "timeout", 10*time.Second, "per-photo fetch timeout")
	fs.BoolVar(&o.quiet, "q", false, "suppress progress logs")
	fs.StringVar(&o.dsn, "db", "", "PostgreSQL URL to load participants from")
	fs.StringVar(&o.college, "college", "", "with -db: render the tickets of this college")
	fs.StringVar(&o.event, "event", "", "with -db: render the roster of this event id")
	fs.StringVar(&o.title, "title", "", "with -event: roster title")
	fs.StringVar(&o.subtitle, "subtitle", "", "with -event: roster subtitle")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var req *request.Request
	var err error
	switch {
	case o.dsn != "":
		req, err = loadRequest(ctx, o)
	case fs.NArg() == 1:
		req, err = readRequest(fs.Arg(0), stdin)
	default:
		fs.Usage()
		return errors.New("expected one request file or -db")
	}
	if err != nil {
		return err
	}
	if req.Zone == "" {
		req.Zone = o.zone
	}

	exportOpts, err := exporterOptions(o, stderr)
	if err != nil {
		return err
	}

	var sum *request.Summary
	render := func(w io.Writer) error {
		var rerr error
		sum, rerr = request.RenderRequest(ctx, w, req, exportOpts...)
		return rerr
	}
	if o.output == "-" {
		if isTerminal(stdout) {
			return errTerminal
		}
		err = render(stdout)
	} else {
		err = writeFile(o.output, render)
	}
	if err != nil {
		return err
	}
	for _, d := range sum.Degraded {
		fmt.Fprintf(stderr, "festpdf: no photo for %s (%s): %v\n", d.RegistrationID, d.PhotoRef, d.Err)
	}
	return nil
}

// createFile is replaced in tests.
var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// writeFile runs render into a new file at path. The file is removed when
// render or the final close fails, so no truncated PDF is left behind.
func writeFile(path string, render func(io.Writer) error) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	err = render(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing %s: %w", path, cerr)
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}

func readRequest(path string, stdin io.Reader) (*request.Request, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return request.Parse(data)
}

func loadRequest(ctx context.Context, o options) (*request.Request, error) {
	if (o.college == "") == (o.event == "") {
		return nil, errors.New("-db needs exactly one of -college and -event")
	}
	pool, err := pgxpool.New(ctx, o.dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()
	loader := postgres.NewLoader(pool)

	req := &request.Request{Zone: o.zone}
	if o.college != "" {
		req.Tickets, err = loader.Tickets(ctx, o.college)
		return req, err
	}
	entries, groups, err := loader.Roster(ctx, o.event)
	if err != nil {
		return nil, err
	}
	title := o.title
	if title == "" {
		title = o.event
	}
	req.Roster = &request.Roster{Title: title, Subtitle: o.subtitle, Entries: entries, Groups: groups}
	return req, nil
}

func exporterOptions(o options, stderr io.Writer) ([]export.Option, error) {
	logOut := stderr
	if o.quiet {
		logOut = io.Discard
	}
	opts := []export.Option{
		export.WithLogger(log.New(logOut, "festpdf: ", log.LstdFlags)),
		export.WithFetchWorkers(o.workers),
		export.WithFetchTimeout(o.timeout),
		export.WithStrictPhotos(o.strict),
	}
	if o.themes != "" {
		table, err := theme.LoadFile(o.themes)
		if err != nil {
			return nil, err
		}
		opts = append(opts, export.WithThemes(table))
	}
	if o.copies != "" {
		var labels []string
		for _, l := range strings.Split(o.copies, ",") {
			if l = strings.TrimSpace(l); l != "" {
				labels = append(labels, l)
			}
		}
		opts = append(opts, export.WithCopies(labels...))
	}
	if o.columnLines > 0 {
		opts = append(opts, export.WithColumnLines(o.columnLines))
	}
	return opts, nil
}
