// CLAUDE:SUMMARY syllabus CLI: parse a PDF into record JSON, or dump the reconstructed text layer.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/hazyhaar/syllabus/docpipe"
	"github.com/hazyhaar/syllabus/ingest"
	"github.com/hazyhaar/syllabus/syllabus"
)

const usage = `usage:
  syllabus parse <file.pdf> [institution]   print the parsed record as JSON
  syllabus text <file.pdf>                  print the reconstructed text
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	level := slog.LevelWarn
	if os.Getenv("SYLLABUS_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	cmd, path := args[0], args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "read %s: %v\n", path, err)
		return 1
	}
	if _, err := ingest.Preflight(path, data, ingest.DefaultConfig().MaxFileBytes()); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", path, err)
		return 1
	}

	eng := syllabus.New(syllabus.Config{})

	switch cmd {
	case "parse":
		institution := ""
		if len(args) > 2 {
			institution = args[2]
		}
		rec, err := eng.Parse(ctx, data, institution)
		if err != nil {
			return reportExtractError(stderr, path, err)
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			fmt.Fprintf(stderr, "encode: %v\n", err)
			return 1
		}
		return 0

	case "text":
		doc, err := eng.Pipeline().Extract(ctx, data)
		if err != nil {
			return reportExtractError(stderr, path, err)
		}
		fmt.Fprintln(stdout, doc.FullText)
		fmt.Fprintf(stderr, "backend=%s pages=%d lines=%d\n", doc.Backend, doc.Pages, len(doc.Lines))
		return 0

	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}
}

func reportExtractError(w io.Writer, path string, err error) int {
	var ee *docpipe.ExtractionError
	if errors.As(err, &ee) {
		fmt.Fprintf(w, "%s: %s: %v\n", path, ee.Kind, err)
		return 1
	}
	fmt.Fprintf(w, "%s: %v\n", path, err)
	return 1
}
