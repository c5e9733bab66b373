// CLAUDE:SUMMARY Ingest pipeline: preflight, SHA-256 dedup against the store, engine parse, sanitize, persist.
// CLAUDE:EXPORTS Ingester, NewIngester, Option, WithIDGenerator, WithLogger, WithMaxBytes, WithInstitution, Result
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/syllabus/idgen"
	"github.com/hazyhaar/syllabus/syllabus"
)

// Result is returned by Ingest.
type Result struct {
	ID           string           `json:"id"`
	SHA256       string           `json:"sha256"`
	Deduplicated bool             `json:"deduplicated"`
	File         *FileInfo        `json:"file"`
	Record       *syllabus.Record `json:"record"`
}

// Ingester validates uploads, parses them and persists the records.
type Ingester struct {
	Store  *Store
	Engine *syllabus.Engine

	newID       idgen.Generator
	logger      *slog.Logger
	maxBytes    int64
	institution string
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithIDGenerator sets the record ID generator. Default: UUIDv7.
func WithIDGenerator(g idgen.Generator) Option {
	return func(ing *Ingester) { ing.newID = g }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(ing *Ingester) { ing.logger = l }
}

// WithMaxBytes sets the upload ceiling. Default: 10 MiB.
func WithMaxBytes(n int64) Option {
	return func(ing *Ingester) { ing.maxBytes = n }
}

// WithInstitution sets the institution used when a caller passes none.
func WithInstitution(name string) Option {
	return func(ing *Ingester) { ing.institution = name }
}

// NewIngester wires an ingester over a store and an engine.
func NewIngester(store *Store, eng *syllabus.Engine, opts ...Option) *Ingester {
	ing := &Ingester{
		Store:    store,
		Engine:   eng,
		newID:    idgen.Default,
		logger:   slog.Default(),
		maxBytes: 10 << 20,
	}
	for _, o := range opts {
		o(ing)
	}
	return ing
}

// MaxBytes returns the configured upload ceiling.
func (ing *Ingester) MaxBytes() int64 { return ing.maxBytes }

// Ingest validates, parses and stores one syllabus. A document already
// parsed for the same institution is returned from the store without
// re-parsing, with Deduplicated set.
func (ing *Ingester) Ingest(ctx context.Context, name string, data []byte, institution string) (*Result, error) {
	start := time.Now()
	if institution == "" {
		institution = ing.institution
	}

	info, err := Preflight(name, data, ing.maxBytes)
	if err != nil {
		ing.logger.Warn("ingest: preflight rejected", "file", name, "size", len(data), "error", err)
		return nil, err
	}
	if !info.HasEOF {
		ing.logger.Debug("ingest: no %EOF trailer", "file", info.Name)
	}

	if prev, err := ing.Store.GetBySHA(ctx, info.SHA256, institution); err != nil {
		return nil, fmt.Errorf("lookup sha256: %w", err)
	} else if prev != nil {
		ing.logger.Info("ingest: deduplicated", "id", prev.ID, "sha256", info.SHA256)
		return &Result{ID: prev.ID, SHA256: info.SHA256, Deduplicated: true, File: info, Record: prev.Record}, nil
	}

	doc, err := ing.Engine.Pipeline().Extract(ctx, data)
	if err != nil {
		ing.logger.Warn("ingest: extraction failed", "file", info.Name, "sha256", info.SHA256, "error", err)
		return nil, err
	}
	rec := ing.Engine.Analyze(doc, institution)
	Sanitize(rec)

	sy := &Syllabus{
		ID:          ing.newID(),
		SHA256:      info.SHA256,
		Institution: institution,
		Filename:    info.Name,
		SizeBytes:   info.Size,
		Record:      rec,
	}
	inserted, err := ing.Store.Save(ctx, sy, doc.Backend)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// A concurrent upload of the same bytes won the insert.
		prev, err := ing.Store.GetBySHA(ctx, info.SHA256, institution)
		if err != nil {
			return nil, fmt.Errorf("reload deduplicated syllabus: %w", err)
		}
		if prev == nil {
			return nil, fmt.Errorf("reload deduplicated syllabus %s: %w", info.SHA256, ErrNotFound)
		}
		return &Result{ID: prev.ID, SHA256: info.SHA256, Deduplicated: true, File: info, Record: prev.Record}, nil
	}

	ing.logger.Info("ingest: stored",
		"id", sy.ID,
		"course_code", rec.CourseCode,
		"backend", doc.Backend,
		"pages", doc.Pages,
		"duration", time.Since(start),
	)
	return &Result{ID: sy.ID, SHA256: info.SHA256, File: info, Record: rec}, nil
}
