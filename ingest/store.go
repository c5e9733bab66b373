// CLAUDE:SUMMARY SQLite persistence of parsed syllabus records, keyed by UUIDv7 and deduplicated on (sha256, institution).
package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hazyhaar/syllabus/dbopen"
	"github.com/hazyhaar/syllabus/syllabus"
)

// Schema creates the syllabi table. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS syllabi (
	id          TEXT PRIMARY KEY,
	sha256      TEXT NOT NULL,
	institution TEXT NOT NULL DEFAULT '',
	filename    TEXT NOT NULL DEFAULT '',
	size_bytes  INTEGER NOT NULL DEFAULT 0,
	course_code TEXT NOT NULL DEFAULT '',
	course_name TEXT NOT NULL DEFAULT '',
	backend     TEXT NOT NULL DEFAULT '',
	record      TEXT NOT NULL,
	created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
	UNIQUE (sha256, institution)
);
CREATE INDEX IF NOT EXISTS idx_syllabi_course ON syllabi(course_code);
`

// Syllabus is a stored parse result.
type Syllabus struct {
	ID          string           `json:"id"`
	SHA256      string           `json:"sha256"`
	Institution string           `json:"institution"`
	Filename    string           `json:"filename"`
	SizeBytes   int64            `json:"size_bytes"`
	CreatedAt   string           `json:"created_at"`
	Record      *syllabus.Record `json:"record"`
}

// Summary is the listing view of a stored syllabus.
type Summary struct {
	ID          string `json:"id"`
	CourseCode  string `json:"course_code"`
	CourseName  string `json:"course_name"`
	Institution string `json:"institution"`
	Filename    string `json:"filename"`
	CreatedAt   string `json:"created_at"`
}

// Store wraps the SQLite database holding parsed syllabi.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the store at path.
func OpenStore(path string) (*Store, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(Schema))
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewStore wraps an open database and applies the schema.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("migrate syllabi: %w", err)
	}
	return &Store{db: db}, nil
}

// DB returns the underlying database.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Save inserts a syllabus. It reports false without error when a row with
// the same (sha256, institution) already exists.
func (s *Store) Save(ctx context.Context, sy *Syllabus, backend string) (bool, error) {
	raw, err := json.Marshal(sy.Record)
	if err != nil {
		return false, fmt.Errorf("encode record: %w", err)
	}
	var inserted bool
	err = dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO syllabi (id, sha256, institution, filename, size_bytes, course_code, course_name, backend, record)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(sha256, institution) DO NOTHING`,
			sy.ID, sy.SHA256, sy.Institution, sy.Filename, sy.SizeBytes,
			sy.Record.CourseCode, sy.Record.CourseName, backend, string(raw))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		inserted = n == 1
		if inserted {
			return tx.QueryRowContext(ctx, `SELECT created_at FROM syllabi WHERE id = ?`, sy.ID).Scan(&sy.CreatedAt)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("save syllabus: %w", err)
	}
	return inserted, nil
}

const selectSyllabus = `SELECT id, sha256, institution, filename, size_bytes, created_at, record FROM syllabi`

// Get returns a syllabus by ID, or nil if it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Syllabus, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, selectSyllabus+` WHERE id = ?`, id))
}

// GetBySHA returns the syllabus parsed from the given bytes for an
// institution, or nil.
func (s *Store) GetBySHA(ctx context.Context, sha256, institution string) (*Syllabus, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		selectSyllabus+` WHERE sha256 = ? AND institution = ?`, sha256, institution))
}

func (s *Store) scanOne(row *sql.Row) (*Syllabus, error) {
	var (
		sy  Syllabus
		raw string
	)
	err := row.Scan(&sy.ID, &sy.SHA256, &sy.Institution, &sy.Filename, &sy.SizeBytes, &sy.CreatedAt, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sy.Record = new(syllabus.Record)
	if err := json.Unmarshal([]byte(raw), sy.Record); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", sy.ID, err)
	}
	return &sy, nil
}

// List returns summaries newest first. An empty courseCode matches all.
func (s *Store) List(ctx context.Context, courseCode string, limit, offset int) ([]*Summary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, course_code, course_name, institution, filename, created_at FROM syllabi
		 WHERE ? = '' OR course_code = ?
		 ORDER BY id DESC LIMIT ? OFFSET ?`,
		courseCode, courseCode, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Summary{}
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.ID, &sm.CourseCode, &sm.CourseName, &sm.Institution, &sm.Filename, &sm.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &sm)
	}
	return out, rows.Err()
}

// Delete removes a syllabus. It returns ErrNotFound if no row matched.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := dbopen.Exec(ctx, s.db, `DELETE FROM syllabi WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete syllabus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
