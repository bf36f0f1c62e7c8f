// Package history stores a record of every build in SQLite.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
)

// DefaultLimit is the number of builds List returns when limit is not positive.
const DefaultLimit = 20

// Build is one stored build row.
type Build struct {
	ID        string
	Version   string
	Start     time.Time
	End       time.Time
	Outcome   pipeline.Outcome
	Revision  string
	Strict    bool
	Documents int
	Drafts    int
	Written   int
	Changed   int
	Unchanged int
	Issues    int
}

// Duration is the wall time of the build.
func (b Build) Duration() time.Duration { return b.End.Sub(b.Start) }

// Store persists build reports.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the database at path. Use ":memory:" for a
// throwaway store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, historyError(err, "create history directory", path)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, historyError(err, "open history database", path)
	}
	// One connection keeps ":memory:" databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, historyError(err, "initialize history schema", path)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		version TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		revision TEXT NOT NULL,
		strict INTEGER NOT NULL,
		documents INTEGER NOT NULL,
		drafts INTEGER NOT NULL,
		written INTEGER NOT NULL,
		changed INTEGER NOT NULL,
		unchanged INTEGER NOT NULL,
		issues INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at);
	CREATE TABLE IF NOT EXISTS issues (
		build_id TEXT NOT NULL REFERENCES builds(id),
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		stage TEXT NOT NULL,
		severity TEXT NOT NULL,
		path TEXT NOT NULL,
		template TEXT NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (build_id, seq)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Record stores a finished report and its issues in one transaction.
func (s *Store) Record(ctx context.Context, r *pipeline.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return historyError(err, "begin transaction", r.BuildID)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO builds
		(id, version, started_at, finished_at, outcome, revision, strict, documents, drafts, written, changed, unchanged, issues)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.BuildID, r.Version, r.Start.UnixNano(), r.End.UnixNano(), string(r.Outcome), r.Revision,
		boolInt(r.Strict), r.Documents, r.Drafts, r.Written, r.Changed, r.Unchanged, len(r.Issues),
	)
	if err != nil {
		return historyError(err, "insert build", r.BuildID)
	}
	for i, is := range r.Issues {
		_, err = tx.ExecContext(ctx, `INSERT INTO issues
			(build_id, seq, kind, stage, severity, path, template, message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.BuildID, i, is.Kind, string(is.Stage), is.Severity, is.Path, is.Template, is.Message,
		)
		if err != nil {
			return historyError(err, "insert issue", r.BuildID)
		}
	}
	if err := tx.Commit(); err != nil {
		return historyError(err, "commit build", r.BuildID)
	}
	return nil
}

// List returns the most recent builds, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Build, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, version, started_at, finished_at, outcome, revision, strict, documents, drafts, written, changed, unchanged, issues
		FROM builds ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, historyError(err, "query builds", "")
	}
	defer func() { _ = rows.Close() }()

	var out []Build
	for rows.Next() {
		var b Build
		var start, end int64
		var outcome string
		var strict int
		if err := rows.Scan(&b.ID, &b.Version, &start, &end, &outcome, &b.Revision, &strict,
			&b.Documents, &b.Drafts, &b.Written, &b.Changed, &b.Unchanged, &b.Issues); err != nil {
			return nil, historyError(err, "scan build", "")
		}
		b.Start = time.Unix(0, start)
		b.End = time.Unix(0, end)
		b.Outcome = pipeline.Outcome(outcome)
		b.Strict = strict != 0
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, historyError(err, "iterate builds", "")
	}
	return out, nil
}

// Issues returns the issues recorded for one build in their original order.
func (s *Store) Issues(ctx context.Context, buildID string) ([]pipeline.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT kind, stage, severity, path, template, message
		FROM issues WHERE build_id = ? ORDER BY seq`, buildID)
	if err != nil {
		return nil, historyError(err, "query issues", buildID)
	}
	defer func() { _ = rows.Close() }()

	var out []pipeline.Issue
	for rows.Next() {
		var is pipeline.Issue
		var stage string
		if err := rows.Scan(&is.Kind, &stage, &is.Severity, &is.Path, &is.Template, &is.Message); err != nil {
			return nil, historyError(err, "scan issue", buildID)
		}
		is.Stage = pipeline.StageName(stage)
		out = append(out, is)
	}
	if err := rows.Err(); err != nil {
		return nil, historyError(err, "iterate issues", buildID)
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func historyError(err error, msg, path string) error {
	b := ferrors.WrapError(err, ferrors.CategoryHistory, msg)
	if path != "" {
		b = b.WithPath(path)
	}
	return b.Build()
}
