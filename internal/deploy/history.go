// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deploy

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Record is one row of the deploy history ledger.
type Record struct {
	StartedAt time.Time
	Remote    string
	Files     int
	Bytes     int64
	DryRun    bool
	Status    string
	Error     string
}

// Deploy outcome statuses recorded in the ledger.
const (
	StatusOK     = "ok"
	StatusDryRun = "dry-run"
	StatusFailed = "failed"
)

// History is the SQLite deploy ledger. Every deploy invocation, including
// dry runs and failures, appends one row.
type History struct {
	db *sql.DB
}

// OpenHistory opens or creates the ledger database at path, creating the
// schema if it does not exist.
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	h := &History{db: db}
	if err := h.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return h, nil
}

// Close releases the database connection.
func (h *History) Close() error {
	return h.db.Close()
}

func (h *History) createSchema() error {
	_, err := h.db.Exec(`CREATE TABLE IF NOT EXISTS deploys (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		remote TEXT NOT NULL,
		files INTEGER NOT NULL,
		bytes INTEGER NOT NULL,
		dry_run INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Add appends one record to the ledger.
func (h *History) Add(ctx context.Context, rec Record) error {
	dryRun := 0
	if rec.DryRun {
		dryRun = 1
	}
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO deploys (started_at, remote, files, bytes, dry_run, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.UTC().Format(time.RFC3339), rec.Remote,
		rec.Files, rec.Bytes, dryRun, rec.Status, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("recording deploy: %w", err)
	}
	return nil
}

// Recent returns up to n records, newest first.
func (h *History) Recent(ctx context.Context, n int) ([]Record, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT started_at, remote, files, bytes, dry_run, status, error
		 FROM deploys ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying deploy history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var startedAt string
		var dryRun int
		if err := rows.Scan(&startedAt, &rec.Remote, &rec.Files, &rec.Bytes, &dryRun, &rec.Status, &rec.Error); err != nil {
			return nil, fmt.Errorf("scanning deploy record: %w", err)
		}
		rec.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing deploy timestamp: %w", err)
		}
		rec.DryRun = dryRun != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}
