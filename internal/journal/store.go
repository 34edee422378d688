// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal persists emitted metadata records in a local SQLite
// file, so a pipeline's lineage survives the process that extracted it.
// The journal is append-only; records are stored exactly as emitted.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/lineage-engine/internal/emit"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

// Store manages the journal SQLite database. It implements emit.Emitter.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id TEXT NOT NULL,
			phase TEXT NOT NULL,
			event_time TEXT NOT NULL,
			name TEXT,
			inputs TEXT NOT NULL,
			outputs TEXT NOT NULL,
			run_facets TEXT NOT NULL,
			job_facets TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_task_id ON records(task_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Emit appends the record; the Store plugs directly into the dispatcher.
func (s *Store) Emit(ctx context.Context, rec emit.Record) error {
	return s.Append(ctx, rec)
}

// Append writes one record to the journal.
func (s *Store) Append(ctx context.Context, rec emit.Record) error {
	if rec.Metadata == nil {
		return fmt.Errorf("journal: record for %s has no metadata", rec.TaskID)
	}

	cols := make([]string, 0, 4)
	for _, v := range []any{rec.Metadata.Inputs, rec.Metadata.Outputs, rec.Metadata.RunFacets, rec.Metadata.JobFacets} {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("journal: encoding record for %s: %w", rec.TaskID, err)
		}
		cols = append(cols, string(data))
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (task_id, phase, event_time, name, inputs, outputs, run_facets, job_facets)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TaskID, rec.Phase, rec.EventTime.UTC().Format(time.RFC3339Nano), rec.Metadata.Name,
		cols[0], cols[1], cols[2], cols[3],
	)
	if err != nil {
		return fmt.Errorf("journal: inserting record for %s: %w", rec.TaskID, err)
	}
	return nil
}

// List returns records in append order, optionally filtered by task ID.
// A limit of zero means no limit.
func (s *Store) List(ctx context.Context, taskID string, limit int) ([]emit.Record, error) {
	query := `SELECT task_id, phase, event_time, name, inputs, outputs, run_facets, job_facets
		FROM records`
	var args []any
	if taskID != "" {
		query += ` WHERE task_id = ?`
		args = append(args, taskID)
	}
	query += ` ORDER BY rowid`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: querying records: %w", err)
	}
	defer rows.Close()

	var records []emit.Record
	for rows.Next() {
		var (
			rec       emit.Record
			eventTime string
			md        types.TaskMetadata
			inputs    string
			outputs   string
			runFacets string
			jobFacets string
		)
		if err := rows.Scan(&rec.TaskID, &rec.Phase, &eventTime, &md.Name,
			&inputs, &outputs, &runFacets, &jobFacets); err != nil {
			return nil, fmt.Errorf("journal: scanning record: %w", err)
		}

		if rec.EventTime, err = time.Parse(time.RFC3339Nano, eventTime); err != nil {
			return nil, fmt.Errorf("journal: parsing event time: %w", err)
		}
		for _, col := range []struct {
			data string
			dst  any
		}{
			{inputs, &md.Inputs},
			{outputs, &md.Outputs},
			{runFacets, &md.RunFacets},
			{jobFacets, &md.JobFacets},
		} {
			if err := json.Unmarshal([]byte(col.data), col.dst); err != nil {
				return nil, fmt.Errorf("journal: decoding record: %w", err)
			}
		}

		rec.Metadata = &md
		records = append(records, rec)
	}
	return records, rows.Err()
}
