package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-csv-merge/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Store keeps a history of stage runs and their per-file results in SQLite
type Store struct {
	db *sql.DB
}

// RunInfo is one row of the runs table
type RunInfo struct {
	ID                string      `json:"id"`
	Stage             model.Stage `json:"stage"`
	StartedAt         time.Time   `json:"started_at"`
	FinishedAt        time.Time   `json:"finished_at"`
	Succeeded         int         `json:"succeeded"`
	Unchanged         int         `json:"unchanged"`
	Skipped           int         `json:"skipped"`
	Failed            int         `json:"failed"`
	RowsWritten       int         `json:"rows_written"`
	DuplicatesRemoved int         `json:"duplicates_removed"`
}

// Open connects to the database at dbPath and creates the tables if needed
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases alive across calls
	db.SetMaxOpenConns(1)

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		stage TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		succeeded INTEGER,
		unchanged INTEGER,
		skipped INTEGER,
		failed INTEGER,
		rows_written INTEGER,
		duplicates_removed INTEGER
	);
	`
	resultTable := `
	CREATE TABLE IF NOT EXISTS file_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		application TEXT,
		path TEXT,
		outcome TEXT,
		reason TEXT,
		detail TEXT,
		rows_read INTEGER,
		rows_written INTEGER,
		duplicates_removed INTEGER
	);
	`

	if _, err := db.Exec(runTable); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(resultTable); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSummary stores a finished stage run and all of its file results
func (s *Store) SaveSummary(ctx context.Context, summary *model.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs (id, stage, started_at, finished_at, succeeded, unchanged, skipped, failed, rows_written, duplicates_removed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID, string(summary.Stage), summary.StartedAt.UTC(), summary.FinishedAt.UTC(),
		summary.Count(model.OutcomeSuccess), summary.Count(model.OutcomeUnchanged),
		summary.Count(model.OutcomeSkipped), summary.Count(model.OutcomeFailed),
		summary.TotalRowsWritten(), summary.TotalDuplicatesRemoved())
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", summary.RunID, err)
	}

	for _, r := range summary.Results {
		_, err := tx.ExecContext(ctx, `INSERT INTO file_results (run_id, application, path, outcome, reason, detail, rows_read, rows_written, duplicates_removed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			summary.RunID, r.Application, r.Path, string(r.Outcome), string(r.Reason), r.Detail,
			r.RowsRead, r.RowsWritten, r.DuplicatesRemoved)
		if err != nil {
			return fmt.Errorf("failed to save result for %s: %w", r.Path, err)
		}
	}
	return tx.Commit()
}

// ListRuns returns the most recent runs first; limit <= 0 means no limit
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, stage, started_at, finished_at, succeeded, unchanged, skipped, failed, rows_written, duplicates_removed
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var run RunInfo
		var stage string
		if err := rows.Scan(&run.ID, &stage, &run.StartedAt, &run.FinishedAt,
			&run.Succeeded, &run.Unchanged, &run.Skipped, &run.Failed,
			&run.RowsWritten, &run.DuplicatesRemoved); err != nil {
			return nil, err
		}
		run.Stage = model.Stage(stage)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRunResults fetches the per-file results of one run in the order they were recorded
func (s *Store) GetRunResults(ctx context.Context, runID string) ([]model.FileResult, error) {
	var stage string
	err := s.db.QueryRowContext(ctx, `SELECT stage FROM runs WHERE id = ?`, runID).Scan(&stage)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT application, path, outcome, reason, detail, rows_read, rows_written, duplicates_removed
		FROM file_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.FileResult
	for rows.Next() {
		var r model.FileResult
		var outcome, reason string
		if err := rows.Scan(&r.Application, &r.Path, &outcome, &reason, &r.Detail,
			&r.RowsRead, &r.RowsWritten, &r.DuplicatesRemoved); err != nil {
			return nil, err
		}
		r.Stage = model.Stage(stage)
		r.Outcome = model.Outcome(outcome)
		r.Reason = model.Reason(reason)
		results = append(results, r)
	}
	return results, rows.Err()
}
