// Package store handles SQLite persistence of analysis runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bradlipovsky/file-org/internal/counts"
	"github.com/bradlipovsky/file-org/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for run-history data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			ran_at TEXT NOT NULL,
			input_path TEXT NOT NULL,
			first_date TEXT NOT NULL,
			last_date TEXT NOT NULL,
			days_walked INTEGER NOT NULL,
			total_expected INTEGER NOT NULL,
			total_observed INTEGER NOT NULL,
			percent REAL NOT NULL,
			gap_days INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ran_at ON runs(ran_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores one completed analysis run.
func (s *Store) InsertRun(ctx context.Context, run model.RunSummary) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (ran_at, input_path, first_date, last_date, days_walked, total_expected, total_observed, percent, gap_days)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RanAt.Format(time.RFC3339Nano),
		run.InputPath,
		run.FirstDate.Format(counts.DateLayout),
		run.LastDate.Format(counts.DateLayout),
		run.DaysWalked,
		run.TotalExpected,
		run.TotalObserved,
		run.Percent,
		run.GapDays,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRuns returns recorded runs filtered by the history config, ordered by
// run time ascending.
func (s *Store) ListRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.RunSummary, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ran_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ran_at, input_path, first_date, last_date, days_walked, total_expected, total_observed, percent, gap_days
		FROM runs
		WHERE %s
		ORDER BY ran_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunSummary
	for rows.Next() {
		var run model.RunSummary
		var ranAt, firstDate, lastDate string
		if err := rows.Scan(&run.RunID, &ranAt, &run.InputPath, &firstDate, &lastDate,
			&run.DaysWalked, &run.TotalExpected, &run.TotalObserved, &run.Percent, &run.GapDays); err != nil {
			return nil, err
		}
		run.RanAt, err = time.Parse(time.RFC3339Nano, ranAt)
		if err != nil {
			return nil, err
		}
		run.FirstDate, err = time.Parse(counts.DateLayout, firstDate)
		if err != nil {
			return nil, err
		}
		run.LastDate, err = time.Parse(counts.DateLayout, lastDate)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
