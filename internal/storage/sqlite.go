// Package storage provides SQLite-based persistence for simulation run summaries.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// RunRecord is the summary of one headless run. World state is never stored.
type RunRecord struct {
	ID           int64
	Scenario     string
	Frames       int
	Delta        float64 // seconds per frame
	Bodies       int
	SettledFrame int // first frame after which no body moved; -1 if never
	FinalX       float64
	FinalY       float64
	Duration     time.Duration // wall-clock time of the run
	CreatedAt    time.Time
}

// Settled reports whether every body came to rest during the run.
func (r RunRecord) Settled() bool {
	return r.SettledFrame >= 0
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scenario TEXT NOT NULL,
			frames INTEGER NOT NULL,
			delta REAL NOT NULL,
			bodies INTEGER NOT NULL DEFAULT 0,
			settled_frame INTEGER NOT NULL DEFAULT -1,
			final_x REAL NOT NULL DEFAULT 0,
			final_y REAL NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run summary. Returns the ID of the inserted record.
func (s *Store) SaveRun(r RunRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs
		 (scenario, frames, delta, bodies, settled_frame, final_x, final_y, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Scenario,
		r.Frames,
		r.Delta,
		r.Bodies,
		r.SettledFrame,
		r.FinalX,
		r.FinalY,
		r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the most recent runs, newest first.
// An empty scenario matches every scenario.
func (s *Store) RecentRuns(scenario string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, scenario, frames, delta, bodies, settled_frame, final_x, final_y, duration_ms, created_at
		 FROM runs
		 WHERE ? = '' OR scenario = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		scenario, scenario, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			r          RunRecord
			durationMS int64
			createdAt  any
		)
		if err := rows.Scan(
			&r.ID,
			&r.Scenario,
			&r.Frames,
			&r.Delta,
			&r.Bodies,
			&r.SettledFrame,
			&r.FinalX,
			&r.FinalY,
			&durationMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// ScenarioStats contains aggregated statistics for a scenario.
type ScenarioStats struct {
	Scenario    string
	Runs        int
	SettledRuns int
	AvgSettled  float64 // mean settled frame over settled runs
	TotalFrames int64
	LastRun     time.Time
}

// ScenarioStats retrieves aggregated statistics for a specific scenario.
func (s *Store) ScenarioStats(scenario string) (*ScenarioStats, error) {
	stats := &ScenarioStats{Scenario: scenario}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN settled_frame >= 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(AVG(CASE WHEN settled_frame >= 0 THEN settled_frame END), 0),
		        COALESCE(SUM(frames), 0)
		 FROM runs WHERE scenario = ?`,
		scenario,
	).Scan(&stats.Runs, &stats.SettledRuns, &stats.AvgSettled, &stats.TotalFrames)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scenario stats: %w", err)
	}

	var lastRun any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE scenario = ? ORDER BY id DESC LIMIT 1`,
		scenario,
	).Scan(&lastRun)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last run: %w", err)
	}
	if err == nil {
		stats.LastRun = parseTime(lastRun)
	}

	return stats, nil
}

// ClearRuns deletes the runs of a scenario, or every run when scenario is empty.
// Returns the number of deleted rows.
func (s *Store) ClearRuns(scenario string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM runs WHERE ? = '' OR scenario = ?", scenario, scenario)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count deleted rows: %w", err)
	}
	return n, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
