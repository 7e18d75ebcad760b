package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// nullStr converts a sql.NullString to a plain string (empty if null).
func nullStr(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path and runs migrations.
// Creates the parent directory (e.g. .driftwood) if it does not exist.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	var v int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", schemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case v != schemaVersion:
		return fmt.Errorf("unsupported store schema version %d (want %d)", v, schemaVersion)
	}
	return nil
}

// Close closes the underlying database.
func (s *SqlStore) Close() error { return s.db.Close() }

func (s *SqlStore) CreateSuite(scenario, planner string) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO suites(scenario, planner, created_at) VALUES(?, ?, ?)",
		scenario, planner, nowUTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("create suite: %w", err)
	}
	return res.LastInsertId()
}

func (s *SqlStore) FinishSuite(suiteID int64, trials int, accuracy float64) error {
	res, err := s.db.Exec(
		"UPDATE suites SET trials = ?, accuracy = ? WHERE id = ?",
		trials, accuracy, suiteID,
	)
	if err != nil {
		return fmt.Errorf("finish suite %d: %w", suiteID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("finish suite %d: not found", suiteID)
	}
	return nil
}

func (s *SqlStore) GetSuite(suiteID int64) (*Suite, error) {
	row := s.db.QueryRow(
		"SELECT id, scenario, planner, trials, accuracy, created_at FROM suites WHERE id = ?",
		suiteID,
	)
	var su Suite
	err := row.Scan(&su.ID, &su.Scenario, &su.Planner, &su.Trials, &su.Accuracy, &su.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("suite %d: not found", suiteID)
	}
	if err != nil {
		return nil, fmt.Errorf("get suite %d: %w", suiteID, err)
	}
	return &su, nil
}

func (s *SqlStore) ListSuites() ([]*Suite, error) {
	rows, err := s.db.Query(
		"SELECT id, scenario, planner, trials, accuracy, created_at FROM suites ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("list suites: %w", err)
	}
	defer rows.Close()

	var out []*Suite
	for rows.Next() {
		var su Suite
		if err := rows.Scan(&su.ID, &su.Scenario, &su.Planner, &su.Trials, &su.Accuracy, &su.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan suite: %w", err)
		}
		out = append(out, &su)
	}
	return out, rows.Err()
}

func (s *SqlStore) SaveTrial(t *Trial) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO trials(suite_id, seq, seed, variants, plan_json, skips, pass, violations, error, duration_ms)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.SuiteID, t.Seq, t.Seed, t.Variants, t.PlanJSON, t.Skips, boolInt(t.Pass), t.Violations, t.Error, t.DurationMs,
	)
	if err != nil {
		return 0, fmt.Errorf("save trial (suite %d seq %d): %w", t.SuiteID, t.Seq, err)
	}
	return res.LastInsertId()
}

func (s *SqlStore) ListTrials(suiteID int64) ([]*Trial, error) {
	rows, err := s.db.Query(
		`SELECT id, suite_id, seq, seed, variants, plan_json, skips, pass, violations, error, duration_ms
		 FROM trials WHERE suite_id = ? ORDER BY seq`,
		suiteID,
	)
	if err != nil {
		return nil, fmt.Errorf("list trials for suite %d: %w", suiteID, err)
	}
	defer rows.Close()

	var out []*Trial
	for rows.Next() {
		var t Trial
		var pass int
		var errStr sql.NullString
		if err := rows.Scan(&t.ID, &t.SuiteID, &t.Seq, &t.Seed, &t.Variants, &t.PlanJSON,
			&t.Skips, &pass, &t.Violations, &errStr, &t.DurationMs); err != nil {
			return nil, fmt.Errorf("scan trial: %w", err)
		}
		t.Pass = pass != 0
		t.Error = nullStr(errStr)
		out = append(out, &t)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ Store = (*SqlStore)(nil)
