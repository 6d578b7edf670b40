// Package store handles SQLite persistence of evaluation runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/keycost/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for run history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate db: %w", err)
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
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			layout_name TEXT NOT NULL,
			layout TEXT NOT NULL,
			corpus TEXT NOT NULL,
			total_cost REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_metrics (
			run_id TEXT NOT NULL,
			metric TEXT NOT NULL,
			name TEXT NOT NULL,
			weight REAL NOT NULL,
			raw_cost REAL NOT NULL,
			cost REAL NOT NULL,
			included INTEGER NOT NULL,
			excluded INTEGER NOT NULL,
			PRIMARY KEY (run_id, metric)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_layout_name ON runs(layout_name);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a run and its per-metric results. An empty run ID is
// replaced with a fresh UUID, and a zero CreatedAt with the current time.
func (s *Store) InsertRun(ctx context.Context, run model.RunRecord, metrics []model.MetricRecord) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, layout_name, layout, corpus, total_cost)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		formatTime(run.CreatedAt),
		run.LayoutName,
		run.Layout,
		run.Corpus,
		run.Total,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	if len(metrics) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO run_metrics (run_id, metric, name, weight, raw_cost, cost, included, excluded)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return "", fmt.Errorf("failed to prepare metric insert: %w", err)
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, m := range metrics {
			if _, err = stmt.ExecContext(ctx, run.ID, m.Kind, m.Name, m.Weight, m.RawCost, m.Cost, m.Included, m.Excluded); err != nil {
				return "", fmt.Errorf("failed to insert metric %s: %w", m.Kind, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.ID, nil
}

// ListRuns returns runs matching the history filter, oldest first. With Last
// set only the most recent Last runs are returned.
func (s *Store) ListRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.RunRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Layout != "" {
		clauses = append(clauses, "(layout_name = ? OR layout = ?)")
		args = append(args, cfg.Layout, cfg.Layout)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	limit := -1
	if cfg.Last > 0 {
		limit = cfg.Last
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT id, created_at, layout_name, layout, corpus, total_cost
		FROM runs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT ?`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunRecord
	for rows.Next() {
		var run model.RunRecord
		var createdAt string
		if err := rows.Scan(&run.ID, &createdAt, &run.LayoutName, &run.Layout, &run.Corpus, &run.Total); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, err
		}
		run.CreatedAt = parsed
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}

// ListRunMetrics returns the stored metric results of one run.
func (s *Store) ListRunMetrics(ctx context.Context, runID string) ([]model.MetricRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, metric, name, weight, raw_cost, cost, included, excluded
		 FROM run_metrics
		 WHERE run_id = ?
		 ORDER BY rowid ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run metrics: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.MetricRecord
	for rows.Next() {
		var m model.MetricRecord
		if err := rows.Scan(&m.RunID, &m.Kind, &m.Name, &m.Weight, &m.RawCost, &m.Cost, &m.Included, &m.Excluded); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListMetricCosts returns the weighted cost of every metric for the given runs,
// keyed by run ID and then metric kind.
func (s *Store) ListMetricCosts(ctx context.Context, runIDs []string) (map[string]map[string]float64, error) {
	result := map[string]map[string]float64{}
	if len(runIDs) == 0 {
		return result, nil
	}
	placeholders := make([]string, len(runIDs))
	args := make([]any, len(runIDs))
	for i, id := range runIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT run_id, metric, cost
		FROM run_metrics
		WHERE run_id IN (%s)`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric costs: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	for rows.Next() {
		var runID, kind string
		var cost float64
		if err := rows.Scan(&runID, &kind, &cost); err != nil {
			return nil, err
		}
		if _, ok := result[runID]; !ok {
			result[runID] = map[string]float64{}
		}
		result[runID][kind] = cost
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// timeLayout is fixed width so that created_at compares as text in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
