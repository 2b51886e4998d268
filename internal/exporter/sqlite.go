package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"quiver/internal/ledger"
)

// SQLiteExporter writes the ledger into a SQLite database. Exporting into an
// existing archive refreshes it: rows are upserted in one transaction.
type SQLiteExporter struct{}

func (s *SQLiteExporter) Name() string      { return "sqlite" }
func (s *SQLiteExporter) Extension() string { return "db" }

var sqliteSchema = []string{`
CREATE TABLE IF NOT EXISTS days (
  date TEXT PRIMARY KEY,
  arrows INTEGER NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS objectives (
  id TEXT PRIMARY KEY,
  period TEXT NOT NULL,
  target INTEGER NOT NULL,
  start_date TEXT NOT NULL,
  end_date TEXT NOT NULL,
  active INTEGER NOT NULL,
  created_at TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`,
}

// Export upserts every day and the objective into the database at path.
func (s *SQLiteExporter) Export(ctx context.Context, l *ledger.Ledger, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, ddl := range sqliteSchema {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	const upsertDay = `
INSERT INTO days (date, arrows) VALUES (?, ?)
ON CONFLICT(date) DO UPDATE SET arrows=excluded.arrows;
`
	stmt, err := tx.PrepareContext(ctx, upsertDay)
	if err != nil {
		return fmt.Errorf("prepare days: %w", err)
	}
	defer stmt.Close()
	for _, r := range l.Records() {
		if _, err := stmt.ExecContext(ctx, r.Date.String(), r.Arrows); err != nil {
			return fmt.Errorf("upsert day %s: %w", r.Date, err)
		}
	}

	if o := l.Objective; o != nil {
		const upsertObjective = `
INSERT INTO objectives (id, period, target, start_date, end_date, active, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  period=excluded.period,
  target=excluded.target,
  start_date=excluded.start_date,
  end_date=excluded.end_date,
  active=excluded.active;
`
		_, err := tx.ExecContext(ctx, upsertObjective,
			o.ID, o.Period.String(), o.Target, o.Start.String(), o.End.String(),
			boolToInt(o.Active), o.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("upsert objective: %w", err)
		}
	}

	meta := map[string]string{
		"current_date": l.CurrentDate.String(),
		"current_sum":  fmt.Sprint(l.CurrentSum),
		"last_sum":     fmt.Sprint(l.LastSum),
		"exported_at":  time.Now().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
			k, v); err != nil {
			return fmt.Errorf("upsert meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
