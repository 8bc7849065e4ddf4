package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"monedero/internal"
)

// DB is the review store used by the operator CLI. The labeling library
// itself never touches it; results are persisted here only so a human can
// audit and re-export past runs.
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  inputRef TEXT NOT NULL,
  total INTEGER NOT NULL,
  rule INTEGER NOT NULL,
  ai INTEGER NOT NULL,
  fallback INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS lines (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  lineNo INTEGER NOT NULL,
  rawLine TEXT NOT NULL,
  sanitized TEXT NOT NULL,
  simplified TEXT NOT NULL,
  confidence REAL NOT NULL,
  matchedRule TEXT,
  typeHint TEXT,
  source TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(runId, lineNo),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_lines_runId ON lines(runId);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(traceID, inputRef string, stats internal.RunStats) (int64, error) {
	result, err := d.conn.Exec(`
INSERT INTO runs (traceId, inputRef, total, rule, ai, fallback)
VALUES (?, ?, ?, ?, ?, ?)
`, traceID, inputRef, stats.Total, stats.Rule, stats.AI, stats.Fallback)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) InsertLines(runID int64, lines []internal.LabeledLine) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO lines (runId, lineNo, rawLine, sanitized, simplified, confidence, matchedRule, typeHint, source)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, line := range lines {
		if _, err := stmt.Exec(
			runID, line.LineNo, line.RawLine, line.Sanitized, line.Simplified,
			line.Confidence, line.MatchedRule, string(line.TypeHint), string(line.Source),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListRuns(limit int) ([]internal.RunRow, error) {
	rows, err := d.conn.Query(`
SELECT id, traceId, inputRef, total, rule, ai, fallback, createdAt
FROM runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRow
	for rows.Next() {
		var row internal.RunRow
		if err := rows.Scan(&row.ID, &row.TraceID, &row.InputRef, &row.Total, &row.Rule, &row.AI, &row.Fallback, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) GetRunLines(runID int64) ([]internal.LabeledLine, error) {
	rows, err := d.conn.Query(`
SELECT lineNo, rawLine, sanitized, simplified, confidence, matchedRule, typeHint, source
FROM lines WHERE runId = ? ORDER BY lineNo ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.LabeledLine
	for rows.Next() {
		var line internal.LabeledLine
		var typeHint, source string
		if err := rows.Scan(&line.LineNo, &line.RawLine, &line.Sanitized, &line.Simplified, &line.Confidence, &line.MatchedRule, &typeHint, &source); err != nil {
			return nil, err
		}
		line.TypeHint = internal.TypeHint(typeHint)
		line.Source = internal.ResultSource(source)
		out = append(out, line)
	}
	return out, rows.Err()
}
