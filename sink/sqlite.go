package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS solutions (
		id TEXT PRIMARY KEY,
		signature TEXT NOT NULL,
		words TEXT NOT NULL,
		letter_sets TEXT NOT NULL,
		leftover TEXT NOT NULL DEFAULT '',
		found_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_solutions_found_at ON solutions(found_at);
`

// SQLiteSink stores solutions in a SQLite database. A solution already in
// the table is left alone, so resumed or repeated runs can share a file.
type SQLiteSink struct {
	conn *sql.DB
	path string
}

func OpenSQLite(path string) (*SQLiteSink, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open solutions database: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize solutions schema: %w", err)
	}
	return &SQLiteSink{conn: conn, path: path}, nil
}

func (s *SQLiteSink) Write(ctx context.Context, r Record) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT OR IGNORE INTO solutions (id, signature, words, letter_sets, leftover, found_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.Signature,
		strings.Join(r.Words, " "),
		strings.Join(r.LetterSets, " "),
		r.Leftover,
		r.FoundAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to store solution %s: %w", r.Signature, err)
	}
	return nil
}

// Count returns the number of stored solutions.
func (s *SQLiteSink) Count(ctx context.Context) (int, error) {
	var n int
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM solutions").Scan(&n)
	return n, err
}

// List returns up to limit stored solutions, oldest first. A limit of zero
// or less returns all of them.
func (s *SQLiteSink) List(ctx context.Context, limit int) ([]Record, error) {
	query := "SELECT id, signature, words, letter_sets, leftover, found_at FROM solutions ORDER BY found_at, id"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var words, sets, foundAt string
		if err := rows.Scan(&r.ID, &r.Signature, &words, &sets, &r.Leftover, &foundAt); err != nil {
			return nil, err
		}
		r.Words = strings.Fields(words)
		r.LetterSets = strings.Fields(sets)
		r.FoundAt, err = time.Parse(time.RFC3339Nano, foundAt)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteSink) Close() error {
	return s.conn.Close()
}
