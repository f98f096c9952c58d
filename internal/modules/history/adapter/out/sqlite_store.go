package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"spinwheel/internal/modules/history/domain"
	historyout "spinwheel/internal/modules/history/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (historyout.Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS history (
  id TEXT PRIMARY KEY,
  at TEXT NOT NULL,
  at_ms INTEGER NOT NULL,
  winner_id TEXT NOT NULL,
  winner_name TEXT NOT NULL,
  winner_tag TEXT,
  winner_external_id TEXT,
  winner_weight REAL NOT NULL DEFAULT 1,
  prize TEXT
);
CREATE INDEX IF NOT EXISTS history_at_ms ON history (at_ms DESC);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create history table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Latest(ctx context.Context) (domain.Entry, bool, error) {
	entries, err := s.List(ctx, 1)
	if err != nil {
		return domain.Entry{}, false, err
	}
	if len(entries) == 0 {
		return domain.Entry{}, false, nil
	}
	return entries[0], true, nil
}

func (s *SQLiteStore) Append(ctx context.Context, entry domain.Entry) error {
	const stmt = `
INSERT INTO history (id, at, at_ms, winner_id, winner_name, winner_tag, winner_external_id, winner_weight, prize)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err := s.db.ExecContext(ctx, stmt,
		entry.ID,
		entry.At.Format(time.RFC3339Nano),
		entry.At.UnixMilli(),
		entry.Winner.ID,
		entry.Winner.Name,
		entry.Winner.Tag,
		entry.Winner.ExternalID,
		entry.Winner.Weight,
		entry.Prize,
	)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// List returns newest entries first; limit <= 0 means all.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	query := `
SELECT id, at, winner_id, winner_name, winner_tag, winner_external_id, winner_weight, prize
FROM history ORDER BY at_ms DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []domain.Entry
	for rows.Next() {
		var (
			e                 domain.Entry
			at                string
			tag, extID, prize sql.NullString
		)
		if err := rows.Scan(&e.ID, &at, &e.Winner.ID, &e.Winner.Name, &tag, &extID, &e.Winner.Weight, &prize); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("parse history time %q: %w", at, err)
		}
		e.At = parsed
		e.Winner.Tag = tag.String
		e.Winner.ExternalID = extID.String
		e.Prize = prize.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
