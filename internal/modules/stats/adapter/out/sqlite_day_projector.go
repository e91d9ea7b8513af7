package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pomo/internal/modules/stats/domain"
	statsout "pomo/internal/modules/stats/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteDayProjector maintains the queryable per-day read model. It is a
// projection of the cache, rebuilt wholesale on every write; dropping the
// database loses nothing.
type SQLiteDayProjector struct {
	db *sql.DB
}

func NewSQLiteDayProjector(dbPath string) (statsout.DayProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteDayProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

func (s *SQLiteDayProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS days (
  date TEXT PRIMARY KEY,
  count INTEGER NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create days table: %w", err)
	}
	return nil
}

func (s *SQLiteDayProjector) ProjectHistory(ctx context.Context, history domain.History) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin projection: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM days`); err != nil {
		return fmt.Errorf("clear days: %w", err)
	}
	const stmt = `
INSERT INTO days (date, count, updated_at) VALUES (?, ?, ?)
ON CONFLICT(date) DO UPDATE SET count=excluded.count, updated_at=excluded.updated_at;
`
	now := time.Now().Format(time.RFC3339)
	for _, record := range history {
		if _, err := tx.ExecContext(ctx, stmt, record.Date, record.Count, now); err != nil {
			return fmt.Errorf("upsert day %s: %w", record.Date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit projection: %w", err)
	}
	return nil
}

func (s *SQLiteDayProjector) ListDays(ctx context.Context, limit int) ([]domain.Record, error) {
	const query = `SELECT date, count FROM days ORDER BY date DESC LIMIT ?`
	if limit <= 0 {
		limit = 364
	}
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []domain.Record{}
	for rows.Next() {
		record := domain.Record{}
		if err := rows.Scan(&record.Date, &record.Count); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate days: %w", err)
	}
	return out, nil
}

func (s *SQLiteDayProjector) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM days`); err != nil {
		return fmt.Errorf("reset days: %w", err)
	}
	return nil
}
