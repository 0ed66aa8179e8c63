package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"worktimer/internal/core/model"

	_ "modernc.org/sqlite"
)

const historyFileName = "history.db"

// HistoryPath returns the history database inside dir.
func HistoryPath(dir string) string {
	return filepath.Join(dir, historyFileName)
}

// History stores finished sessions in SQLite.
type History struct {
	mu   sync.Mutex
	conn *sql.DB
}

// OpenHistory opens the history database, creating it and its directory when
// missing, and applies pending migrations.
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	history := &History{conn: conn}
	if err := history.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return history, nil
}

// Close closes the database connection.
func (history *History) Close() error {
	history.mu.Lock()
	defer history.mu.Unlock()
	return history.conn.Close()
}

func (history *History) migrate() error {
	if _, err := history.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := history.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version    int
		statements []string
	}{
		{
			version: 1,
			statements: []string{`
				CREATE TABLE sessions (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					started_at INTEGER NOT NULL,
					ended_at INTEGER NOT NULL,
					work_seconds INTEGER NOT NULL,
					rest_seconds INTEGER NOT NULL,
					target_seconds INTEGER NOT NULL,
					worked_ms INTEGER NOT NULL,
					completed INTEGER NOT NULL
				)`,
				"CREATE INDEX idx_sessions_started_at ON sessions(started_at)",
			},
		},
	}

	for _, migration := range migrations {
		if migration.version <= currentVersion {
			continue
		}
		tx, err := history.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", migration.version, err)
		}
		for _, statement := range migration.statements {
			if _, err := tx.Exec(statement); err != nil {
				tx.Rollback()
				return fmt.Errorf("apply migration %d: %w", migration.version, err)
			}
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", migration.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", migration.version, err)
		}
	}
	return nil
}

// Record stores a finished session.
func (history *History) Record(ctx context.Context, session model.Session) error {
	history.mu.Lock()
	defer history.mu.Unlock()

	_, err := history.conn.ExecContext(ctx, `
		INSERT INTO sessions (id, name, started_at, ended_at, work_seconds, rest_seconds, target_seconds, worked_ms, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		session.ID,
		session.Name,
		session.StartedAt.UnixMilli(),
		session.EndedAt.UnixMilli(),
		int64(session.WorkTime/time.Second),
		int64(session.RestTime/time.Second),
		int64(session.Target/time.Second),
		session.Worked.Milliseconds(),
		session.Completed,
	)
	if err != nil {
		return fmt.Errorf("record session %s: %w", session.ID, err)
	}
	return nil
}

// Recent returns up to limit sessions, newest first.
func (history *History) Recent(ctx context.Context, limit int) ([]model.Session, error) {
	if limit <= 0 {
		limit = 20
	}

	history.mu.Lock()
	defer history.mu.Unlock()

	rows, err := history.conn.QueryContext(ctx, `
		SELECT id, name, started_at, ended_at, work_seconds, rest_seconds, target_seconds, worked_ms, completed
		FROM sessions
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var (
			session                     model.Session
			startedAt, endedAt          int64
			workSeconds, restSeconds    int64
			targetSeconds, workedMillis int64
		)
		if err := rows.Scan(&session.ID, &session.Name, &startedAt, &endedAt, &workSeconds, &restSeconds, &targetSeconds, &workedMillis, &session.Completed); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.StartedAt = time.UnixMilli(startedAt)
		session.EndedAt = time.UnixMilli(endedAt)
		session.WorkTime = time.Duration(workSeconds) * time.Second
		session.RestTime = time.Duration(restSeconds) * time.Second
		session.Target = time.Duration(targetSeconds) * time.Second
		session.Worked = time.Duration(workedMillis) * time.Millisecond
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// TotalWorked sums the work time of sessions started at or after since.
func (history *History) TotalWorked(ctx context.Context, since time.Time) (time.Duration, error) {
	history.mu.Lock()
	defer history.mu.Unlock()

	var workedMillis int64
	row := history.conn.QueryRowContext(ctx, "SELECT COALESCE(SUM(worked_ms), 0) FROM sessions WHERE started_at >= ?", since.UnixMilli())
	if err := row.Scan(&workedMillis); err != nil {
		return 0, fmt.Errorf("sum worked time: %w", err)
	}
	return time.Duration(workedMillis) * time.Millisecond, nil
}
