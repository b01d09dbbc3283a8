package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"pybundle/internal/config"
)

// Record is one finished session as persisted.
type Record struct {
	SessionID   string
	Script      string
	OutputDir   string
	Mode        string
	Runtime     string
	Name        string
	Outcome     string
	ExitCode    int
	SignatureID string
	Advisory    string
	Duration    time.Duration
	FinishedAt  time.Time
}

// Store persists finished build sessions in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryDBPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Record inserts one finished session.
func (s *Store) Record(ctx context.Context, rec Record) error {
	if rec.SessionID == "" {
		return fmt.Errorf("record requires a session id")
	}
	finished := rec.FinishedAt
	if finished.IsZero() {
		finished = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (
            session_id, script, output_dir, mode, runtime, name,
            outcome, exit_code, signature_id, advisory, duration_ms, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.Script,
		rec.OutputDir,
		rec.Mode,
		rec.Runtime,
		rec.Name,
		rec.Outcome,
		rec.ExitCode,
		nullableString(rec.SignatureID),
		nullableString(rec.Advisory),
		rec.Duration.Milliseconds(),
		finished.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// List returns the most recent sessions, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT session_id, script, output_dir, mode, runtime, name,
                outcome, exit_code, signature_id, advisory, duration_ms, finished_at
         FROM sessions ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}

// Get returns one session by id.
func (s *Store) Get(ctx context.Context, sessionID string) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT session_id, script, output_dir, mode, runtime, name,
                outcome, exit_code, signature_id, advisory, duration_ms, finished_at
         FROM sessions WHERE session_id = ?`,
		sessionID,
	)
	rec, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %s not found", sessionID)
		}
		return nil, err
	}
	return &rec, nil
}

// Clear removes all persisted sessions.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions")
	if err != nil {
		return 0, fmt.Errorf("clear sessions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count cleared sessions: %w", err)
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var signature, advisory sql.NullString
	var durationMS int64
	var finishedAt string
	if err := row.Scan(
		&rec.SessionID,
		&rec.Script,
		&rec.OutputDir,
		&rec.Mode,
		&rec.Runtime,
		&rec.Name,
		&rec.Outcome,
		&rec.ExitCode,
		&signature,
		&advisory,
		&durationMS,
		&finishedAt,
	); err != nil {
		return Record{}, err
	}
	rec.SignatureID = signature.String
	rec.Advisory = advisory.String
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	if parsed, err := time.Parse(time.RFC3339Nano, finishedAt); err == nil {
		rec.FinishedAt = parsed
	}
	return rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
