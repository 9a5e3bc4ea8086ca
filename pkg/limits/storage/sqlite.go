package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteBackend implements Backend using SQLite.
// It provides durable storage for rate-limit windows and is suitable for
// single-instance deployments where a restart should not reset every
// client's request count.
//
// The database uses a write-ahead log (WAL) and a single writer connection.
type SQLiteBackend struct {
	db        *sql.DB
	dbPath    string
	mu        sync.Mutex
	closeOnce sync.Once

	saveStmt    *sql.Stmt
	deleteStmt  *sql.Stmt
	cleanupStmt *sql.Stmt
}

// NewSQLiteBackend opens (or creates) a SQLite database at dbPath.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	backend := &SQLiteBackend{
		db:     db,
		dbPath: dbPath,
	}

	if err := backend.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := backend.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return backend, nil
}

func (s *SQLiteBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rate_limit_records (
		client_key TEXT PRIMARY KEY,
		count INTEGER NOT NULL,
		window_start INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_window_start ON rate_limit_records(window_start);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteBackend) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO rate_limit_records (client_key, count, window_start)
		VALUES (?, ?, ?)
		ON CONFLICT (client_key) DO UPDATE SET
			count = excluded.count,
			window_start = excluded.window_start
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`
		DELETE FROM rate_limit_records WHERE client_key = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	s.cleanupStmt, err = s.db.Prepare(`
		DELETE FROM rate_limit_records WHERE window_start < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare cleanup statement: %w", err)
	}

	return nil
}

// LoadAll returns all persisted records.
func (s *SQLiteBackend) LoadAll() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT client_key, count, window_start FROM rate_limit_records`)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			key         string
			count       int
			windowStart int64
		)
		if err := rows.Scan(&key, &count, &windowStart); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, Record{
			Key:         key,
			Count:       count,
			WindowStart: time.Unix(windowStart, 0),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// Save persists a record, replacing any existing record for the key.
func (s *SQLiteBackend) Save(rec Record) error {
	if rec.Key == "" {
		return fmt.Errorf("record key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.saveStmt.Exec(rec.Key, rec.Count, rec.WindowStart.Unix())
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// Delete removes the record for a key.
func (s *SQLiteBackend) Delete(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.deleteStmt.Exec(key); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// DeleteExpired removes records whose window opened before the cutoff.
func (s *SQLiteBackend) DeleteExpired(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.cleanupStmt.Exec(cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired records: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(deleted), nil
}

// Close releases any resources held by the backend.
// Close is idempotent and safe to call multiple times.
func (s *SQLiteBackend) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		if s.saveStmt != nil {
			s.saveStmt.Close()
		}
		if s.deleteStmt != nil {
			s.deleteStmt.Close()
		}
		if s.cleanupStmt != nil {
			s.cleanupStmt.Close()
		}
		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}
