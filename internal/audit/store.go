package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/wesandradealves/smartmart-gateway/pkg/config"
	"github.com/wesandradealves/smartmart-gateway/pkg/logger"
)

// Entry is a recorded authentication event.
type Entry struct {
	ID         int64
	Event      string // login, logout
	Identifier string
	Success    bool
	Detail     string
	CreatedAt  time.Time
}

// NewConnection opens the audit database based on configuration.
func NewConnection(cfg *config.Config) (*sql.DB, error) {
	var driverName string

	switch cfg.Database.Type {
	case "postgres":
		driverName = "postgres"
	case "sqlite":
		driverName = "sqlite3"
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}

	db, err := sql.Open(driverName, cfg.GetDatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	return db, nil
}

// Store records authentication events in the audit database.
type Store struct {
	db       *sql.DB
	postgres bool
	log      *logger.Logger
}

// NewStore creates an audit store and ensures the schema exists.
func NewStore(db *sql.DB, dbType string, log *logger.Logger) (*Store, error) {
	s := &Store{
		db:       db,
		postgres: dbType == "postgres",
		log:      log.WithComponent("audit"),
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("audit schema migration: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.postgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	query := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS login_attempts (
            id %s,
            event TEXT NOT NULL,
            identifier TEXT NOT NULL,
            success BOOLEAN NOT NULL,
            detail TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )
    `, idColumn)

	if _, err := s.db.Exec(query); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_login_attempts_identifier ON login_attempts (identifier, created_at)`)
	return err
}

// RecordAttempt inserts an audit entry. Failures are logged, never
// escalated: auditing must not break the login path.
func (s *Store) RecordAttempt(ctx context.Context, event, identifier string, success bool, detail string) {
	query := s.bind(`
        INSERT INTO login_attempts (event, identifier, success, detail, created_at)
        VALUES (?, ?, ?, ?, ?)
    `)
	if _, err := s.db.ExecContext(ctx, query, event, identifier, success, detail, time.Now().UTC()); err != nil {
		s.log.Error("failed to record auth event", "event", event, "error", err.Error())
	}
}

// RecentFailures counts failed login attempts for identifier since the
// given time.
func (s *Store) RecentFailures(ctx context.Context, identifier string, since time.Time) (int, error) {
	query := s.bind(`
        SELECT COUNT(*)
        FROM login_attempts
        WHERE event = ? AND identifier = ? AND success = ? AND created_at >= ?
    `)

	var count int
	err := s.db.QueryRowContext(ctx, query, "login", identifier, false, since).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// RecentEntries returns the latest audit entries, newest first.
func (s *Store) RecentEntries(ctx context.Context, limit int) ([]Entry, error) {
	query := s.bind(`
        SELECT id, event, identifier, success, detail, created_at
        FROM login_attempts
        ORDER BY created_at DESC
        LIMIT ?
    `)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(&e.ID, &e.Event, &e.Identifier, &e.Success, &e.Detail, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// bind rewrites ? placeholders to $n for postgres.
func (s *Store) bind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
