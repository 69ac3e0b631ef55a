// Package sqlite keeps login audit records in a local database file for
// single-host deployments without Postgres.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"trivia-quiz-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_logins (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      TEXT NOT NULL,
    provider     TEXT NOT NULL,
    name         TEXT NOT NULL DEFAULT '',
    email        TEXT NOT NULL DEFAULT '',
    logged_in_at TEXT NOT NULL
);`

// AuditStore appends login records to a SQLite file.
type AuditStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(path string) (*AuditStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// One writer at a time; sqlite serializes anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create sqlite schema")
	}
	return &AuditStore{db: db}, nil
}

func (s *AuditStore) RecordLogin(ctx context.Context, record domain.LoginRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_logins (user_id, provider, name, email, logged_in_at) VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.Provider, record.Name, record.Email, record.LoggedInAt.UTC().Format(time.RFC3339Nano))
	return errors.Wrap(err, "insert login record")
}

// RecentLogins returns up to limit records, newest first.
func (s *AuditStore) RecentLogins(ctx context.Context, limit int) ([]domain.LoginRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, provider, name, email, logged_in_at FROM user_logins ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query login records")
	}
	defer rows.Close()

	var out []domain.LoginRecord
	for rows.Next() {
		var (
			rec domain.LoginRecord
			at  string
		)
		if err := rows.Scan(&rec.ID, &rec.Provider, &rec.Name, &rec.Email, &at); err != nil {
			return nil, errors.Wrap(err, "scan login record")
		}
		rec.LoggedInAt, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, errors.Wrap(err, "parse login time")
		}
		out = append(out, rec)
	}
	return out, errors.Wrap(rows.Err(), "iterate login records")
}

func (s *AuditStore) Close() error {
	return s.db.Close()
}
