package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStorage persists sessions to a local SQLite file, the durable
// counterpart of the browser's local storage. One row per session field.
type SQLiteStorage struct {
	db *sqlx.DB
}

// NewSQLiteStorage opens (or creates) the session database file.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	// SQLite allows a single writer; serialize through one connection.
	db.SetMaxOpenConns(1)
	return &SQLiteStorage{db: db}, nil
}

// DB exposes the underlying handle for migrations.
func (s *SQLiteStorage) DB() *sql.DB {
	return s.db.DB
}

func (s *SQLiteStorage) Get(ctx context.Context, sid, field string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value,
		`SELECT value FROM session_entries WHERE session_id = ? AND field = ?`, sid, field)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLiteStorage) GetAll(ctx context.Context, sid string) (map[string]string, error) {
	rows := []struct {
		Field string `db:"field"`
		Value string `db:"value"`
	}{}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT field, value FROM session_entries WHERE session_id = ?`, sid)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Field] = r.Value
	}
	return out, nil
}

func (s *SQLiteStorage) SetAll(ctx context.Context, sid string, fields map[string]string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for field, value := range fields {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO session_entries (session_id, field, value, updated_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (session_id, field) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			sid, field, value, now)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStorage) Delete(ctx context.Context, sid string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	query, args, err := sqlx.In(
		`DELETE FROM session_entries WHERE session_id = ? AND field IN (?)`, sid, fields)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	return err
}

// Close closes the database handle.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
