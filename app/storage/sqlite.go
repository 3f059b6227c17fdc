package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite keeps the ledger in a single database file. Each operation is one statement,
// which sqlite executes atomically.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(ctx context.Context, filePath string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite3 database: %w", err)
	}

	client := &SQLite{
		db: db,
	}

	err = client.init(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing sqlite3 database: %w", err)
	}

	return client, nil
}

func (c *SQLite) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *SQLite) Close() error {
	return c.db.Close()
}

func (c *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := c.db.QueryRowContext(
		ctx,
		"SELECT value FROM kv WHERE key = ?",
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, err
	}

	return value, true, nil
}

func (c *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := c.db.ExecContext(
		ctx,
		`INSERT INTO kv (key, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE
			    SET value = ?, updated_at = CURRENT_TIMESTAMP`,
		key, value, value,
	)
	return err
}

func (c *SQLite) AddToSet(ctx context.Context, key, member string) error {
	_, err := c.db.ExecContext(
		ctx,
		`INSERT INTO set_members (key, member, created_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key, member) DO NOTHING`,
		key, member,
	)
	return err
}

func (c *SQLite) RemoveFromSet(ctx context.Context, key, member string) (bool, error) {
	result, err := c.db.ExecContext(
		ctx,
		"DELETE FROM set_members WHERE key = ? AND member = ?",
		key, member,
	)
	if err != nil {
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return n > 0, nil
}

func (c *SQLite) IsMember(ctx context.Context, key, member string) (bool, error) {
	var exists bool
	err := c.db.QueryRowContext(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM set_members WHERE key = ? AND member = ?)",
		key, member,
	).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

//go:embed init.sql
var initQuery string

func (c *SQLite) init(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, initQuery)
	return err
}
