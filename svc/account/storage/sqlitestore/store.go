// Package sqlitestore implements account.Repository on an embedded SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/dmitrymomot/accountworker/svc/account"
)

//go:embed schema.sql
var schema string

// Store persists accounts in SQLite.
type Store struct {
	db *sql.DB
}

var _ account.Repository = (*Store)(nil)

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// a single writer avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Healthcheck pings the database.
func (s *Store) Healthcheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) CreateAccount(ctx context.Context, a account.Account) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	if a.Status == "" {
		a.Status = account.InitialStatus
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, first_name, last_name, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.Email, a.FirstName, a.LastName, string(a.Status),
		toMillis(a.CreatedAt), toMillis(a.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return account.ErrAccountExists
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (account.Account, error) {
	var (
		a                    account.Account
		rawID, status        string
		createdAt, updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, first_name, last_name, status, created_at, updated_at
		 FROM accounts WHERE id = ?`, id.String(),
	).Scan(&rawID, &a.Email, &a.FirstName, &a.LastName, &status, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return account.Account{}, account.ErrAccountNotFound
	}
	if err != nil {
		return account.Account{}, fmt.Errorf("select account: %w", err)
	}

	if a.ID, err = uuid.Parse(rawID); err != nil {
		return account.Account{}, fmt.Errorf("parse account id: %w", err)
	}
	a.Status = account.Status(status)
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return a, nil
}

func (s *Store) SetStatus(ctx context.Context, id uuid.UUID, status account.Status) error {
	now := toMillis(time.Now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, status, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		id.String(), string(status), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert account status: %w", err)
	}
	return nil
}

func (s *Store) AppendHistory(ctx context.Context, e account.HistoryEntry) error {
	if e.AppliedAt.IsZero() {
		e.AppliedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account_history (event_id, account_id, event_type, action, applied_at)
		 VALUES (?, ?, ?, ?, ?) ON CONFLICT (event_id) DO NOTHING`,
		e.EventID.String(), e.AccountID.String(), string(e.EventType), e.Action, toMillis(e.AppliedAt),
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func (s *Store) ListHistory(ctx context.Context, id uuid.UUID) ([]account.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, account_id, event_type, action, applied_at
		 FROM account_history WHERE account_id = ? ORDER BY seq`, id.String())
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	var out []account.HistoryEntry
	for rows.Next() {
		var (
			e                          account.HistoryEntry
			eventID, accountID, evType string
			appliedAt                  int64
		)
		if err := rows.Scan(&eventID, &accountID, &evType, &e.Action, &appliedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if e.EventID, err = uuid.Parse(eventID); err != nil {
			return nil, fmt.Errorf("parse event id: %w", err)
		}
		if e.AccountID, err = uuid.Parse(accountID); err != nil {
			return nil, fmt.Errorf("parse account id: %w", err)
		}
		e.EventType = account.EventType(evType)
		e.AppliedAt = fromMillis(appliedAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
