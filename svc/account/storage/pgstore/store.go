// Package pgstore implements account.Repository on PostgreSQL.
package pgstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/accountworker/pkg/pg"
	"github.com/dmitrymomot/accountworker/svc/account"
)

// Migrations holds the goose migrations for the account schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// DBTX is the subset of pgx used by the store. Both *pgxpool.Pool and pgx.Tx satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a PostgreSQL account repository.
type Store struct {
	db DBTX
}

var _ account.Repository = (*Store)(nil)

// New creates a store on top of db.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg pg.Config, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	return pg.Migrate(ctx, pool, Migrations, cfg, log)
}

const createAccount = `
INSERT INTO accounts (id, email, first_name, last_name, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (s *Store) CreateAccount(ctx context.Context, a account.Account) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	if a.Status == "" {
		a.Status = account.InitialStatus
	}

	_, err := s.db.Exec(ctx, createAccount,
		a.ID, a.Email, a.FirstName, a.LastName, string(a.Status), a.CreatedAt, a.UpdatedAt)
	if pg.IsDuplicateKeyError(err) {
		return account.ErrAccountExists
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

const getAccount = `
SELECT id, email, first_name, last_name, status, created_at, updated_at
FROM accounts WHERE id = $1`

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (account.Account, error) {
	var (
		a      account.Account
		status string
	)
	err := s.db.QueryRow(ctx, getAccount, id).
		Scan(&a.ID, &a.Email, &a.FirstName, &a.LastName, &status, &a.CreatedAt, &a.UpdatedAt)
	if pg.IsNotFoundError(err) {
		return account.Account{}, account.ErrAccountNotFound
	}
	if err != nil {
		return account.Account{}, fmt.Errorf("select account: %w", err)
	}
	a.Status = account.Status(status)
	return a, nil
}

const setStatus = `
INSERT INTO accounts (id, status, created_at, updated_at)
VALUES ($1, $2, $3, $3)
ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`

func (s *Store) SetStatus(ctx context.Context, id uuid.UUID, status account.Status) error {
	if _, err := s.db.Exec(ctx, setStatus, id, string(status), time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert account status: %w", err)
	}
	return nil
}

const appendHistory = `
INSERT INTO account_history (event_id, account_id, event_type, action, applied_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (event_id) DO NOTHING`

func (s *Store) AppendHistory(ctx context.Context, e account.HistoryEntry) error {
	if e.AppliedAt.IsZero() {
		e.AppliedAt = time.Now().UTC()
	}
	if _, err := s.db.Exec(ctx, appendHistory,
		e.EventID, e.AccountID, string(e.EventType), e.Action, e.AppliedAt); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

const listHistory = `
SELECT event_id, account_id, event_type, action, applied_at
FROM account_history WHERE account_id = $1 ORDER BY seq`

func (s *Store) ListHistory(ctx context.Context, id uuid.UUID) ([]account.HistoryEntry, error) {
	rows, err := s.db.Query(ctx, listHistory, id)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	var out []account.HistoryEntry
	for rows.Next() {
		var (
			e         account.HistoryEntry
			eventType string
		)
		if err := rows.Scan(&e.EventID, &e.AccountID, &eventType, &e.Action, &e.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.EventType = account.EventType(eventType)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(errors.New("iterate history"), err)
	}
	return out, nil
}
