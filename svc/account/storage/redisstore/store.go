// Package redisstore implements account.Repository on Redis.
//
// Each account is a hash under "<prefix>:account:<id>". Applied commands are
// kept in a list "<prefix>:account:<id>:history" guarded by the set
// "<prefix>:account:<id>:applied" of event ids, updated atomically by a script.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/accountworker/svc/account"
)

// createScript inserts the account hash only when the key does not exist.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return 1
`)

// appendScript pushes a history entry once per event id.
var appendScript = redis.NewScript(`
if redis.call('SADD', KEYS[1], ARGV[1]) == 1 then
	redis.call('RPUSH', KEYS[2], ARGV[2])
	return 1
end
return 0
`)

// Store persists accounts in Redis.
type Store struct {
	client redis.UniversalClient
	prefix string
}

var _ account.Repository = (*Store)(nil)

// New creates a store. Keys are namespaced with prefix.
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "accountworker"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) accountKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:account:%s", s.prefix, id)
}

func (s *Store) historyKey(id uuid.UUID) string {
	return s.accountKey(id) + ":history"
}

func (s *Store) appliedKey(id uuid.UUID) string {
	return s.accountKey(id) + ":applied"
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

	created, err := createScript.Run(ctx, s.client, []string{s.accountKey(a.ID)},
		"email", a.Email,
		"first_name", a.FirstName,
		"last_name", a.LastName,
		"status", string(a.Status),
		"created_at", a.CreatedAt.UnixMilli(),
		"updated_at", a.UpdatedAt.UnixMilli(),
	).Int()
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	if created == 0 {
		return account.ErrAccountExists
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (account.Account, error) {
	fields, err := s.client.HGetAll(ctx, s.accountKey(id)).Result()
	if err != nil {
		return account.Account{}, fmt.Errorf("get account: %w", err)
	}
	if len(fields) == 0 {
		return account.Account{}, account.ErrAccountNotFound
	}

	return account.Account{
		ID:        id,
		Email:     fields["email"],
		FirstName: fields["first_name"],
		LastName:  fields["last_name"],
		Status:    account.Status(fields["status"]),
		CreatedAt: parseMillis(fields["created_at"]),
		UpdatedAt: parseMillis(fields["updated_at"]),
	}, nil
}

func (s *Store) SetStatus(ctx context.Context, id uuid.UUID, status account.Status) error {
	key := s.accountKey(id)
	now := time.Now().UnixMilli()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, "created_at", now)
		pipe.HSet(ctx, key, "status", string(status), "updated_at", now)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set account status: %w", err)
	}
	return nil
}

func (s *Store) AppendHistory(ctx context.Context, e account.HistoryEntry) error {
	if e.AppliedAt.IsZero() {
		e.AppliedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}

	keys := []string{s.appliedKey(e.AccountID), s.historyKey(e.AccountID)}
	if err := appendScript.Run(ctx, s.client, keys, e.EventID.String(), raw).Err(); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *Store) ListHistory(ctx context.Context, id uuid.UUID) ([]account.HistoryEntry, error) {
	items, err := s.client.LRange(ctx, s.historyKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	out := make([]account.HistoryEntry, 0, len(items))
	for _, item := range items {
		var e account.HistoryEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

func parseMillis(v string) time.Time {
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
