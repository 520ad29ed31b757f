package account

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process Repository for tests and single-node runs.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]Account
	history  map[uuid.UUID][]HistoryEntry
	applied  map[uuid.UUID]struct{}
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[uuid.UUID]Account),
		history:  make(map[uuid.UUID][]HistoryEntry),
		applied:  make(map[uuid.UUID]struct{}),
	}
}

func (r *MemoryRepository) CreateAccount(_ context.Context, a Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[a.ID]; ok {
		return ErrAccountExists
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	if a.Status == "" {
		a.Status = InitialStatus
	}
	r.accounts[a.ID] = a
	return nil
}

func (r *MemoryRepository) GetAccount(_ context.Context, id uuid.UUID) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return a, nil
}

func (r *MemoryRepository) SetStatus(_ context.Context, id uuid.UUID, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	a, ok := r.accounts[id]
	if !ok {
		a = Account{ID: id, CreatedAt: now}
	}
	a.Status = status
	a.UpdatedAt = now
	r.accounts[id] = a
	return nil
}

func (r *MemoryRepository) AppendHistory(_ context.Context, entry HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.applied[entry.EventID]; ok {
		return nil
	}
	if entry.AppliedAt.IsZero() {
		entry.AppliedAt = time.Now().UTC()
	}
	r.applied[entry.EventID] = struct{}{}
	r.history[entry.AccountID] = append(r.history[entry.AccountID], entry)
	return nil
}

func (r *MemoryRepository) ListHistory(_ context.Context, id uuid.UUID) ([]HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.history[id]), nil
}
