package account

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Account is the persisted account record.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HistoryEntry records one command applied to an account.
type HistoryEntry struct {
	EventID   uuid.UUID `json:"event_id"`
	AccountID uuid.UUID `json:"account_id"`
	EventType EventType `json:"event_type"`
	Action    string    `json:"action"`
	AppliedAt time.Time `json:"applied_at"`
}

// Repository persists accounts, their status and the history of applied commands.
//
// Implementations must be safe for concurrent use. AppendHistory is idempotent
// by event id: appending an entry whose EventID is already stored is a no-op.
type Repository interface {
	// CreateAccount inserts a new account. Returns ErrAccountExists if the id is taken.
	CreateAccount(ctx context.Context, a Account) error
	// GetAccount returns ErrAccountNotFound if the account does not exist.
	GetAccount(ctx context.Context, id uuid.UUID) (Account, error)
	// SetStatus records the status, creating a bare account row when missing.
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
	AppendHistory(ctx context.Context, entry HistoryEntry) error
	// ListHistory returns entries in the order they were appended.
	ListHistory(ctx context.Context, id uuid.UUID) ([]HistoryEntry, error)
}
