package account

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Payload carries the account attributes an event was produced with.
type Payload struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Event is a single lifecycle event for one account.
//
// Replicated is the replication marker. An event produced for processing
// carries itself as the marker; a bare event (marker stripped) is a signal
// re-driven during recovery and must not repeat side effects.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	AccountID  uuid.UUID `json:"account_id"`
	Payload    Payload   `json:"payload"`
	CreatedAt  time.Time `json:"created_at"`
	Replicated *Event    `json:"replicated,omitempty"`
}

// NewEvent builds a fresh event that carries its own replication marker.
func NewEvent(eventType EventType, accountID uuid.UUID, payload Payload) Event {
	e := Event{
		ID:        uuid.New(),
		Type:      eventType,
		AccountID: accountID,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	marker := e
	e.Replicated = &marker
	return e
}

// Bare returns a copy of the event without the replication marker.
func (e Event) Bare() Event {
	e.Replicated = nil
	return e
}

// Forwarded returns the event carried by the replication marker, which is
// what commands apply. Identity fields the marker leaves empty are taken
// from e. Without a marker e itself is returned.
func (e Event) Forwarded() Event {
	if e.Replicated == nil {
		return e
	}
	f := e.Replicated.Bare()
	if f.ID == uuid.Nil {
		f.ID = e.ID
	}
	if f.AccountID == uuid.Nil {
		f.AccountID = e.AccountID
	}
	if f.Type == "" {
		f.Type = e.Type
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = e.CreatedAt
	}
	return f
}

// HasMarker reports whether the replication marker is attached.
func (e Event) HasMarker() bool {
	return e.Replicated != nil
}

// Validate checks the fields every event must carry.
func (e Event) Validate() error {
	var errs []error
	if e.ID == uuid.Nil {
		errs = append(errs, errors.New("id is required"))
	}
	if e.AccountID == uuid.Nil {
		errs = append(errs, errors.New("account_id is required"))
	}
	if !e.Type.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownEventType, e.Type))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidEvent}, errs...)...)
	}
	return nil
}
