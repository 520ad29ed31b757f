package account

import "fmt"

// Status is the lifecycle state of an account.
type Status string

const (
	StatusCreated   Status = "ACCOUNT_CREATED"
	StatusPending   Status = "ACCOUNT_PENDING"
	StatusConfirmed Status = "ACCOUNT_CONFIRMED"
	StatusActive    Status = "ACCOUNT_ACTIVE"
	StatusArchived  Status = "ACCOUNT_ARCHIVED"
	StatusSuspended Status = "ACCOUNT_SUSPENDED"
)

// InitialStatus is the status of an account no event has touched yet.
const InitialStatus = StatusCreated

var statuses = []Status{
	StatusCreated,
	StatusPending,
	StatusConfirmed,
	StatusActive,
	StatusArchived,
	StatusSuspended,
}

// Statuses returns all account statuses.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

func (s Status) Name() string   { return string(s) }
func (s Status) String() string { return string(s) }

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

// ParseStatus converts a string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// EventType identifies what happened to an account.
type EventType string

const (
	EventCreated   EventType = "ACCOUNT_CREATED"
	EventConfirmed EventType = "ACCOUNT_CONFIRMED"
	EventActivated EventType = "ACCOUNT_ACTIVATED"
	EventArchived  EventType = "ACCOUNT_ARCHIVED"
	EventSuspended EventType = "ACCOUNT_SUSPENDED"
)

var eventTypes = []EventType{
	EventCreated,
	EventConfirmed,
	EventActivated,
	EventArchived,
	EventSuspended,
}

// EventTypes returns all account event types.
func EventTypes() []EventType {
	out := make([]EventType, len(eventTypes))
	copy(out, eventTypes)
	return out
}

func (t EventType) Name() string   { return string(t) }
func (t EventType) String() string { return string(t) }

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	for _, v := range eventTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ParseEventType converts a string into an EventType.
func ParseEventType(s string) (EventType, error) {
	t := EventType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEventType, s)
	}
	return t, nil
}
