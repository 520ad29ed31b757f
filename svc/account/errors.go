package account

import (
	"errors"

	"github.com/dmitrymomot/accountworker/pkg/statemachine"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountExists    = errors.New("account already exists")
	ErrUnknownStatus    = errors.New("unknown account status")
	ErrUnknownEventType = errors.New("unknown account event type")
	ErrInvalidEvent     = errors.New("invalid account event")
	ErrInvalidPayload   = errors.New("invalid account payload")
	ErrPersistStatus    = errors.New("failed to persist account status")
	ErrNilRepository    = errors.New("repository is nil")
)

// IsNotFound reports whether err means the account does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

// IsInvalidTransition reports whether the event was not valid for the account's status.
func IsInvalidTransition(err error) bool {
	return statemachine.IsInvalidTransitionError(err)
}
