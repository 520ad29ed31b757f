package statemachine

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks every error produced while building a table,
	// dispatcher or engine. These errors are meant to abort startup.
	ErrConfiguration = errors.New("state machine configuration error")

	// ErrInvalidTransition is matched by *InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrActionNotRegistered is returned when dispatching an unknown action id.
	ErrActionNotRegistered = errors.New("action not registered")

	// ErrActionFailed is matched by *ActionError.
	ErrActionFailed = errors.New("action failed")

	ErrNilState = errors.New("state cannot be nil")
	ErrNilEvent = errors.New("event cannot be nil")
)

// ConfigurationError reports an invalid table, dispatcher or engine setup.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("state machine configuration: %s: %v", e.Reason, e.Err)
	}
	return "state machine configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func newConfigurationError(err error, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...), Err: err}
}

// InvalidTransitionError indicates no transition exists for the given state/event pair.
type InvalidTransitionError struct {
	StateName string
	EventName string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.StateName, e.EventName)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func NewInvalidTransitionError(stateName, eventName string) *InvalidTransitionError {
	return &InvalidTransitionError{
		StateName: stateName,
		EventName: eventName,
	}
}

// ActionError wraps a failure raised by an action, including recovered panics.
type ActionError struct {
	Action ActionID
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action '%s' failed: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

func (e *ActionError) Is(target error) bool {
	return target == ErrActionFailed
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsInvalidTransitionError(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}

func IsActionError(err error) bool {
	var e *ActionError
	return errors.As(err, &e)
}
