package account

import (
	"log/slog"

	"github.com/dmitrymomot/accountworker/pkg/statemachine"
)

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	logger    *slog.Logger
	observers []statemachine.Observer
}

// WithLogger sets the service logger. It is shared with the guard, dispatcher and engine.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithObserver adds an observer notified of every matched transition.
func WithObserver(observer statemachine.Observer) ServiceOption {
	return func(o *serviceOptions) {
		if observer != nil {
			o.observers = append(o.observers, observer)
		}
	}
}
