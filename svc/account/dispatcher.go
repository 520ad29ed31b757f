package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/accountworker/pkg/statemachine"
)

// NewDispatcher registers every command under its action id.
// Commands receive the marker's event (see Event.Forwarded).
// A missing command is a configuration error.
func NewDispatcher(commands Commands, log *slog.Logger) (*statemachine.Dispatcher[Event], error) {
	d := statemachine.NewDispatcher[Event](statemachine.WithDispatcherLogger(log))

	var errs []error
	for _, b := range commands.byAction() {
		if b.cmd == nil {
			errs = append(errs, fmt.Errorf("command for %s is nil", b.id))
			continue
		}
		if err := d.Register(b.id, forward(b.cmd)); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, &statemachine.ConfigurationError{Reason: "account commands", Err: errors.Join(errs...)}
	}

	return d, nil
}

func forward(cmd Command) statemachine.Action[Event] {
	return func(ctx context.Context, e Event) error {
		return cmd.Apply(ctx, e.Forwarded())
	}
}
