package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/accountworker/pkg/statemachine"
)

// Command is the side effect bound to one lifecycle transition.
// Commands must tolerate redelivery of the same event.
type Command interface {
	Apply(ctx context.Context, e Event) error
}

// CommandFunc adapts a function to the Command interface.
type CommandFunc func(ctx context.Context, e Event) error

func (f CommandFunc) Apply(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Commands holds one command per action id.
type Commands struct {
	Create    Command
	Confirm   Command
	Activate  Command
	Archive   Command
	Suspend   Command
	Unarchive Command
	Unsuspend Command
}

func (c Commands) byAction() []struct {
	id  statemachine.ActionID
	cmd Command
} {
	return []struct {
		id  statemachine.ActionID
		cmd Command
	}{
		{ActionCreate, c.Create},
		{ActionConfirm, c.Confirm},
		{ActionActivate, c.Activate},
		{ActionArchive, c.Archive},
		{ActionSuspend, c.Suspend},
		{ActionUnarchive, c.Unarchive},
		{ActionUnsuspend, c.Unsuspend},
	}
}

// CommandOption configures the default commands.
type CommandOption func(*commandOptions)

type commandOptions struct {
	now func() time.Time
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) CommandOption {
	return func(o *commandOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// NewCommands returns repository-backed implementations of every command.
//
// Create validates the payload, normalises the email and inserts the account;
// an account that already exists counts as created. Every command records a
// history entry keyed by the event id, so redelivery does not duplicate it.
func NewCommands(repo Repository, opts ...CommandOption) Commands {
	o := &commandOptions{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(o)
	}

	record := func(id statemachine.ActionID) Command {
		return CommandFunc(func(ctx context.Context, e Event) error {
			if err := repo.AppendHistory(ctx, HistoryEntry{
				EventID:   e.ID,
				AccountID: e.AccountID,
				EventType: e.Type,
				Action:    id.String(),
				AppliedAt: o.now(),
			}); err != nil {
				return fmt.Errorf("append history: %w", err)
			}
			return nil
		})
	}

	create := CommandFunc(func(ctx context.Context, e Event) error {
		p := normalizePayload(e.Payload)
		if err := validatePayload(p); err != nil {
			return err
		}

		now := o.now()
		err := repo.CreateAccount(ctx, Account{
			ID:        e.AccountID,
			Email:     p.Email,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Status:    InitialStatus,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil && !errors.Is(err, ErrAccountExists) {
			return fmt.Errorf("create account: %w", err)
		}
		return record(ActionCreate).Apply(ctx, e)
	})

	return Commands{
		Create:    create,
		Confirm:   record(ActionConfirm),
		Activate:  record(ActionActivate),
		Archive:   record(ActionArchive),
		Suspend:   record(ActionSuspend),
		Unarchive: record(ActionUnarchive),
		Unsuspend: record(ActionUnsuspend),
	}
}
