package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/accountworker/pkg/logger"
	"github.com/dmitrymomot/accountworker/pkg/statemachine"
)

// Service applies lifecycle events to accounts.
//
// Events for the same account are serialised by a per-account lock; events
// for different accounts are handled concurrently. The state machine itself
// is stateless, the current status lives in the Repository.
type Service struct {
	repo   Repository
	engine *statemachine.Engine[Event]
	locks  *keyedMutex
	logger *slog.Logger
}

type outcomeKey struct{}

// NewService wires the lifecycle table, the replay guard and the commands.
func NewService(repo Repository, commands Commands, opts ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, ErrNilRepository
	}

	o := &serviceOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	log := o.logger.With(logger.Component("account"))

	table, err := NewTable()
	if err != nil {
		return nil, err
	}
	dispatcher, err := NewDispatcher(commands, log)
	if err != nil {
		return nil, err
	}

	engineOpts := []statemachine.Option[Event]{
		statemachine.WithGuard(NewReplayGuard(log).Guard()),
		statemachine.WithLogger[Event](log),
		statemachine.WithInitialState[Event](InitialStatus),
		statemachine.WithObserver[Event](captureOutcome),
	}
	for _, observer := range o.observers {
		engineOpts = append(engineOpts, statemachine.WithObserver[Event](observer))
	}

	engine, err := statemachine.NewEngine(table, dispatcher, engineOpts...)
	if err != nil {
		return nil, err
	}

	return &Service{
		repo:   repo,
		engine: engine,
		locks:  newKeyedMutex(),
		logger: log,
	}, nil
}

// Table returns the transition table the service drives.
func (s *Service) Table() *statemachine.Table {
	return s.engine.Table()
}

// Handle applies e to its account and returns the resulting status.
//
// An account with no stored status is treated as ACCOUNT_CREATED. When the
// event is not valid for the current status the returned error matches
// statemachine.ErrInvalidTransition and the status is left unchanged.
// Command failures are logged and do not fail Handle.
func (s *Service) Handle(ctx context.Context, e Event) (Status, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	unlock := s.locks.Lock(e.AccountID)
	defer unlock()

	current, err := s.currentStatus(ctx, e.AccountID)
	if err != nil {
		return "", err
	}

	start := time.Now()
	var outcome statemachine.Outcome
	next, err := s.engine.Handle(context.WithValue(ctx, outcomeKey{}, &outcome), current, e.Type, e)
	if err != nil {
		s.logger.WarnContext(ctx, "account event rejected",
			logger.AccountID(e.AccountID),
			logger.EventID(e.ID),
			logger.EventType(e.Type.String()),
			logger.FromState(current.String()),
			logger.ToState(current.String()),
			logger.Executed(false),
			logger.Error(err))
		return current, err
	}

	status := next.(Status)
	if err := s.repo.SetStatus(ctx, e.AccountID, status); err != nil {
		return current, errors.Join(ErrPersistStatus, err)
	}

	attrs := []any{
		logger.AccountID(e.AccountID),
		logger.EventID(e.ID),
		logger.EventType(e.Type.String()),
		logger.FromState(current.String()),
		logger.ToState(status.String()),
		logger.Action(outcome.Action.String()),
		logger.Executed(outcome.Executed),
		logger.Duration(time.Since(start)),
	}
	if outcome.Err != nil {
		s.logger.ErrorContext(ctx, "account event handled with failed command",
			append(attrs, logger.Error(outcome.Err))...)
	} else {
		s.logger.InfoContext(ctx, "account event handled", attrs...)
	}

	return status, nil
}

// Replay rebuilds the status of accountID from a recorded event log without
// running any command, persists it and returns it. Events are stripped of
// their replication marker so the replay guard skips every side effect.
// Nothing is persisted if the log contains an invalid transition.
func (s *Service) Replay(ctx context.Context, accountID uuid.UUID, events []Event) (Status, error) {
	unlock := s.locks.Lock(accountID)
	defer unlock()

	steps := make([]statemachine.Step[Event], 0, len(events))
	for i, e := range events {
		if e.AccountID != accountID {
			return "", fmt.Errorf("%w: event %d belongs to account %s", ErrInvalidEvent, i, e.AccountID)
		}
		if err := e.Validate(); err != nil {
			return "", fmt.Errorf("event %d: %w", i, err)
		}
		steps = append(steps, statemachine.Step[Event]{Event: e.Type, Data: e.Bare()})
	}

	state, err := statemachine.Replay(ctx, s.engine, InitialStatus, steps)
	if err != nil {
		return state.(Status), err
	}

	status := state.(Status)
	if err := s.repo.SetStatus(ctx, accountID, status); err != nil {
		return status, errors.Join(ErrPersistStatus, err)
	}

	s.logger.InfoContext(ctx, "account status replayed",
		logger.AccountID(accountID),
		logger.ToState(status.String()),
		slog.Int("events", len(events)))

	return status, nil
}

// Status returns the stored status of an account.
func (s *Service) Status(ctx context.Context, id uuid.UUID) (Status, error) {
	a, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return "", err
	}
	return a.Status, nil
}

// Account returns the stored account.
func (s *Service) Account(ctx context.Context, id uuid.UUID) (Account, error) {
	return s.repo.GetAccount(ctx, id)
}

// History returns the commands applied to an account, oldest first.
func (s *Service) History(ctx context.Context, id uuid.UUID) ([]HistoryEntry, error) {
	return s.repo.ListHistory(ctx, id)
}

func (s *Service) currentStatus(ctx context.Context, id uuid.UUID) (Status, error) {
	a, err := s.repo.GetAccount(ctx, id)
	switch {
	case errors.Is(err, ErrAccountNotFound):
		return InitialStatus, nil
	case err != nil:
		return "", fmt.Errorf("load account status: %w", err)
	case a.Status == "":
		return InitialStatus, nil
	}
	return a.Status, nil
}

func captureOutcome(ctx context.Context, o statemachine.Outcome) {
	if dst, ok := ctx.Value(outcomeKey{}).(*statemachine.Outcome); ok {
		*dst = o
	}
}
