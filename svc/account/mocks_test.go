package account_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/accountworker/svc/account"
)

// MockRepository is a mock implementation of account.Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateAccount(ctx context.Context, a account.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockRepository) GetAccount(ctx context.Context, id uuid.UUID) (account.Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(account.Account), args.Error(1)
}

func (m *MockRepository) SetStatus(ctx context.Context, id uuid.UUID, status account.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRepository) AppendHistory(ctx context.Context, entry account.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRepository) ListHistory(ctx context.Context, id uuid.UUID) ([]account.HistoryEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]account.HistoryEntry), args.Error(1)
}
