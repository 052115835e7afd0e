package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/domain/etherfeed"
	"github.com/wrio-webgold/webgold/internal/domain/journal"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
	"github.com/wrio-webgold/webgold/internal/domain/transfer"
	"github.com/wrio-webgold/webgold/internal/platform/ethereum"
	"github.com/wrio-webgold/webgold/internal/rates"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, acc *account.LedgerAccount) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByWrioID(ctx context.Context, wrioID string) (*account.LedgerAccount, error) {
	args := m.Called(ctx, wrioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*account.LedgerAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) ListByWrioIDs(ctx context.Context, wrioIDs []string) ([]*account.LedgerAccount, error) {
	args := m.Called(ctx, wrioIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) ListUnderfunded(ctx context.Context, threshold int64, limit int) ([]*account.LedgerAccount, error) {
	args := m.Called(ctx, threshold, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) AssignWallet(ctx context.Context, wrioID, wallet string) error {
	args := m.Called(ctx, wrioID, wallet)
	return args.Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, acc *account.LedgerAccount) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) LockForUpdate(ctx context.Context, wrioID string) (*account.LedgerAccount, error) {
	args := m.Called(ctx, wrioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) WithTx(tx pgx.Tx) account.Repository {
	args := m.Called(tx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(account.Repository)
}

type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) Create(ctx context.Context, record *journal.Record) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockJournalRepository) GetByMutationID(ctx context.Context, mutationID uuid.UUID) (*journal.Record, error) {
	args := m.Called(ctx, mutationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*journal.Record), args.Error(1)
}

func (m *MockJournalRepository) UpdateStatus(ctx context.Context, mutationID uuid.UUID, status shared.MutationStatus, reason string) error {
	return m.Called(ctx, mutationID, status, reason).Error(0)
}

func (m *MockJournalRepository) DistinctWrioIDsByKind(ctx context.Context, kind shared.MutationKind) ([]string, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockJournalRepository) ListByWrioID(ctx context.Context, wrioID string, limit, offset int) ([]*journal.Record, error) {
	args := m.Called(ctx, wrioID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*journal.Record), args.Error(1)
}

type MockEtherFeedRepository struct {
	mock.Mock
}

func (m *MockEtherFeedRepository) Append(ctx context.Context, event *etherfeed.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEtherFeedRepository) List(ctx context.Context) ([]*etherfeed.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*etherfeed.Event), args.Error(1)
}

func (m *MockEtherFeedRepository) WithTx(tx pgx.Tx) etherfeed.Repository {
	args := m.Called(tx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(etherfeed.Repository)
}

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Create(ctx context.Context, t *transfer.PendingTransfer) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id string) (*transfer.PendingTransfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.PendingTransfer), args.Error(1)
}

type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) MasterStats(ctx context.Context) (*ethereum.MasterStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ethereum.MasterStats), args.Error(1)
}

func (m *MockChainClient) BuildTransfer(ctx context.Context, origin, dest string, amount int64) (string, error) {
	args := m.Called(ctx, origin, dest, amount)
	return args.String(0), args.Error(1)
}

type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) GetRates(ctx context.Context) (rates.Quote, error) {
	args := m.Called(ctx)
	return args.Get(0).(rates.Quote), args.Error(1)
}

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, scope, key string) (string, bool, error) {
	args := m.Called(ctx, scope, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyStore) Complete(ctx context.Context, scope, key, id string) error {
	return m.Called(ctx, scope, key, id).Error(0)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, scope, key string) {
	m.Called(ctx, scope, key)
}
