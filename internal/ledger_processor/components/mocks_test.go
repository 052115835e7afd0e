package components

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
	"github.com/wrio-webgold/webgold/internal/domain/outbox"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, acc *account.LedgerAccount) error {
	return m.Called(ctx, acc).Error(0)
}

func (m *MockAccountRepo) GetByWrioID(ctx context.Context, wrioID string) (*account.LedgerAccount, error) {
	args := m.Called(ctx, wrioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepo) List(ctx context.Context) ([]*account.LedgerAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepo) ListByWrioIDs(ctx context.Context, wrioIDs []string) ([]*account.LedgerAccount, error) {
	args := m.Called(ctx, wrioIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepo) ListUnderfunded(ctx context.Context, threshold int64, limit int) ([]*account.LedgerAccount, error) {
	args := m.Called(ctx, threshold, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepo) AssignWallet(ctx context.Context, wrioID, wallet string) error {
	return m.Called(ctx, wrioID, wallet).Error(0)
}

func (m *MockAccountRepo) Update(ctx context.Context, acc *account.LedgerAccount) error {
	return m.Called(ctx, acc).Error(0)
}

func (m *MockAccountRepo) LockForUpdate(ctx context.Context, wrioID string) (*account.LedgerAccount, error) {
	args := m.Called(ctx, wrioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepo) WithTx(tx pgx.Tx) account.Repository {
	args := m.Called(tx)
	return args.Get(0).(account.Repository)
}

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOutboxRepo) GetByMutationID(ctx context.Context, mutationID uuid.UUID) (*outbox.Message, error) {
	args := m.Called(ctx, mutationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	args := m.Called(tx)
	return args.Get(0).(outbox.Repository)
}

type MockJournalRepo struct {
	mock.Mock
}

func (m *MockJournalRepo) Create(ctx context.Context, record *journal.Record) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockJournalRepo) GetByMutationID(ctx context.Context, mutationID uuid.UUID) (*journal.Record, error) {
	args := m.Called(ctx, mutationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*journal.Record), args.Error(1)
}

func (m *MockJournalRepo) UpdateStatus(ctx context.Context, mutationID uuid.UUID, status shared.MutationStatus, reason string) error {
	return m.Called(ctx, mutationID, status, reason).Error(0)
}

func (m *MockJournalRepo) DistinctWrioIDsByKind(ctx context.Context, kind shared.MutationKind) ([]string, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockJournalRepo) ListByWrioID(ctx context.Context, wrioID string, limit, offset int) ([]*journal.Record, error) {
	args := m.Called(ctx, wrioID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*journal.Record), args.Error(1)
}

type MockFeedRepo struct {
	mock.Mock
}

func (m *MockFeedRepo) Append(ctx context.Context, event *etherfeed.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockFeedRepo) List(ctx context.Context) ([]*etherfeed.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*etherfeed.Event), args.Error(1)
}

func (m *MockFeedRepo) WithTx(tx pgx.Tx) etherfeed.Repository {
	args := m.Called(tx)
	return args.Get(0).(etherfeed.Repository)
}
