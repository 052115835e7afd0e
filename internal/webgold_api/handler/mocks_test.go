package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wrio-webgold/webgold/internal/config"
	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/domain/journal"
	"github.com/wrio-webgold/webgold/internal/domain/ledger"
	"github.com/wrio-webgold/webgold/internal/domain/transfer"
	"github.com/wrio-webgold/webgold/internal/platform/ethereum"
	"github.com/wrio-webgold/webgold/internal/webgold_api/middleware"
	"github.com/wrio-webgold/webgold/internal/webgold_api/service"
)

const testSecret = "handler-test-secret"

var testAuthCfg = &config.AuthConfig{
	JWTSecret:  testSecret,
	CookieName: "sid",
	WorkDomain: ".wrioos.com",
	LoginURL:   "https://login.wrioos.com/",
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Auth(testAuthCfg))
	return r
}

// authorize attaches a session cookie for the identity to req
func authorize(t *testing.T, req *http.Request, identity middleware.Identity) {
	t.Helper()
	token, err := middleware.IssueSessionToken(testSecret, identity, time.Hour)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "sid", Value: token})
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) MasterStats(ctx context.Context) (*ethereum.MasterStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ethereum.MasterStats), args.Error(1)
}

func (m *MockAdminService) ListEntries(ctx context.Context, kind ledger.Kind) ([]ledger.Entry, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Entry), args.Error(1)
}

func (m *MockAdminService) ListEtherFeeds(ctx context.Context) ([]service.EtherFeedView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.EtherFeedView), args.Error(1)
}

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) GetForSigning(ctx context.Context, id, requester string) (*transfer.PendingTransfer, error) {
	args := m.Called(ctx, id, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.PendingTransfer), args.Error(1)
}

func (m *MockTransferService) CreateTransfer(ctx context.Context, in service.CreateTransferInput) (*transfer.PendingTransfer, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.PendingTransfer), args.Error(1)
}

type MockFundsService struct {
	mock.Mock
}

func (m *MockFundsService) GetFundsData(ctx context.Context, wrioID, username string) service.FundsData {
	return m.Called(ctx, wrioID, username).Get(0).(service.FundsData)
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) EnsureAccount(ctx context.Context, wrioID, name string) (*account.LedgerAccount, error) {
	args := m.Called(ctx, wrioID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.LedgerAccount), args.Error(1)
}

func (m *MockAccountService) AssignWallet(ctx context.Context, wrioID, name, wallet string) (*account.LedgerAccount, error) {
	args := m.Called(ctx, wrioID, name, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.LedgerAccount), args.Error(1)
}

type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) ListTransactions(ctx context.Context, wrioID string, limit, offset int) ([]*journal.Record, error) {
	args := m.Called(ctx, wrioID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*journal.Record), args.Error(1)
}
