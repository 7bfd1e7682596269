package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/settlement-reconciliation/internal/domain/banktxn"
	"github.com/settlement-reconciliation/internal/domain/ledger"
	"github.com/settlement-reconciliation/internal/domain/reconciliation"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockBankTxnRepository struct {
	mock.Mock
}

func (m *MockBankTxnRepository) AcquireIngestionLock(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockBankTxnRepository) InsertBatch(ctx context.Context, txns []*banktxn.Transaction) error {
	args := m.Called(ctx, txns)
	return args.Error(0)
}

func (m *MockBankTxnRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*banktxn.Transaction, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*banktxn.Transaction), args.Error(1)
}

func (m *MockBankTxnRepository) GetUnreconciled(ctx context.Context) ([]*banktxn.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*banktxn.Transaction), args.Error(1)
}

func (m *MockBankTxnRepository) GetReconciled(ctx context.Context) ([]*banktxn.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*banktxn.Transaction), args.Error(1)
}

func (m *MockBankTxnRepository) MarkReconciled(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBankTxnRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBankTxnRepository) CountReconciled(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBankTxnRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockBankTxnRepository) WithTx(tx pgx.Tx) banktxn.Repository {
	m.Called(tx)
	return m
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepository) GetUnreconciled(ctx context.Context, limit int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepository) MarkReconciled(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLedgerRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) OutstandingExposure(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLedgerRepository) WithTx(tx pgx.Tx) ledger.Repository {
	m.Called(tx)
	return m
}

type MockReconciliationRepository struct {
	mock.Mock
}

func (m *MockReconciliationRepository) Create(ctx context.Context, record *reconciliation.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockReconciliationRepository) GetByID(ctx context.Context, id uuid.UUID) (*reconciliation.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconciliation.Record), args.Error(1)
}

func (m *MockReconciliationRepository) GetByBankTransactionID(ctx context.Context, txnID uuid.UUID) (*reconciliation.Record, error) {
	args := m.Called(ctx, txnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconciliation.Record), args.Error(1)
}

func (m *MockReconciliationRepository) ListMatched(ctx context.Context) ([]*reconciliation.MatchedTransaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reconciliation.MatchedTransaction), args.Error(1)
}

func (m *MockReconciliationRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReconciliationRepository) WithTx(tx pgx.Tx) reconciliation.Repository {
	m.Called(tx)
	return m
}

type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockStatementIngester struct {
	mock.Mock
}

func (m *MockStatementIngester) Ingest(ctx context.Context, raw string) (int, error) {
	args := m.Called(ctx, raw)
	return args.Int(0), args.Error(1)
}

type MockPassRunner struct {
	mock.Mock
}

func (m *MockPassRunner) Run(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockTxRunner invokes the callback with a nil transaction so the mock
// repositories see the same WithTx path production code uses.
type MockTxRunner struct {
	mock.Mock
}

func (m *MockTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}
