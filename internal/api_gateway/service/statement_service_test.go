package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/settlement-reconciliation/internal/domain/banktxn"
	"github.com/settlement-reconciliation/internal/domain/reconciliation"
	"github.com/settlement-reconciliation/internal/domain/shared"
)

const sampleStatement = "Date,Amount,Description,Reference\n2023-12-01,12500.00,Wire transfer,NV-1001\n"

func TestIngestStatement(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ingester := new(MockStatementIngester)
		svc := NewStatementService(newTestLogger(), ingester, nil, nil, nil)

		ingester.On("Ingest", mock.Anything, sampleStatement).Return(1, nil)

		inserted, err := svc.IngestStatement(context.Background(), sampleStatement)

		assert.NoError(t, err)
		assert.Equal(t, 1, inserted)
		ingester.AssertExpectations(t)
	})

	t.Run("EmptyStatement", func(t *testing.T) {
		ingester := new(MockStatementIngester)
		svc := NewStatementService(newTestLogger(), ingester, nil, nil, nil)

		_, err := svc.IngestStatement(context.Background(), "")

		assert.ErrorIs(t, err, shared.ErrEmptyStatement)
		ingester.AssertNotCalled(t, "Ingest")
	})

	t.Run("IngestionFailure", func(t *testing.T) {
		ingester := new(MockStatementIngester)
		svc := NewStatementService(newTestLogger(), ingester, nil, nil, nil)

		expectedErr := errors.New("storage unavailable")
		ingester.On("Ingest", mock.Anything, sampleStatement).Return(0, expectedErr)

		_, err := svc.IngestStatement(context.Background(), sampleStatement)

		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestSubmitStatementAsync(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		producer := new(MockMessagePublisher)
		svc := NewStatementService(newTestLogger(), nil, nil, nil, producer)

		producer.On("Publish", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("*shared.StatementIngestionRequest")).Return(nil)

		ingestionID, err := svc.SubmitStatementAsync(context.Background(), sampleStatement, "corr-1")

		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, ingestionID)

		req := producer.Calls[0].Arguments.Get(2).(*shared.StatementIngestionRequest)
		assert.Equal(t, ingestionID, req.IngestionID)
		assert.Equal(t, sampleStatement, req.Statement)
		assert.Equal(t, "corr-1", req.CorrelationID)
		assert.Equal(t, ingestionID.String(), producer.Calls[0].Arguments.String(1))
	})

	t.Run("EmptyStatement", func(t *testing.T) {
		producer := new(MockMessagePublisher)
		svc := NewStatementService(newTestLogger(), nil, nil, nil, producer)

		_, err := svc.SubmitStatementAsync(context.Background(), "", "corr-1")

		assert.ErrorIs(t, err, shared.ErrEmptyStatement)
		producer.AssertNotCalled(t, "Publish")
	})

	t.Run("PublishFailure", func(t *testing.T) {
		producer := new(MockMessagePublisher)
		svc := NewStatementService(newTestLogger(), nil, nil, nil, producer)

		expectedErr := errors.New("broker down")
		producer.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(expectedErr)

		ingestionID, err := svc.SubmitStatementAsync(context.Background(), sampleStatement, "")

		assert.ErrorIs(t, err, expectedErr)
		assert.Equal(t, uuid.Nil, ingestionID)
	})
}

func TestGetUnreconciledTransactions(t *testing.T) {
	txnRepo := new(MockBankTxnRepository)
	svc := NewStatementService(newTestLogger(), nil, txnRepo, nil, nil)

	expected := []*banktxn.Transaction{
		banktxn.New(1250000, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), "Wire transfer", "NV-1001"),
	}
	txnRepo.On("GetUnreconciled", mock.Anything).Return(expected, nil)

	txns, err := svc.GetUnreconciledTransactions(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, expected, txns)
	txnRepo.AssertExpectations(t)
}

func TestGetReconciledTransactions(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		recRepo := new(MockReconciliationRepository)
		svc := NewStatementService(newTestLogger(), nil, nil, recRepo, nil)

		txn := banktxn.New(1250000, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), "Wire transfer", "NV-1001")
		record := reconciliation.NewRecord(txn.ID, uuid.New(), reconciliation.StatusMatched, 100, "Exact Amount, Date, and Ref match")
		expected := []*reconciliation.MatchedTransaction{{Transaction: *txn, Record: *record}}

		recRepo.On("ListMatched", mock.Anything).Return(expected, nil)

		matched, err := svc.GetReconciledTransactions(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, expected, matched)
	})

	t.Run("RepositoryFailure", func(t *testing.T) {
		recRepo := new(MockReconciliationRepository)
		svc := NewStatementService(newTestLogger(), nil, nil, recRepo, nil)

		expectedErr := errors.New("query failed")
		recRepo.On("ListMatched", mock.Anything).Return(nil, expectedErr)

		_, err := svc.GetReconciledTransactions(context.Background())

		assert.ErrorIs(t, err, expectedErr)
	})
}
