package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/settlement-reconciliation/internal/domain/shared"
)

// MockProcessingService mocks the ProcessingService interface
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessStatement(ctx context.Context, request *shared.StatementIngestionRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func newWorkerPool(t *testing.T, base ProcessingService, size int) *WorkerPoolProcessingService {
	t.Helper()
	pool, err := NewWorkerPoolProcessingService(base, WorkerPoolConfig{Size: size}, newTestLogger())
	require.NoError(t, err)
	return pool
}

func TestWorkerPoolProcessingService_ProcessStatement(t *testing.T) {
	t.Run("DelegatesToBaseService", func(t *testing.T) {
		base := new(MockProcessingService)
		pool := newWorkerPool(t, base, 2)
		defer pool.Shutdown()

		request := newRequest(t)
		base.On("ProcessStatement", mock.Anything, mock.MatchedBy(func(r *shared.StatementIngestionRequest) bool {
			return r.IngestionID == request.IngestionID
		})).Return(nil)

		err := pool.ProcessStatement(context.Background(), request)

		assert.NoError(t, err)
		base.AssertExpectations(t)
	})

	t.Run("PropagatesBaseError", func(t *testing.T) {
		base := new(MockProcessingService)
		pool := newWorkerPool(t, base, 2)
		defer pool.Shutdown()

		request := newRequest(t)
		expectedErr := errors.New("ingestion failed")
		base.On("ProcessStatement", mock.Anything, mock.Anything).Return(expectedErr)

		err := pool.ProcessStatement(context.Background(), request)

		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("HandlesConcurrentRequests", func(t *testing.T) {
		base := new(MockProcessingService)
		pool := newWorkerPool(t, base, 4)
		defer pool.Shutdown()

		base.On("ProcessStatement", mock.Anything, mock.Anything).Return(nil)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := pool.ProcessStatement(context.Background(), newRequest(t))
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		base.AssertNumberOfCalls(t, "ProcessStatement", 10)
	})

	t.Run("RejectsAfterShutdown", func(t *testing.T) {
		base := new(MockProcessingService)
		pool := newWorkerPool(t, base, 1)
		pool.Shutdown()

		err := pool.ProcessStatement(context.Background(), newRequest(t))

		assert.Error(t, err)
		base.AssertNotCalled(t, "ProcessStatement")
	})
}

func TestWorkerPoolProcessingService_Capacity(t *testing.T) {
	base := new(MockProcessingService)
	pool := newWorkerPool(t, base, 3)
	defer pool.Shutdown()

	assert.Equal(t, 3, pool.Capacity())
	assert.Equal(t, 0, pool.Running())
}
