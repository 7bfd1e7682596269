package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/settlement-reconciliation/internal/domain/ledger"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateEntry(ctx context.Context, amount int64, date time.Time, description, reference string, entryType ledger.EntryType) (*ledger.Entry, error) {
	args := m.Called(ctx, amount, date, description, reference, entryType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockLedgerService) GetUnreconciledEntries(ctx context.Context, limit int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockLedgerService) SeedDemoEntries(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newLedgerRouter(mockService *MockLedgerService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	h := NewLedgerHandler(logger, mockService)

	router := gin.New()
	router.POST("/ledger-entries", h.Create)
	router.GET("/ledger-entries/unreconciled", h.GetUnreconciled)
	router.POST("/ledger-entries/seed", h.Seed)
	return router
}

func TestLedgerHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newLedgerRouter(mockService)

		date := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
		entry, err := ledger.NewEntry(1250000, date, "Inv #NV-2023-001 (Net-30)", "NV-1001", ledger.EntryTypeCredit)
		assert.NoError(t, err)

		mockService.On("CreateEntry", mock.Anything, int64(1250000), date, "Inv #NV-2023-001 (Net-30)", "NV-1001", ledger.EntryTypeCredit).Return(entry, nil)

		reqBody := CreateLedgerEntryRequest{
			Amount:      1250000,
			Date:        "2023-11-01",
			Description: "Inv #NV-2023-001 (Net-30)",
			Reference:   "NV-1001",
			Type:        "CREDIT",
		}
		jsonBody, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/ledger-entries", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var response struct {
			Data LedgerEntryResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Equal(t, entry.ID.String(), response.Data.ID)
		assert.Equal(t, "NV-1001", response.Data.Reference)
		assert.Equal(t, "CREDIT", response.Data.Type)
	})

	t.Run("InvalidDate", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newLedgerRouter(mockService)

		reqBody := CreateLedgerEntryRequest{
			Amount:      100,
			Date:        "01/11/2023",
			Description: "desc",
			Type:        "CREDIT",
		}
		jsonBody, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/ledger-entries", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateEntry")
	})

	t.Run("InvalidType", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newLedgerRouter(mockService)

		body := `{"amount":100,"date":"2023-11-01","description":"desc","type":"TRANSFER"}`
		req, _ := http.NewRequest(http.MethodPost, "/ledger-entries", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLedgerHandler_GetUnreconciled(t *testing.T) {
	t.Run("WithLimit", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newLedgerRouter(mockService)

		entry, err := ledger.NewEntry(210000, time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC), "Sample Stone", "NV-1005", ledger.EntryTypeCredit)
		assert.NoError(t, err)

		mockService.On("GetUnreconciledEntries", mock.Anything, 5).Return([]*ledger.Entry{entry}, nil)

		req, _ := http.NewRequest(http.MethodGet, "/ledger-entries/unreconciled?limit=5", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var response struct {
			Data []LedgerEntryResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Len(t, response.Data, 1)
		assert.Equal(t, entry.ID.String(), response.Data[0].ID)
	})

	t.Run("DefaultNoCap", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newLedgerRouter(mockService)

		mockService.On("GetUnreconciledEntries", mock.Anything, 0).Return([]*ledger.Entry{}, nil)

		req, _ := http.NewRequest(http.MethodGet, "/ledger-entries/unreconciled", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertCalled(t, "GetUnreconciledEntries", mock.Anything, 0)
	})
}

func TestLedgerHandler_Seed(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newLedgerRouter(mockService)

		mockService.On("SeedDemoEntries", mock.Anything).Return(6, nil)

		req, _ := http.NewRequest(http.MethodPost, "/ledger-entries/seed", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var response struct {
			Data map[string]int `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Equal(t, 6, response.Data["created"])
	})

	t.Run("FailureReturns500", func(t *testing.T) {
		mockService := new(MockLedgerService)
		router := newLedgerRouter(mockService)

		mockService.On("SeedDemoEntries", mock.Anything).Return(0, errors.New("insert failed"))

		req, _ := http.NewRequest(http.MethodPost, "/ledger-entries/seed", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
