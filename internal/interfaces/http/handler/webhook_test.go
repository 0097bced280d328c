package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbilling "github.com/smmpanel/backend/internal/application/billing"
	"github.com/smmpanel/backend/internal/domain/account"
	"github.com/smmpanel/backend/internal/domain/billing"
	"github.com/smmpanel/backend/internal/domain/shared"
)

// MockTransactionRepository is a mock implementation of billing.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction *billing.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByGatewayID(ctx context.Context, gatewayID string) (*billing.Transaction, error) {
	args := m.Called(ctx, gatewayID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]billing.Transaction, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindPending(ctx context.Context) ([]billing.Transaction, error) {
	args := m.Called(ctx)
	return args.Get(0).([]billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, transaction *billing.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) SumCompletedSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

var _ billing.TransactionRepository = (*MockTransactionRepository)(nil)

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, id, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ shared.IdempotencyStore = (*MockIdempotencyStore)(nil)

func setupWebhookRouter(userRepo account.UserRepository, txRepo billing.TransactionRepository, store shared.IdempotencyStore) *gin.Engine {
	ledger := appbilling.NewLedgerService(userRepo)
	service := appbilling.NewWebhookService(txRepo, ledger, store, zap.NewNop())
	handler := NewWebhookHandler(service)

	r := gin.New()
	r.POST("/api/v1/webhooks/fastlipa", handler.FastLipa)
	return r
}

func postWebhook(t *testing.T, router *gin.Engine, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/fastlipa", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func pendingDeposit(t *testing.T, userID uuid.UUID, amount int64, gatewayID string) *billing.Transaction {
	t.Helper()
	tx, err := billing.NewDepositTransaction(userID, "255744123456", amount, gatewayID, 180*time.Second)
	require.NoError(t, err)
	return tx
}

func TestWebhookHandler_FastLipa_CompletedCreditsBalance(t *testing.T) {
	user, err := account.NewUser("bob@example.com", "Bob", "hash")
	require.NoError(t, err)

	tx := pendingDeposit(t, user.ID, 500000, "TX-1001")

	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("SaveWithLock", mock.Anything, user).Return(nil)

	txRepo := new(MockTransactionRepository)
	txRepo.On("FindByGatewayID", mock.Anything, "TX-1001").Return(tx, nil)
	txRepo.On("Save", mock.Anything, tx).Return(nil)

	store := new(MockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	router := setupWebhookRouter(userRepo, txRepo, store)

	w := postWebhook(t, router, appbilling.WebhookNotification{
		TranID: "TX-1001",
		Status: "COMPLETED",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, billing.TransactionStatusCompleted, tx.Status)
	assert.Equal(t, int64(500000), user.Balance)

	var ack WebhookAck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.True(t, ack.Success)
}

func TestWebhookHandler_FastLipa_DuplicateIsAcknowledged(t *testing.T) {
	userRepo := new(MockUserRepository)
	txRepo := new(MockTransactionRepository)

	store := new(MockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	router := setupWebhookRouter(userRepo, txRepo, store)

	w := postWebhook(t, router, appbilling.WebhookNotification{
		TranID: "TX-DUP",
		Status: "COMPLETED",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	txRepo.AssertNotCalled(t, "FindByGatewayID", mock.Anything, mock.Anything)
}

func TestWebhookHandler_FastLipa_FailedDoesNotCredit(t *testing.T) {
	userID := uuid.New()
	tx := pendingDeposit(t, userID, 250000, "TX-2002")

	userRepo := new(MockUserRepository)

	txRepo := new(MockTransactionRepository)
	txRepo.On("FindByGatewayID", mock.Anything, "TX-2002").Return(tx, nil)
	txRepo.On("Save", mock.Anything, tx).Return(nil)

	store := new(MockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	router := setupWebhookRouter(userRepo, txRepo, store)

	w := postWebhook(t, router, appbilling.WebhookNotification{
		TranID: "TX-2002",
		Status: "FAILED",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, billing.TransactionStatusFailed, tx.Status)
	userRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestWebhookHandler_FastLipa_InvalidPayload(t *testing.T) {
	router := setupWebhookRouter(new(MockUserRepository), new(MockTransactionRepository), new(MockIdempotencyStore))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/fastlipa", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var ack WebhookAck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.False(t, ack.Success)
}

func TestWebhookHandler_FastLipa_ProcessingErrorSignalsRetry(t *testing.T) {
	router := setupWebhookRouter(new(MockUserRepository), func() *MockTransactionRepository {
		txRepo := new(MockTransactionRepository)
		txRepo.On("FindByGatewayID", mock.Anything, "TX-BAD").Return(nil, assert.AnError)
		return txRepo
	}(), func() *MockIdempotencyStore {
		store := new(MockIdempotencyStore)
		store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
		store.On("Release", mock.Anything, mock.Anything).Return(nil)
		return store
	}())

	w := postWebhook(t, router, appbilling.WebhookNotification{
		TranID: "TX-BAD",
		Status: "COMPLETED",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var ack WebhookAck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.False(t, ack.Success)
}
