package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appbilling "github.com/smmpanel/backend/internal/application/billing"
	"github.com/smmpanel/backend/internal/domain/account"
	"github.com/smmpanel/backend/internal/domain/billing"
	"github.com/smmpanel/backend/internal/interfaces/http/middleware"
)

// MockPaymentGateway is a mock implementation of billing.PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateTransaction(ctx context.Context, req *billing.CreateTransactionRequest) (*billing.CreateTransactionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CreateTransactionResponse), args.Error(1)
}

func (m *MockPaymentGateway) QueryTransaction(ctx context.Context, transactionID string) (*billing.TransactionStatusResponse, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.TransactionStatusResponse), args.Error(1)
}

func (m *MockPaymentGateway) Balance(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ billing.PaymentGateway = (*MockPaymentGateway)(nil)

func setupDepositRouter(userRepo account.UserRepository, txRepo billing.TransactionRepository, gateway billing.PaymentGateway, userID uuid.UUID) *gin.Engine {
	ledger := appbilling.NewLedgerService(userRepo)
	service := appbilling.NewDepositService(userRepo, txRepo, gateway, ledger, 0)
	handler := NewDepositHandler(service)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, userID.String())
	})
	r.POST("/api/v1/deposits", handler.Initiate)
	r.GET("/api/v1/deposits/:id", handler.Get)
	r.GET("/api/v1/deposits", handler.List)
	return r
}

func TestDepositHandler_Initiate_Success(t *testing.T) {
	user, err := account.NewUser("bob@example.com", "Bob", "hash")
	require.NoError(t, err)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	txRepo := new(MockTransactionRepository)
	txRepo.On("Create", mock.Anything, mock.MatchedBy(func(tx *billing.Transaction) bool {
		return tx.GatewayID == "TX-5005" && tx.Status == billing.TransactionStatusPending
	})).Return(nil)

	gateway := new(MockPaymentGateway)
	gateway.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(req *billing.CreateTransactionRequest) bool {
		return req.Phone == "255744123456" && req.Amount.Equal(decimal.NewFromInt(5000))
	})).Return(&billing.CreateTransactionResponse{TransactionID: "TX-5005"}, nil)

	router := setupDepositRouter(userRepo, txRepo, gateway, user.ID)

	body, _ := json.Marshal(appbilling.InitiateDepositRequest{
		Phone:  "0744123456",
		Amount: "5000",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/deposits", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "TX-5005", data["gateway_id"])
	assert.Equal(t, "PENDING", data["status"])
}

func TestDepositHandler_Initiate_SuspendedUser(t *testing.T) {
	user, err := account.NewUser("bob@example.com", "Bob", "hash")
	require.NoError(t, err)
	require.NoError(t, user.Suspend())

	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	router := setupDepositRouter(userRepo, new(MockTransactionRepository), new(MockPaymentGateway), user.ID)

	body, _ := json.Marshal(appbilling.InitiateDepositRequest{
		Phone:  "0744123456",
		Amount: "5000",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/deposits", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDepositHandler_Initiate_InvalidBody(t *testing.T) {
	router := setupDepositRouter(new(MockUserRepository), new(MockTransactionRepository), new(MockPaymentGateway), uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/deposits", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDepositHandler_Get_OtherUsersTransactionHidden(t *testing.T) {
	owner := uuid.New()
	caller := uuid.New()

	tx, err := billing.NewDepositTransaction(owner, "255744123456", 500000, "TX-7007", appbilling.DefaultConfirmDeadline)
	require.NoError(t, err)

	txRepo := new(MockTransactionRepository)
	txRepo.On("FindByID", mock.Anything, tx.ID).Return(tx, nil)

	router := setupDepositRouter(new(MockUserRepository), txRepo, new(MockPaymentGateway), caller)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deposits/"+tx.ID.String(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDepositHandler_List(t *testing.T) {
	userID := uuid.New()

	tx, err := billing.NewDepositTransaction(userID, "255744123456", 500000, "TX-8008", appbilling.DefaultConfirmDeadline)
	require.NoError(t, err)

	txRepo := new(MockTransactionRepository)
	txRepo.On("FindByUserID", mock.Anything, userID, mock.Anything).Return([]billing.Transaction{*tx}, nil)
	txRepo.On("CountByUserID", mock.Anything, userID).Return(int64(1), nil)

	router := setupDepositRouter(new(MockUserRepository), txRepo, new(MockPaymentGateway), userID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deposits?page=1&page_size=20", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotNil(t, response["meta"])
	meta := response["meta"].(map[string]interface{})
	assert.Equal(t, float64(1), meta["total"])
}
