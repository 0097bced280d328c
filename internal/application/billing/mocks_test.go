package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/smmpanel/backend/internal/domain/account"
	"github.com/smmpanel/backend/internal/domain/billing"
	"github.com/smmpanel/backend/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockUserRepository is a mock implementation of account.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*account.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *MockUserRepository) FindByReferralCode(ctx context.Context, code string) (*account.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *MockUserRepository) FindReferrals(ctx context.Context, referrerID uuid.UUID, filter shared.Filter) ([]account.User, error) {
	args := m.Called(ctx, referrerID, filter)
	return args.Get(0).([]account.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]account.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]account.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *account.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SaveWithLock(ctx context.Context, user *account.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountReferrals(ctx context.Context, referrerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, referrerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

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

// MockWithdrawalRepository is a mock implementation of billing.WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, withdrawal *billing.Withdrawal) error {
	args := m.Called(ctx, withdrawal)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Withdrawal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]billing.Withdrawal, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]billing.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) FindByStatus(ctx context.Context, status billing.WithdrawalStatus, filter shared.Filter) ([]billing.Withdrawal, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]billing.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) Save(ctx context.Context, withdrawal *billing.Withdrawal) error {
	args := m.Called(ctx, withdrawal)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Mock Gateway
// =============================================================================

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

// =============================================================================
// Mock Idempotency Store
// =============================================================================

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// =============================================================================
// Test fixtures
// =============================================================================

func newTestUser(balance, earnings int64) *account.User {
	user, err := account.NewUser("user@example.com", "Test User", "hash")
	if err != nil {
		panic(err)
	}
	user.Balance = balance
	user.ReferralEarnings = earnings
	return user
}

func newPendingTransaction(userID uuid.UUID, amount int64) *billing.Transaction {
	tx, err := billing.NewDepositTransaction(userID, "744123456", amount, "TX-GW-1", 3*time.Minute)
	if err != nil {
		panic(err)
	}
	return tx
}
