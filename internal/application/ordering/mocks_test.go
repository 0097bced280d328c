package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/smmpanel/backend/internal/domain/account"
	"github.com/smmpanel/backend/internal/domain/catalog"
	"github.com/smmpanel/backend/internal/domain/ordering"
	"github.com/smmpanel/backend/internal/domain/shared"
)

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

// MockOrderRepository is a mock implementation of ordering.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*ordering.Order, error) {
	args := m.Called(ctx, providerOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindActive(ctx context.Context) ([]ordering.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockServiceRepository is a mock implementation of catalog.ServiceRepository
type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Service), args.Error(1)
}

func (m *MockServiceRepository) FindByProviderServiceID(ctx context.Context, providerServiceID int) (*catalog.Service, error) {
	args := m.Called(ctx, providerServiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Service), args.Error(1)
}

func (m *MockServiceRepository) FindEnabled(ctx context.Context, filter shared.Filter) ([]catalog.Service, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Service), args.Error(1)
}

func (m *MockServiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Service, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Service), args.Error(1)
}

func (m *MockServiceRepository) Save(ctx context.Context, service *catalog.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockServiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockProvider is a mock implementation of ordering.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Services(ctx context.Context) ([]ordering.ProviderService, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ordering.ProviderService), args.Error(1)
}

func (m *MockProvider) Balance(ctx context.Context) (decimal.Decimal, string, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.String(1), args.Error(2)
}

func (m *MockProvider) AddOrder(ctx context.Context, req *ordering.AddOrderRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) OrderStatus(ctx context.Context, providerOrderID string) (*ordering.ProviderOrderStatus, error) {
	args := m.Called(ctx, providerOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.ProviderOrderStatus), args.Error(1)
}

func (m *MockProvider) CancelOrder(ctx context.Context, providerOrderID string) error {
	args := m.Called(ctx, providerOrderID)
	return args.Error(0)
}

func (m *MockProvider) Refill(ctx context.Context, providerOrderID string) (string, error) {
	args := m.Called(ctx, providerOrderID)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) RefillStatus(ctx context.Context, refillID string) (*ordering.RefillStatus, error) {
	args := m.Called(ctx, refillID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.RefillStatus), args.Error(1)
}

var (
	_ account.UserRepository    = (*MockUserRepository)(nil)
	_ ordering.OrderRepository  = (*MockOrderRepository)(nil)
	_ catalog.ServiceRepository = (*MockServiceRepository)(nil)
	_ ordering.Provider         = (*MockProvider)(nil)
)
