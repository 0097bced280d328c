package ordering

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appbilling "github.com/smmpanel/backend/internal/application/billing"
	"github.com/smmpanel/backend/internal/domain/account"
	"github.com/smmpanel/backend/internal/domain/catalog"
	"github.com/smmpanel/backend/internal/domain/ordering"
	"github.com/smmpanel/backend/internal/domain/shared"
)

// DefaultCommissionPercent is the referral commission on each order cost
const DefaultCommissionPercent int64 = 10

// OrderService places and tracks SMM orders. The order cost is debited
// before the provider call and refunded if the provider rejects the order,
// so the balance can never pay for an order twice.
type OrderService struct {
	userRepo          account.UserRepository
	orderRepo         ordering.OrderRepository
	serviceRepo       catalog.ServiceRepository
	provider          ordering.Provider
	ledger            *appbilling.LedgerService
	commissionPercent int64
	logger            *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(userRepo account.UserRepository, orderRepo ordering.OrderRepository, serviceRepo catalog.ServiceRepository, provider ordering.Provider, ledger *appbilling.LedgerService, commissionPercent int64, logger *zap.Logger) *OrderService {
	if commissionPercent < 0 {
		commissionPercent = DefaultCommissionPercent
	}
	return &OrderService{
		userRepo:          userRepo,
		orderRepo:         orderRepo,
		serviceRepo:       serviceRepo,
		provider:          provider,
		ledger:            ledger,
		commissionPercent: commissionPercent,
		logger:            logger,
	}
}

// PlaceOrder validates the request, debits the cost, and places the order
// with the provider
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanTransact() {
		return nil, shared.ErrAccountSuspended
	}

	svc, err := s.serviceRepo.FindByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Enabled {
		return nil, shared.NewDomainError("SERVICE_DISABLED", "Service is not available for ordering")
	}
	if err := svc.ValidateQuantity(req.Quantity); err != nil {
		return nil, err
	}

	cost := svc.CostFor(req.Quantity)
	if _, err := s.ledger.DebitForOrder(ctx, userID, cost); err != nil {
		return nil, err
	}

	providerOrderID, err := s.provider.AddOrder(ctx, &ordering.AddOrderRequest{
		ServiceID: svc.ProviderServiceID,
		Link:      req.Link,
		Quantity:  req.Quantity,
	})
	if err != nil {
		if _, refundErr := s.ledger.RefundOrder(ctx, userID, cost); refundErr != nil {
			s.logger.Error("refund after rejected order failed",
				zap.String("user_id", userID.String()),
				zap.Int64("cost", cost),
				zap.Error(refundErr))
		}
		return nil, err
	}

	order, err := ordering.NewOrder(userID, svc.ID, svc.ProviderServiceID, providerOrderID, req.Link, req.Quantity, cost)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.creditCommission(ctx, user, cost)

	return ToOrderResponse(order), nil
}

// creditCommission pays the referrer their share of the order cost.
// Commission failures never fail the order.
func (s *OrderService) creditCommission(ctx context.Context, user *account.User, cost int64) {
	if user.ReferredBy == nil || s.commissionPercent == 0 {
		return
	}
	commission := cost * s.commissionPercent / 100
	if commission <= 0 {
		return
	}
	if _, err := s.ledger.CreditCommission(ctx, *user.ReferredBy, commission); err != nil {
		s.logger.Warn("referral commission credit failed",
			zap.String("referrer_id", user.ReferredBy.String()),
			zap.Int64("commission", commission),
			zap.Error(err))
	}
}

// RefreshOrder polls the provider for the order's current status
func (s *OrderService) RefreshOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.findOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.NeedsSync() {
		return ToOrderResponse(order), nil
	}

	if err := s.syncOrder(ctx, order); err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// CancelOrder asks the provider to cancel a pending order. The final status
// and any partial charge arrive through the regular status sync.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.findOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, shared.NewDomainError("ORDER_SETTLED", "Order has already reached a terminal status")
	}

	if err := s.provider.CancelOrder(ctx, order.ProviderOrderID); err != nil {
		return nil, err
	}
	if err := s.syncOrder(ctx, order); err != nil {
		s.logger.Warn("status sync after cancel failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
	return ToOrderResponse(order), nil
}

// RequestRefill asks the provider to refill a completed order
func (s *OrderService) RequestRefill(ctx context.Context, userID, orderID uuid.UUID) (*RefillResponse, error) {
	order, err := s.findOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != ordering.OrderStatusCompleted && order.Status != ordering.OrderStatusPartial {
		return nil, shared.NewDomainError("REFILL_NOT_AVAILABLE", "Only completed or partial orders can be refilled")
	}

	refillID, err := s.provider.Refill(ctx, order.ProviderOrderID)
	if err != nil {
		return nil, err
	}
	return &RefillResponse{RefillID: refillID}, nil
}

// RefillStatus fetches the state of a refill request
func (s *OrderService) RefillStatus(ctx context.Context, refillID string) (*RefillResponse, error) {
	status, err := s.provider.RefillStatus(ctx, refillID)
	if err != nil {
		return nil, err
	}
	return &RefillResponse{RefillID: status.RefillID, Status: status.Status}, nil
}

// GetOrder returns one of the user's orders
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.findOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// ListOrders returns a page of the user's orders
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	orders, err := s.orderRepo.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = *ToOrderResponse(&orders[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// SyncActiveOrders polls the provider for every non-terminal order.
// Individual failures are logged and skipped so one bad order cannot stall
// the sweep.
func (s *OrderService) SyncActiveOrders(ctx context.Context) (*SyncReport, error) {
	orders, err := s.orderRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{}
	for i := range orders {
		order := &orders[i]
		if err := s.syncOrder(ctx, order); err != nil {
			report.Failed++
			s.logger.Warn("order status sync failed",
				zap.String("order_id", order.ID.String()),
				zap.String("provider_order_id", order.ProviderOrderID),
				zap.Error(err))
			continue
		}
		report.Synced++
		if order.Status.IsTerminal() {
			report.Settled++
		}
	}
	return report, nil
}

func (s *OrderService) syncOrder(ctx context.Context, order *ordering.Order) error {
	status, err := s.provider.OrderStatus(ctx, order.ProviderOrderID)
	if err != nil {
		return err
	}
	if err := order.ApplyProviderStatus(status.Status, status.Charge, status.StartCount, status.Remains); err != nil {
		return err
	}
	return s.orderRepo.Save(ctx, order)
}

func (s *OrderService) findOwnedOrder(ctx context.Context, userID, orderID uuid.UUID) (*ordering.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, shared.ErrNotFound
	}
	return order, nil
}
