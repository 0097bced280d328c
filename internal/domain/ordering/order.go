package ordering

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/shared"
)

// OrderStatus mirrors the status strings reported by the SMM provider
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusInProgress OrderStatus = "In progress"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusPartial    OrderStatus = "Partial"
	OrderStatusCanceled   OrderStatus = "Canceled"
)

// IsTerminal returns true for statuses the provider never updates again
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusPartial, OrderStatusCanceled:
		return true
	}
	return false
}

// Order is a placed SMM order. Cost is held in minor currency units and was
// debited from the user's balance before the provider accepted the order.
type Order struct {
	shared.BaseAggregateRoot
	UserID            uuid.UUID
	ServiceID         uuid.UUID
	ProviderServiceID int
	ProviderOrderID   string
	Link              string
	Quantity          int
	Cost              int64
	Status            OrderStatus
	Charge            string
	StartCount        int
	Remains           int
	LastSyncedAt      *time.Time
}

// NewOrder creates an order in the provider's initial Pending status
func NewOrder(userID, serviceID uuid.UUID, providerServiceID int, providerOrderID, link string, quantity int, cost int64) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if serviceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SERVICE", "Service ID cannot be empty")
	}
	if providerOrderID == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER_ORDER", "Provider order ID cannot be empty")
	}
	if strings.TrimSpace(link) == "" {
		return nil, shared.NewDomainError("INVALID_LINK", "Order link cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Order quantity must be positive")
	}
	if cost <= 0 {
		return nil, shared.NewDomainError("INVALID_COST", "Order cost must be positive")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		ServiceID:         serviceID,
		ProviderServiceID: providerServiceID,
		ProviderOrderID:   providerOrderID,
		Link:              link,
		Quantity:          quantity,
		Cost:              cost,
		Status:            OrderStatusPending,
	}, nil
}

// ApplyProviderStatus records the provider's latest view of the order.
// Terminal orders are left untouched.
func (o *Order) ApplyProviderStatus(status OrderStatus, charge string, startCount, remains int) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("ORDER_SETTLED", "Order has already reached a terminal status")
	}
	if status == "" {
		return shared.NewDomainError("INVALID_STATUS", "Provider status cannot be empty")
	}

	now := time.Now()
	o.Status = status
	if charge != "" {
		o.Charge = charge
	}
	o.StartCount = startCount
	o.Remains = remains
	o.LastSyncedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// NeedsSync returns true while the provider may still change the status
func (o *Order) NeedsSync() bool {
	return !o.Status.IsTerminal()
}
