package ordering

import (
	"time"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/ordering"
)

// PlaceOrderRequest represents a request to place an SMM order
type PlaceOrderRequest struct {
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	Link      string    `json:"link" binding:"required,url,max=500"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID  `json:"id"`
	ServiceID       uuid.UUID  `json:"service_id"`
	ProviderOrderID string     `json:"provider_order_id"`
	Link            string     `json:"link"`
	Quantity        int        `json:"quantity"`
	Cost            int64      `json:"cost"`
	Status          string     `json:"status"`
	Charge          string     `json:"charge,omitempty"`
	StartCount      int        `json:"start_count"`
	Remains         int        `json:"remains"`
	CreatedAt       time.Time  `json:"created_at"`
	LastSyncedAt    *time.Time `json:"last_synced_at,omitempty"`
}

// ToOrderResponse converts an order to its API representation
func ToOrderResponse(order *ordering.Order) *OrderResponse {
	return &OrderResponse{
		ID:              order.ID,
		ServiceID:       order.ServiceID,
		ProviderOrderID: order.ProviderOrderID,
		Link:            order.Link,
		Quantity:        order.Quantity,
		Cost:            order.Cost,
		Status:          string(order.Status),
		Charge:          order.Charge,
		StartCount:      order.StartCount,
		Remains:         order.Remains,
		CreatedAt:       order.CreatedAt,
		LastSyncedAt:    order.LastSyncedAt,
	}
}

// RefillResponse represents a refill request in API responses
type RefillResponse struct {
	RefillID string `json:"refill_id"`
	Status   string `json:"status,omitempty"`
}

// SyncReport summarizes one pass over active orders
type SyncReport struct {
	Synced  int `json:"synced"`
	Settled int `json:"settled"`
	Failed  int `json:"failed"`
}
