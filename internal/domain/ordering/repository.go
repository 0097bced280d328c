package ordering

import (
	"context"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create creates a new order record
	Create(ctx context.Context, order *Order) error

	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByProviderOrderID finds an order by the provider-assigned id
	FindByProviderOrderID(ctx context.Context, providerOrderID string) (*Order, error)

	// FindByUserID finds a user's orders, newest first
	FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindActive finds orders not yet in a terminal status
	FindActive(ctx context.Context) ([]Order, error)

	// Save updates an order with optimistic locking (version check)
	Save(ctx context.Context, order *Order) error

	// CountByUserID counts a user's orders
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
