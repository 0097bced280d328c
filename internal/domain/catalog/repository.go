package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/shared"
)

// ServiceRepository defines the interface for catalog persistence
type ServiceRepository interface {
	// FindByID finds a service by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Service, error)

	// FindByProviderServiceID finds a service by the provider's id
	FindByProviderServiceID(ctx context.Context, providerServiceID int) (*Service, error)

	// FindEnabled finds all enabled services
	FindEnabled(ctx context.Context, filter shared.Filter) ([]Service, error)

	// FindAll finds all services matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Service, error)

	// Save creates or updates a service
	Save(ctx context.Context, service *Service) error

	// Delete removes a service from the catalog
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts services matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
