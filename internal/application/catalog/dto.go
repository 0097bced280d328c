package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smmpanel/backend/internal/domain/catalog"
)

// CreateServiceRequest represents a request to add a catalog entry
type CreateServiceRequest struct {
	ProviderServiceID int             `json:"provider_service_id" binding:"required,min=1"`
	Name              string          `json:"name" binding:"required,min=1,max=200"`
	Category          string          `json:"category" binding:"max=100"`
	PricePer1000      decimal.Decimal `json:"price_per_1000" binding:"required"`
	MinQuantity       int             `json:"min_quantity" binding:"required,min=1"`
	MaxQuantity       int             `json:"max_quantity" binding:"required,min=1"`
}

// UpdateServiceRequest represents a request to update a catalog entry
type UpdateServiceRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Category     *string          `json:"category" binding:"omitempty,max=100"`
	PricePer1000 *decimal.Decimal `json:"price_per_1000"`
	MinQuantity  *int             `json:"min_quantity" binding:"omitempty,min=1"`
	MaxQuantity  *int             `json:"max_quantity" binding:"omitempty,min=1"`
	Enabled      *bool            `json:"enabled"`
}

// ServiceResponse represents a catalog entry in API responses
type ServiceResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProviderServiceID int             `json:"provider_service_id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	PricePer1000      decimal.Decimal `json:"price_per_1000"`
	MinQuantity       int             `json:"min_quantity"`
	MaxQuantity       int             `json:"max_quantity"`
	Enabled           bool            `json:"enabled"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToServiceResponse converts a service to its API representation
func ToServiceResponse(svc *catalog.Service) *ServiceResponse {
	return &ServiceResponse{
		ID:                svc.ID,
		ProviderServiceID: svc.ProviderServiceID,
		Name:              svc.Name,
		Category:          svc.Category,
		PricePer1000:      svc.PricePer1000,
		MinQuantity:       svc.MinQuantity,
		MaxQuantity:       svc.MaxQuantity,
		Enabled:           svc.Enabled,
		CreatedAt:         svc.CreatedAt,
		UpdatedAt:         svc.UpdatedAt,
	}
}

// ImportReport summarizes one provider catalog import
type ImportReport struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
