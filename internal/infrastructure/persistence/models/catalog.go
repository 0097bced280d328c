package models

import (
	"github.com/shopspring/decimal"

	"github.com/smmpanel/backend/internal/domain/catalog"
)

// ServiceModel is the persistence model for the catalog Service aggregate.
type ServiceModel struct {
	AggregateModel
	ProviderServiceID int             `gorm:"not null;uniqueIndex:idx_services_provider_id"`
	Name              string          `gorm:"type:varchar(300);not null"`
	Category          string          `gorm:"type:varchar(200);index:idx_services_category"`
	PricePer1000      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MinQuantity       int             `gorm:"not null;default:1"`
	MaxQuantity       int             `gorm:"not null"`
	Enabled           bool            `gorm:"not null;default:true;index:idx_services_enabled"`
}

// TableName returns the table name for GORM
func (ServiceModel) TableName() string {
	return "services"
}

// ToDomain converts the persistence model to a domain Service aggregate.
func (m *ServiceModel) ToDomain() *catalog.Service {
	return &catalog.Service{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ProviderServiceID: m.ProviderServiceID,
		Name:              m.Name,
		Category:          m.Category,
		PricePer1000:      m.PricePer1000,
		MinQuantity:       m.MinQuantity,
		MaxQuantity:       m.MaxQuantity,
		Enabled:           m.Enabled,
	}
}

// FromDomain populates the persistence model from a domain Service aggregate.
func (m *ServiceModel) FromDomain(s *catalog.Service) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.ProviderServiceID = s.ProviderServiceID
	m.Name = s.Name
	m.Category = s.Category
	m.PricePer1000 = s.PricePer1000
	m.MinQuantity = s.MinQuantity
	m.MaxQuantity = s.MaxQuantity
	m.Enabled = s.Enabled
}

// ServiceModelFromDomain creates a new persistence model from a domain Service aggregate.
func ServiceModelFromDomain(s *catalog.Service) *ServiceModel {
	m := &ServiceModel{}
	m.FromDomain(s)
	return m
}
