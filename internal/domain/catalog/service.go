package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smmpanel/backend/internal/domain/shared"
)

var minorUnitsPerMajor = decimal.NewFromInt(100)

// Service is a resellable SMM service. PricePer1000 is in major currency
// units; order costs are computed in integer minor units.
type Service struct {
	shared.BaseAggregateRoot
	ProviderServiceID int
	Name              string
	Category          string
	PricePer1000      decimal.Decimal
	MinQuantity       int
	MaxQuantity       int
	Enabled           bool
}

// NewService creates an enabled catalog entry
func NewService(providerServiceID int, name, category string, pricePer1000 decimal.Decimal, minQuantity, maxQuantity int) (*Service, error) {
	svc := &Service{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProviderServiceID: providerServiceID,
		Enabled:           true,
	}
	if err := svc.apply(name, category, pricePer1000, minQuantity, maxQuantity); err != nil {
		return nil, err
	}
	return svc, nil
}

// Update replaces the editable fields
func (s *Service) Update(name, category string, pricePer1000 decimal.Decimal, minQuantity, maxQuantity int) error {
	if err := s.apply(name, category, pricePer1000, minQuantity, maxQuantity); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

func (s *Service) apply(name, category string, pricePer1000 decimal.Decimal, minQuantity, maxQuantity int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Service name cannot be empty")
	}
	if s.ProviderServiceID <= 0 {
		return shared.NewDomainError("INVALID_SERVICE", "Provider service ID must be positive")
	}
	if pricePer1000.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PRICE", "Price per 1000 must be positive")
	}
	if minQuantity <= 0 || maxQuantity < minQuantity {
		return shared.NewDomainError("INVALID_QUANTITY_RANGE", "Quantity range must satisfy 0 < min <= max")
	}

	s.Name = name
	s.Category = strings.TrimSpace(category)
	s.PricePer1000 = pricePer1000
	s.MinQuantity = minQuantity
	s.MaxQuantity = maxQuantity
	return nil
}

// Enable makes the service orderable
func (s *Service) Enable() {
	s.Enabled = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Disable hides the service from the storefront
func (s *Service) Disable() {
	s.Enabled = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// ValidateQuantity checks an order quantity against the service limits
func (s *Service) ValidateQuantity(quantity int) error {
	if quantity < s.MinQuantity || quantity > s.MaxQuantity {
		return shared.NewDomainError("QUANTITY_OUT_OF_RANGE", "Quantity is outside the service limits")
	}
	return nil
}

// CostFor computes the order cost in minor units:
// ceil((quantity / 1000) * pricePer1000 * 100)
func (s *Service) CostFor(quantity int) int64 {
	cost := decimal.NewFromInt(int64(quantity)).
		Div(decimal.NewFromInt(1000)).
		Mul(s.PricePer1000).
		Mul(minorUnitsPerMajor)
	return cost.Ceil().IntPart()
}
