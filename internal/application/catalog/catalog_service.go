package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smmpanel/backend/internal/domain/catalog"
	"github.com/smmpanel/backend/internal/domain/ordering"
	"github.com/smmpanel/backend/internal/domain/shared"
)

// CatalogService manages the resellable service catalog
type CatalogService struct {
	serviceRepo catalog.ServiceRepository
	provider    ordering.Provider
	logger      *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(serviceRepo catalog.ServiceRepository, provider ordering.Provider, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		serviceRepo: serviceRepo,
		provider:    provider,
		logger:      logger,
	}
}

// ListEnabled returns the storefront catalog
func (s *CatalogService) ListEnabled(ctx context.Context, filter shared.Filter) ([]ServiceResponse, error) {
	services, err := s.serviceRepo.FindEnabled(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toServiceResponses(services), nil
}

// ListAll returns every catalog entry (admin view)
func (s *CatalogService) ListAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[ServiceResponse], error) {
	services, err := s.serviceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.serviceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(toServiceResponses(services), total, filter.Page, filter.PageSize), nil
}

// Get returns one catalog entry
func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*ServiceResponse, error) {
	svc, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToServiceResponse(svc), nil
}

// Create adds a service to the catalog
func (s *CatalogService) Create(ctx context.Context, req CreateServiceRequest) (*ServiceResponse, error) {
	existing, err := s.serviceRepo.FindByProviderServiceID(ctx, req.ProviderServiceID)
	if err != nil && !shared.IsNotFoundError(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Service with this provider id already exists")
	}

	svc, err := catalog.NewService(req.ProviderServiceID, req.Name, req.Category, req.PricePer1000, req.MinQuantity, req.MaxQuantity)
	if err != nil {
		return nil, err
	}
	if err := s.serviceRepo.Save(ctx, svc); err != nil {
		return nil, err
	}
	return ToServiceResponse(svc), nil
}

// Update replaces the editable fields of a catalog entry
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, req UpdateServiceRequest) (*ServiceResponse, error) {
	svc, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := svc.Name
	if req.Name != nil {
		name = *req.Name
	}
	category := svc.Category
	if req.Category != nil {
		category = *req.Category
	}
	price := svc.PricePer1000
	if req.PricePer1000 != nil {
		price = *req.PricePer1000
	}
	minQty := svc.MinQuantity
	if req.MinQuantity != nil {
		minQty = *req.MinQuantity
	}
	maxQty := svc.MaxQuantity
	if req.MaxQuantity != nil {
		maxQty = *req.MaxQuantity
	}

	if err := svc.Update(name, category, price, minQty, maxQty); err != nil {
		return nil, err
	}
	if req.Enabled != nil {
		if *req.Enabled {
			svc.Enable()
		} else {
			svc.Disable()
		}
	}

	if err := s.serviceRepo.Save(ctx, svc); err != nil {
		return nil, err
	}
	return ToServiceResponse(svc), nil
}

// SetEnabled toggles a service's storefront visibility
func (s *CatalogService) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*ServiceResponse, error) {
	svc, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if enabled {
		svc.Enable()
	} else {
		svc.Disable()
	}
	if err := s.serviceRepo.Save(ctx, svc); err != nil {
		return nil, err
	}
	return ToServiceResponse(svc), nil
}

// Delete removes a service from the catalog
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.serviceRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.serviceRepo.Delete(ctx, id)
}

// ImportFromProvider pulls the provider's service list and upserts catalog
// entries. New services arrive disabled so pricing can be reviewed before
// they reach the storefront; existing entries keep their local price.
func (s *CatalogService) ImportFromProvider(ctx context.Context) (*ImportReport, error) {
	providerServices, err := s.provider.Services(ctx)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	for _, ps := range providerServices {
		existing, err := s.serviceRepo.FindByProviderServiceID(ctx, ps.ServiceID)
		if err != nil && !shared.IsNotFoundError(err) {
			return nil, err
		}

		if existing != nil {
			if err := existing.Update(ps.Name, ps.Category, existing.PricePer1000, ps.MinQuantity, ps.MaxQuantity); err != nil {
				report.Skipped++
				s.logger.Warn("provider service skipped during import",
					zap.Int("provider_service_id", ps.ServiceID),
					zap.Error(err))
				continue
			}
			if err := s.serviceRepo.Save(ctx, existing); err != nil {
				return nil, err
			}
			report.Updated++
			continue
		}

		svc, err := catalog.NewService(ps.ServiceID, ps.Name, ps.Category, ps.Rate, ps.MinQuantity, ps.MaxQuantity)
		if err != nil {
			report.Skipped++
			s.logger.Warn("provider service skipped during import",
				zap.Int("provider_service_id", ps.ServiceID),
				zap.Error(err))
			continue
		}
		svc.Disable()
		if err := s.serviceRepo.Save(ctx, svc); err != nil {
			return nil, err
		}
		report.Created++
	}

	s.logger.Info("provider catalog import finished",
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped))
	return report, nil
}

func toServiceResponses(services []catalog.Service) []ServiceResponse {
	items := make([]ServiceResponse, len(services))
	for i := range services {
		items[i] = *ToServiceResponse(&services[i])
	}
	return items
}

// ProviderBalance returns the reseller account balance and currency at the
// upstream panel
func (s *CatalogService) ProviderBalance(ctx context.Context) (decimal.Decimal, string, error) {
	return s.provider.Balance(ctx)
}
