package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smmpanel/backend/internal/domain/ordering"
	"github.com/smmpanel/backend/internal/domain/shared"
	"github.com/smmpanel/backend/internal/infrastructure/persistence/models"
)

// terminalOrderStatuses are statuses the provider never updates again
var terminalOrderStatuses = []ordering.OrderStatus{
	ordering.OrderStatusCompleted,
	ordering.OrderStatusPartial,
	ordering.OrderStatusCanceled,
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create creates a new order record
func (r *GormOrderRepository) Create(ctx context.Context, order *ordering.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProviderOrderID finds an order by the provider-assigned id
func (r *GormOrderRepository) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*ordering.Order, error) {
	if providerOrderID == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER_ORDER", "Provider order ID cannot be empty")
	}
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("provider_order_id = ?", providerOrderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserID finds a user's orders, newest first
func (r *GormOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.OrderModel{}).
			Where("user_id = ?", userID),
		filter,
	)

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]ordering.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// FindActive finds orders not yet in a terminal status
func (r *GormOrderRepository) FindActive(ctx context.Context) ([]ordering.Order, error) {
	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("status NOT IN ?", terminalOrderStatuses).
		Order("created_at ASC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]ordering.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// Save updates an order with optimistic locking (version check)
// Returns error if the version has changed (concurrent modification)
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	model := models.OrderModelFromDomain(order)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The order record has been modified by another transaction")
	}
	return nil
}

// CountByUserID counts a user's orders
func (r *GormOrderRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		// Default ordering
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("provider_order_id ILIKE ? OR link ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "service_id":
			query = query.Where("service_id = ?", value)
		case "active":
			if value == true {
				query = query.Where("status NOT IN ?", terminalOrderStatuses)
			} else {
				query = query.Where("status IN ?", terminalOrderStatuses)
			}
		}
	}

	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
