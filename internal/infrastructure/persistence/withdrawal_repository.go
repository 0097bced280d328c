package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smmpanel/backend/internal/domain/billing"
	"github.com/smmpanel/backend/internal/domain/shared"
	"github.com/smmpanel/backend/internal/infrastructure/persistence/models"
)

// GormWithdrawalRepository implements WithdrawalRepository using GORM
type GormWithdrawalRepository struct {
	db *gorm.DB
}

// NewGormWithdrawalRepository creates a new GormWithdrawalRepository
func NewGormWithdrawalRepository(db *gorm.DB) *GormWithdrawalRepository {
	return &GormWithdrawalRepository{db: db}
}

// Create creates a new withdrawal request
func (r *GormWithdrawalRepository) Create(ctx context.Context, withdrawal *billing.Withdrawal) error {
	model := models.WithdrawalModelFromDomain(withdrawal)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a withdrawal by its ID
func (r *GormWithdrawalRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Withdrawal, error) {
	var model models.WithdrawalModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserID finds a user's withdrawals, newest first
func (r *GormWithdrawalRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]billing.Withdrawal, error) {
	var withdrawalModels []models.WithdrawalModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.WithdrawalModel{}).
			Where("user_id = ?", userID),
		filter,
	)

	if err := query.Find(&withdrawalModels).Error; err != nil {
		return nil, err
	}

	withdrawals := make([]billing.Withdrawal, len(withdrawalModels))
	for i, model := range withdrawalModels {
		withdrawals[i] = *model.ToDomain()
	}
	return withdrawals, nil
}

// FindByStatus finds withdrawals in the given status
func (r *GormWithdrawalRepository) FindByStatus(ctx context.Context, status billing.WithdrawalStatus, filter shared.Filter) ([]billing.Withdrawal, error) {
	var withdrawalModels []models.WithdrawalModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.WithdrawalModel{}).
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&withdrawalModels).Error; err != nil {
		return nil, err
	}

	withdrawals := make([]billing.Withdrawal, len(withdrawalModels))
	for i, model := range withdrawalModels {
		withdrawals[i] = *model.ToDomain()
	}
	return withdrawals, nil
}

// Save updates a withdrawal with optimistic locking (version check)
// Returns error if the version has changed (concurrent modification)
func (r *GormWithdrawalRepository) Save(ctx context.Context, withdrawal *billing.Withdrawal) error {
	model := models.WithdrawalModelFromDomain(withdrawal)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", withdrawal.ID, withdrawal.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The withdrawal record has been modified by another transaction")
	}
	return nil
}

// Count counts withdrawals matching the filter
func (r *GormWithdrawalRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.WithdrawalModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormWithdrawalRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormWithdrawalRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("phone ILIKE ?", searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		}
	}

	return query
}

// Ensure GormWithdrawalRepository implements WithdrawalRepository
var _ billing.WithdrawalRepository = (*GormWithdrawalRepository)(nil)
