package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smmpanel/backend/internal/domain/billing"
	"github.com/smmpanel/backend/internal/domain/shared"
	"github.com/smmpanel/backend/internal/infrastructure/persistence/models"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create creates a new transaction record
func (r *GormTransactionRepository) Create(ctx context.Context, transaction *billing.Transaction) error {
	model := models.TransactionModelFromDomain(transaction)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByGatewayID finds a transaction by the gateway-assigned id
func (r *GormTransactionRepository) FindByGatewayID(ctx context.Context, gatewayID string) (*billing.Transaction, error) {
	if gatewayID == "" {
		return nil, shared.NewDomainError("INVALID_GATEWAY_ID", "Gateway transaction ID cannot be empty")
	}
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("gateway_id = ?", gatewayID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserID finds a user's transactions, newest first
func (r *GormTransactionRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]billing.Transaction, error) {
	var transactionModels []models.TransactionModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.TransactionModel{}).
			Where("user_id = ?", userID),
		filter,
	)

	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]billing.Transaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// FindPending finds all transactions still awaiting confirmation
func (r *GormTransactionRepository) FindPending(ctx context.Context) ([]billing.Transaction, error) {
	var transactionModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", billing.TransactionStatusPending).
		Order("created_at ASC").
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]billing.Transaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// Save updates a transaction with optimistic locking (version check)
// Returns error if the version has changed (concurrent modification)
func (r *GormTransactionRepository) Save(ctx context.Context, transaction *billing.Transaction) error {
	model := models.TransactionModelFromDomain(transaction)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", transaction.ID, transaction.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The transaction record has been modified by another transaction")
	}
	return nil
}

// CountByUserID counts a user's transactions
func (r *GormTransactionRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumCompletedSince sums completed deposit amounts created after the cutoff
func (r *GormTransactionRepository) SumCompletedSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? AND created_at >= ?", billing.TransactionStatusCompleted, since).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// applyFilter applies filter options to the query
func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("gateway_id ILIKE ? OR phone ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "phone":
			query = query.Where("phone = ?", value)
		}
	}

	return query
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ billing.TransactionRepository = (*GormTransactionRepository)(nil)
