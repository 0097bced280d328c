package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/shared"
)

// TransactionRepository defines the interface for deposit transaction persistence
type TransactionRepository interface {
	// Create creates a new transaction record
	Create(ctx context.Context, transaction *Transaction) error

	// FindByID finds a transaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindByGatewayID finds a transaction by the gateway-assigned id
	FindByGatewayID(ctx context.Context, gatewayID string) (*Transaction, error)

	// FindByUserID finds a user's transactions, newest first
	FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Transaction, error)

	// FindPending finds all transactions still awaiting confirmation
	FindPending(ctx context.Context) ([]Transaction, error)

	// Save updates a transaction with optimistic locking (version check)
	Save(ctx context.Context, transaction *Transaction) error

	// CountByUserID counts a user's transactions
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	// SumCompletedSince sums completed deposit amounts created after the cutoff
	SumCompletedSince(ctx context.Context, since time.Time) (int64, error)
}

// WithdrawalRepository defines the interface for withdrawal persistence
type WithdrawalRepository interface {
	// Create creates a new withdrawal request
	Create(ctx context.Context, withdrawal *Withdrawal) error

	// FindByID finds a withdrawal by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Withdrawal, error)

	// FindByUserID finds a user's withdrawals, newest first
	FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Withdrawal, error)

	// FindByStatus finds withdrawals in the given status
	FindByStatus(ctx context.Context, status WithdrawalStatus, filter shared.Filter) ([]Withdrawal, error)

	// Save updates a withdrawal with optimistic locking (version check)
	Save(ctx context.Context, withdrawal *Withdrawal) error

	// Count counts withdrawals matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
