package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/shared"
)

// TransactionStatus represents the state of a deposit transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// IsTerminal returns true for statuses that permit no further transitions
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed
}

// ErrTransactionSettled is returned when a terminal transaction is
// transitioned again
var ErrTransactionSettled = shared.NewDomainError("TRANSACTION_SETTLED", "Transaction has already reached a terminal status")

// Transaction records a single mobile-money deposit. It is created PENDING
// when the gateway accepts the push request and transitions exactly once to
// COMPLETED or FAILED.
type Transaction struct {
	shared.BaseAggregateRoot
	UserID        uuid.UUID
	Phone         string
	Amount        int64
	GatewayID     string
	Status        TransactionStatus
	FailureReason string
	CompletedAt   *time.Time
	DeadlineAt    time.Time
}

// NewDepositTransaction creates a pending deposit keyed by the gateway
// transaction id. The deadline bounds how long confirmation polling may run.
func NewDepositTransaction(userID uuid.UUID, phone string, amount int64, gatewayID string, deadline time.Duration) (*Transaction, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if gatewayID == "" {
		return nil, shared.NewDomainError("INVALID_GATEWAY_ID", "Gateway transaction ID cannot be empty")
	}
	if deadline <= 0 {
		return nil, shared.NewDomainError("INVALID_DEADLINE", "Confirmation deadline must be positive")
	}

	base := shared.NewBaseAggregateRoot()
	return &Transaction{
		BaseAggregateRoot: base,
		UserID:            userID,
		Phone:             normalized,
		Amount:            amount,
		GatewayID:         gatewayID,
		Status:            TransactionStatusPending,
		DeadlineAt:        base.CreatedAt.Add(deadline),
	}, nil
}

// NewWebhookTransaction records a transaction reported by the gateway's
// webhook for which no local pending record exists
func NewWebhookTransaction(userID uuid.UUID, phone string, amount int64, gatewayID string, status TransactionStatus) (*Transaction, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if gatewayID == "" {
		return nil, shared.NewDomainError("INVALID_GATEWAY_ID", "Gateway transaction ID cannot be empty")
	}

	base := shared.NewBaseAggregateRoot()
	tx := &Transaction{
		BaseAggregateRoot: base,
		UserID:            userID,
		Phone:             phone,
		Amount:            amount,
		GatewayID:         gatewayID,
		Status:            status,
		DeadlineAt:        base.CreatedAt,
	}
	if status.IsTerminal() {
		now := time.Now()
		tx.CompletedAt = &now
	}
	return tx, nil
}

// Complete marks the deposit as confirmed by the gateway
func (t *Transaction) Complete() error {
	if t.Status != TransactionStatusPending {
		return ErrTransactionSettled
	}

	now := time.Now()
	t.Status = TransactionStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	return nil
}

// Fail marks the deposit as failed with the gateway's reason
func (t *Transaction) Fail(reason string) error {
	if t.Status != TransactionStatusPending {
		return ErrTransactionSettled
	}

	now := time.Now()
	t.Status = TransactionStatusFailed
	t.FailureReason = reason
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	return nil
}

// IsPending returns true while the transaction awaits confirmation
func (t *Transaction) IsPending() bool {
	return t.Status == TransactionStatusPending
}

// IsExpired returns true once the confirmation deadline has passed
func (t *Transaction) IsExpired(now time.Time) bool {
	return now.After(t.DeadlineAt)
}
