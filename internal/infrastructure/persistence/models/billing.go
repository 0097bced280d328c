package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/billing"
)

// TransactionModel is the persistence model for the deposit Transaction aggregate.
type TransactionModel struct {
	AggregateModel
	UserID        uuid.UUID                 `gorm:"type:uuid;not null;index:idx_transactions_user"`
	Phone         string                    `gorm:"type:varchar(20);not null"`
	Amount        int64                     `gorm:"type:bigint;not null"`
	GatewayID     string                    `gorm:"type:varchar(100);not null;uniqueIndex:idx_transactions_gateway_id"`
	Status        billing.TransactionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_transactions_status"`
	FailureReason string                    `gorm:"type:varchar(500)"`
	CompletedAt   *time.Time                `gorm:"type:timestamptz"`
	DeadlineAt    time.Time                 `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction aggregate.
func (m *TransactionModel) ToDomain() *billing.Transaction {
	return &billing.Transaction{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		Phone:             m.Phone,
		Amount:            m.Amount,
		GatewayID:         m.GatewayID,
		Status:            m.Status,
		FailureReason:     m.FailureReason,
		CompletedAt:       m.CompletedAt,
		DeadlineAt:        m.DeadlineAt,
	}
}

// FromDomain populates the persistence model from a domain Transaction aggregate.
func (m *TransactionModel) FromDomain(t *billing.Transaction) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.UserID = t.UserID
	m.Phone = t.Phone
	m.Amount = t.Amount
	m.GatewayID = t.GatewayID
	m.Status = t.Status
	m.FailureReason = t.FailureReason
	m.CompletedAt = t.CompletedAt
	m.DeadlineAt = t.DeadlineAt
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction aggregate.
func TransactionModelFromDomain(t *billing.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}

// WithdrawalModel is the persistence model for the Withdrawal aggregate.
type WithdrawalModel struct {
	AggregateModel
	UserID    uuid.UUID                `gorm:"type:uuid;not null;index:idx_withdrawals_user"`
	Phone     string                   `gorm:"type:varchar(20);not null"`
	Amount    int64                    `gorm:"type:bigint;not null"`
	Status    billing.WithdrawalStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_withdrawals_status"`
	SettledAt *time.Time               `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (WithdrawalModel) TableName() string {
	return "withdrawals"
}

// ToDomain converts the persistence model to a domain Withdrawal aggregate.
func (m *WithdrawalModel) ToDomain() *billing.Withdrawal {
	return &billing.Withdrawal{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		Phone:             m.Phone,
		Amount:            m.Amount,
		Status:            m.Status,
		SettledAt:         m.SettledAt,
	}
}

// FromDomain populates the persistence model from a domain Withdrawal aggregate.
func (m *WithdrawalModel) FromDomain(w *billing.Withdrawal) {
	m.FromDomainAggregateRoot(w.BaseAggregateRoot)
	m.UserID = w.UserID
	m.Phone = w.Phone
	m.Amount = w.Amount
	m.Status = w.Status
	m.SettledAt = w.SettledAt
}

// WithdrawalModelFromDomain creates a new persistence model from a domain Withdrawal aggregate.
func WithdrawalModelFromDomain(w *billing.Withdrawal) *WithdrawalModel {
	m := &WithdrawalModel{}
	m.FromDomain(w)
	return m
}
