package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/shared"
)

// WithdrawalStatus represents the state of a referral-earnings withdrawal
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusPaid     WithdrawalStatus = "paid"
	WithdrawalStatusCanceled WithdrawalStatus = "canceled"
)

// MinWithdrawalAmount is the smallest payout in minor units (5000 TZS)
const MinWithdrawalAmount int64 = 500000

// ErrWithdrawalSettled is returned when a paid or canceled withdrawal is
// transitioned again
var ErrWithdrawalSettled = shared.NewDomainError("WITHDRAWAL_SETTLED", "Withdrawal has already been paid or canceled")

// ErrWithdrawalTooSmall is returned when the requested amount is below the
// minimum payout
var ErrWithdrawalTooSmall = shared.NewDomainError("WITHDRAWAL_TOO_SMALL", "Withdrawal amount is below the minimum payout")

// Withdrawal is a user request to pay out accumulated referral earnings to a
// mobile-money number. Admins transition it from pending to paid or canceled.
type Withdrawal struct {
	shared.BaseAggregateRoot
	UserID    uuid.UUID
	Phone     string
	Amount    int64
	Status    WithdrawalStatus
	SettledAt *time.Time
}

// NewWithdrawal creates a pending withdrawal request
func NewWithdrawal(userID uuid.UUID, phone string, amount int64) (*Withdrawal, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	if amount < MinWithdrawalAmount {
		return nil, ErrWithdrawalTooSmall
	}

	return &Withdrawal{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Phone:             normalized,
		Amount:            amount,
		Status:            WithdrawalStatusPending,
	}, nil
}

// MarkPaid settles the withdrawal as paid out
func (w *Withdrawal) MarkPaid() error {
	if w.Status != WithdrawalStatusPending {
		return ErrWithdrawalSettled
	}

	now := time.Now()
	w.Status = WithdrawalStatusPaid
	w.SettledAt = &now
	w.UpdatedAt = now
	w.IncrementVersion()

	return nil
}

// Cancel rejects the withdrawal without paying out
func (w *Withdrawal) Cancel() error {
	if w.Status != WithdrawalStatusPending {
		return ErrWithdrawalSettled
	}

	now := time.Now()
	w.Status = WithdrawalStatusCanceled
	w.SettledAt = &now
	w.UpdatedAt = now
	w.IncrementVersion()

	return nil
}

// IsPending returns true while the withdrawal awaits an admin decision
func (w *Withdrawal) IsPending() bool {
	return w.Status == WithdrawalStatusPending
}
