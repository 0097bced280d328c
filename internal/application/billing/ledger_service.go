package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/account"
	"github.com/smmpanel/backend/internal/domain/shared"
)

// maxLockRetries bounds how often a balance mutation is retried after losing
// an optimistic-lock race
const maxLockRetries = 3

// ErrLedgerConflict is returned when a balance mutation keeps losing the
// version race after all retries
var ErrLedgerConflict = shared.NewDomainError("LEDGER_CONFLICT", "Balance update conflicted with concurrent changes, please retry")

// LedgerService serializes all balance and referral-earnings mutations.
// Every mutation reloads the user, applies the change, and saves under an
// optimistic version check; conflicts are retried on a fresh copy.
type LedgerService struct {
	userRepo account.UserRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(userRepo account.UserRepository) *LedgerService {
	return &LedgerService{
		userRepo: userRepo,
	}
}

// CreditDeposit adds a confirmed deposit to the user's balance
func (s *LedgerService) CreditDeposit(ctx context.Context, userID uuid.UUID, amount int64, gatewayID string) (*account.User, error) {
	return s.mutate(ctx, userID, func(user *account.User) error {
		return user.CreditBalance(amount, gatewayID)
	})
}

// DebitForOrder deducts an order cost from the user's balance
func (s *LedgerService) DebitForOrder(ctx context.Context, userID uuid.UUID, cost int64) (*account.User, error) {
	return s.mutate(ctx, userID, func(user *account.User) error {
		return user.DebitBalance(cost)
	})
}

// RefundOrder returns a debited order cost after a failed placement
func (s *LedgerService) RefundOrder(ctx context.Context, userID uuid.UUID, cost int64) (*account.User, error) {
	return s.mutate(ctx, userID, func(user *account.User) error {
		return user.RefundBalance(cost)
	})
}

// CreditCommission adds a referral commission to the referrer's earnings
func (s *LedgerService) CreditCommission(ctx context.Context, referrerID uuid.UUID, amount int64) (*account.User, error) {
	return s.mutate(ctx, referrerID, func(user *account.User) error {
		return user.CreditReferralEarnings(amount)
	})
}

// ApplyWithdrawalPayout deducts a paid withdrawal from referral earnings
func (s *LedgerService) ApplyWithdrawalPayout(ctx context.Context, userID uuid.UUID, amount int64) (*account.User, error) {
	return s.mutate(ctx, userID, func(user *account.User) error {
		return user.ApplyWithdrawalPayout(amount)
	})
}

// AdjustBalance replaces the user's balance (admin operation)
func (s *LedgerService) AdjustBalance(ctx context.Context, userID uuid.UUID, balance int64) (*account.User, error) {
	return s.mutate(ctx, userID, func(user *account.User) error {
		return user.SetBalance(balance)
	})
}

func (s *LedgerService) mutate(ctx context.Context, userID uuid.UUID, fn func(*account.User) error) (*account.User, error) {
	for attempt := 0; attempt <= maxLockRetries; attempt++ {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}

		if err := fn(user); err != nil {
			return nil, err
		}

		err = s.userRepo.SaveWithLock(ctx, user)
		if err == nil {
			return user, nil
		}
		if !isLockConflict(err) {
			return nil, err
		}
	}
	return nil, ErrLedgerConflict
}

func isLockConflict(err error) bool {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == "OPTIMISTIC_LOCK_ERROR"
	}
	return false
}
