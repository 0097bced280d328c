package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/account"
	"github.com/smmpanel/backend/internal/domain/billing"
	"github.com/smmpanel/backend/internal/domain/shared"
)

// WithdrawalService handles referral-earnings payout requests
type WithdrawalService struct {
	userRepo       account.UserRepository
	withdrawalRepo billing.WithdrawalRepository
	ledger         *LedgerService
}

// NewWithdrawalService creates a new WithdrawalService
func NewWithdrawalService(userRepo account.UserRepository, withdrawalRepo billing.WithdrawalRepository, ledger *LedgerService) *WithdrawalService {
	return &WithdrawalService{
		userRepo:       userRepo,
		withdrawalRepo: withdrawalRepo,
		ledger:         ledger,
	}
}

// RequestWithdrawal creates a pending payout request against the user's
// referral earnings
func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, userID uuid.UUID, req RequestWithdrawalRequest) (*WithdrawalResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanTransact() {
		return nil, shared.ErrAccountSuspended
	}

	amount, err := billing.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if amount > user.ReferralEarnings {
		return nil, shared.ErrInsufficientEarnings
	}

	withdrawal, err := billing.NewWithdrawal(userID, req.Phone, amount)
	if err != nil {
		return nil, err
	}
	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		return nil, err
	}

	return ToWithdrawalResponse(withdrawal), nil
}

// MarkPaid settles a pending withdrawal and deducts the amount from the
// user's referral earnings. The pending-only transition guards against a
// double deduction.
func (s *WithdrawalService) MarkPaid(ctx context.Context, withdrawalID uuid.UUID) (*WithdrawalResponse, error) {
	withdrawal, err := s.withdrawalRepo.FindByID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}

	if err := withdrawal.MarkPaid(); err != nil {
		return nil, err
	}
	if err := s.withdrawalRepo.Save(ctx, withdrawal); err != nil {
		return nil, err
	}

	if _, err := s.ledger.ApplyWithdrawalPayout(ctx, withdrawal.UserID, withdrawal.Amount); err != nil {
		return nil, err
	}

	return ToWithdrawalResponse(withdrawal), nil
}

// Cancel rejects a pending withdrawal without touching earnings
func (s *WithdrawalService) Cancel(ctx context.Context, withdrawalID uuid.UUID) (*WithdrawalResponse, error) {
	withdrawal, err := s.withdrawalRepo.FindByID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}

	if err := withdrawal.Cancel(); err != nil {
		return nil, err
	}
	if err := s.withdrawalRepo.Save(ctx, withdrawal); err != nil {
		return nil, err
	}

	return ToWithdrawalResponse(withdrawal), nil
}

// ListByUser returns a page of the user's withdrawal requests
func (s *WithdrawalService) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]WithdrawalResponse, error) {
	withdrawals, err := s.withdrawalRepo.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return toWithdrawalResponses(withdrawals), nil
}

// ListByStatus returns withdrawals in the given status (admin view)
func (s *WithdrawalService) ListByStatus(ctx context.Context, status billing.WithdrawalStatus, filter shared.Filter) ([]WithdrawalResponse, error) {
	withdrawals, err := s.withdrawalRepo.FindByStatus(ctx, status, filter)
	if err != nil {
		return nil, err
	}
	return toWithdrawalResponses(withdrawals), nil
}

func toWithdrawalResponses(withdrawals []billing.Withdrawal) []WithdrawalResponse {
	items := make([]WithdrawalResponse, len(withdrawals))
	for i := range withdrawals {
		items[i] = *ToWithdrawalResponse(&withdrawals[i])
	}
	return items
}
