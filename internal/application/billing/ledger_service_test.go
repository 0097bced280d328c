package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smmpanel/backend/internal/domain/account"
	"github.com/smmpanel/backend/internal/domain/shared"
)

func TestLedgerServiceCreditDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("credits balance and saves under lock", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewLedgerService(userRepo)
		user := newTestUser(100000, 0)

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("SaveWithLock", ctx, user).Return(nil)

		updated, err := service.CreditDeposit(ctx, user.ID, 500000, "TX-1")

		require.NoError(t, err)
		assert.Equal(t, int64(600000), updated.Balance)
		userRepo.AssertExpectations(t)
	})

	t.Run("retries on lock conflict with a fresh copy", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewLedgerService(userRepo)
		user := newTestUser(100000, 0)
		lockErr := shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "version conflict")

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("SaveWithLock", ctx, mock.Anything).Return(lockErr).Once()
		userRepo.On("SaveWithLock", ctx, mock.Anything).Return(nil).Once()

		_, err := service.CreditDeposit(ctx, user.ID, 500000, "TX-1")

		require.NoError(t, err)
		userRepo.AssertNumberOfCalls(t, "SaveWithLock", 2)
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewLedgerService(userRepo)
		user := newTestUser(100000, 0)
		lockErr := shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "version conflict")

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("SaveWithLock", ctx, mock.Anything).Return(lockErr)

		_, err := service.CreditDeposit(ctx, user.ID, 500000, "TX-1")

		assert.ErrorIs(t, err, ErrLedgerConflict)
		userRepo.AssertNumberOfCalls(t, "SaveWithLock", maxLockRetries+1)
	})

	t.Run("does not retry non-lock errors", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewLedgerService(userRepo)
		user := newTestUser(100000, 0)
		dbErr := assert.AnError

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("SaveWithLock", ctx, mock.Anything).Return(dbErr)

		_, err := service.CreditDeposit(ctx, user.ID, 500000, "TX-1")

		assert.ErrorIs(t, err, dbErr)
		userRepo.AssertNumberOfCalls(t, "SaveWithLock", 1)
	})
}

func TestLedgerServiceDebitForOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("debits when balance is sufficient", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewLedgerService(userRepo)
		user := newTestUser(10000, 0)

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("SaveWithLock", ctx, user).Return(nil)

		updated, err := service.DebitForOrder(ctx, user.ID, 10000)

		require.NoError(t, err)
		assert.Equal(t, int64(0), updated.Balance)
	})

	t.Run("rejects insufficient balance without saving", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewLedgerService(userRepo)
		user := newTestUser(9999, 0)

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		_, err := service.DebitForOrder(ctx, user.ID, 10000)

		assert.ErrorIs(t, err, shared.ErrInsufficientBalance)
		assert.Equal(t, int64(9999), user.Balance)
		userRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestLedgerServiceRefundOrder(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	service := NewLedgerService(userRepo)
	user := newTestUser(0, 0)

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("SaveWithLock", ctx, user).Return(nil)

	updated, err := service.RefundOrder(ctx, user.ID, 25000)

	require.NoError(t, err)
	assert.Equal(t, int64(25000), updated.Balance)
}

func TestLedgerServiceReferralEarnings(t *testing.T) {
	ctx := context.Background()

	t.Run("credits commission", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewLedgerService(userRepo)
		referrer := newTestUser(0, 0)

		userRepo.On("FindByID", ctx, referrer.ID).Return(referrer, nil)
		userRepo.On("SaveWithLock", ctx, referrer).Return(nil)

		updated, err := service.CreditCommission(ctx, referrer.ID, 37500)

		require.NoError(t, err)
		assert.Equal(t, int64(37500), updated.ReferralEarnings)
	})

	t.Run("payout floors earnings at zero", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewLedgerService(userRepo)
		user := newTestUser(0, 300000)

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("SaveWithLock", ctx, user).Return(nil)

		updated, err := service.ApplyWithdrawalPayout(ctx, user.ID, 500000)

		require.NoError(t, err)
		assert.Equal(t, int64(0), updated.ReferralEarnings)
	})
}

func TestLedgerServiceAdjustBalance(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	service := NewLedgerService(userRepo)
	user := newTestUser(100, 0)

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("SaveWithLock", ctx, user).Return(nil)

	updated, err := service.AdjustBalance(ctx, user.ID, 999900)

	require.NoError(t, err)
	assert.Equal(t, int64(999900), updated.Balance)

	_, err = service.AdjustBalance(ctx, user.ID, -1)
	assert.Error(t, err)
}

var _ account.UserRepository = (*MockUserRepository)(nil)
