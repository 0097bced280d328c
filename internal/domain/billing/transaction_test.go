package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDepositTransaction(t *testing.T) {
	userID := uuid.New()

	t.Run("creates pending transaction with deadline", func(t *testing.T) {
		tx, err := NewDepositTransaction(userID, "744123456", 500000, "TX-001", 3*time.Minute)

		require.NoError(t, err)
		assert.Equal(t, userID, tx.UserID)
		assert.Equal(t, "255744123456", tx.Phone)
		assert.Equal(t, int64(500000), tx.Amount)
		assert.Equal(t, "TX-001", tx.GatewayID)
		assert.Equal(t, TransactionStatusPending, tx.Status)
		assert.Nil(t, tx.CompletedAt)
		assert.WithinDuration(t, tx.CreatedAt.Add(3*time.Minute), tx.DeadlineAt, time.Second)
	})

	t.Run("fails with nil user", func(t *testing.T) {
		_, err := NewDepositTransaction(uuid.Nil, "744123456", 500000, "TX-001", 3*time.Minute)

		assert.Error(t, err)
	})

	t.Run("fails with invalid phone", func(t *testing.T) {
		_, err := NewDepositTransaction(userID, "12345", 500000, "TX-001", 3*time.Minute)

		assert.ErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("fails with non-positive amount", func(t *testing.T) {
		_, err := NewDepositTransaction(userID, "744123456", 0, "TX-001", 3*time.Minute)

		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("fails with empty gateway id", func(t *testing.T) {
		_, err := NewDepositTransaction(userID, "744123456", 500000, "", 3*time.Minute)

		assert.Error(t, err)
	})
}

func TestTransactionTransitions(t *testing.T) {
	newPending := func(t *testing.T) *Transaction {
		t.Helper()
		tx, err := NewDepositTransaction(uuid.New(), "744123456", 500000, "TX-001", 3*time.Minute)
		require.NoError(t, err)
		return tx
	}

	t.Run("pending completes once", func(t *testing.T) {
		tx := newPending(t)

		require.NoError(t, tx.Complete())
		assert.Equal(t, TransactionStatusCompleted, tx.Status)
		assert.NotNil(t, tx.CompletedAt)
		assert.False(t, tx.IsPending())

		assert.ErrorIs(t, tx.Complete(), ErrTransactionSettled)
		assert.ErrorIs(t, tx.Fail("late"), ErrTransactionSettled)
	})

	t.Run("pending fails once with reason", func(t *testing.T) {
		tx := newPending(t)

		require.NoError(t, tx.Fail("payer declined"))
		assert.Equal(t, TransactionStatusFailed, tx.Status)
		assert.Equal(t, "payer declined", tx.FailureReason)
		assert.NotNil(t, tx.CompletedAt)

		assert.ErrorIs(t, tx.Complete(), ErrTransactionSettled)
	})

	t.Run("expiry is driven by the deadline", func(t *testing.T) {
		tx := newPending(t)

		assert.False(t, tx.IsExpired(tx.CreatedAt.Add(time.Minute)))
		assert.True(t, tx.IsExpired(tx.CreatedAt.Add(4*time.Minute)))
	})
}

func TestNewWebhookTransaction(t *testing.T) {
	t.Run("records a terminal transaction with settlement time", func(t *testing.T) {
		tx, err := NewWebhookTransaction(uuid.New(), "255744123456", 250000, "TX-W1", TransactionStatusCompleted)

		require.NoError(t, err)
		assert.Equal(t, TransactionStatusCompleted, tx.Status)
		assert.NotNil(t, tx.CompletedAt)
	})

	t.Run("records a pending transaction without settlement time", func(t *testing.T) {
		tx, err := NewWebhookTransaction(uuid.New(), "255744123456", 250000, "TX-W2", TransactionStatusPending)

		require.NoError(t, err)
		assert.Nil(t, tx.CompletedAt)
	})

	t.Run("fails with empty gateway id", func(t *testing.T) {
		_, err := NewWebhookTransaction(uuid.New(), "255744123456", 250000, "", TransactionStatusCompleted)

		assert.Error(t, err)
	})
}

func TestWithdrawal(t *testing.T) {
	userID := uuid.New()

	t.Run("creates pending withdrawal at the minimum", func(t *testing.T) {
		w, err := NewWithdrawal(userID, "744123456", MinWithdrawalAmount)

		require.NoError(t, err)
		assert.Equal(t, WithdrawalStatusPending, w.Status)
		assert.Equal(t, "255744123456", w.Phone)
		assert.True(t, w.IsPending())
	})

	t.Run("rejects amounts below the minimum", func(t *testing.T) {
		_, err := NewWithdrawal(userID, "744123456", MinWithdrawalAmount-1)

		assert.ErrorIs(t, err, ErrWithdrawalTooSmall)
	})

	t.Run("rejects invalid phone", func(t *testing.T) {
		_, err := NewWithdrawal(userID, "123", MinWithdrawalAmount)

		assert.ErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("pending transitions to paid exactly once", func(t *testing.T) {
		w, err := NewWithdrawal(userID, "744123456", MinWithdrawalAmount)
		require.NoError(t, err)

		require.NoError(t, w.MarkPaid())
		assert.Equal(t, WithdrawalStatusPaid, w.Status)
		assert.NotNil(t, w.SettledAt)

		assert.ErrorIs(t, w.MarkPaid(), ErrWithdrawalSettled)
		assert.ErrorIs(t, w.Cancel(), ErrWithdrawalSettled)
	})

	t.Run("pending transitions to canceled", func(t *testing.T) {
		w, err := NewWithdrawal(userID, "744123456", MinWithdrawalAmount)
		require.NoError(t, err)

		require.NoError(t, w.Cancel())
		assert.Equal(t, WithdrawalStatusCanceled, w.Status)
		assert.ErrorIs(t, w.MarkPaid(), ErrWithdrawalSettled)
	})
}
