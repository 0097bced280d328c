package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smmpanel/backend/internal/domain/billing"
	"github.com/smmpanel/backend/internal/domain/shared"
)

func newWebhookService(userRepo *MockUserRepository, txRepo *MockTransactionRepository, store *MockIdempotencyStore) *WebhookService {
	return NewWebhookService(txRepo, NewLedgerService(userRepo), store, zap.NewNop())
}

func TestWebhookServiceHandleNotification(t *testing.T) {
	ctx := context.Background()

	t.Run("completes a pending transaction and credits", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		txRepo := new(MockTransactionRepository)
		store := new(MockIdempotencyStore)
		service := newWebhookService(userRepo, txRepo, store)
		user := newTestUser(0, 0)
		tx := newPendingTransaction(user.ID, 500000)

		store.On("MarkProcessed", ctx, mock.Anything, webhookDedupTTL).Return(true, nil)
		txRepo.On("FindByGatewayID", ctx, tx.GatewayID).Return(tx, nil)
		txRepo.On("Save", ctx, tx).Return(nil)
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("SaveWithLock", ctx, user).Return(nil)

		err := service.HandleNotification(ctx, WebhookNotification{
			TranID: tx.GatewayID,
			Status: "COMPLETED",
		})

		require.NoError(t, err)
		assert.Equal(t, billing.TransactionStatusCompleted, tx.Status)
		assert.Equal(t, int64(500000), user.Balance)
	})

	t.Run("drops duplicate notifications", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		txRepo := new(MockTransactionRepository)
		store := new(MockIdempotencyStore)
		service := newWebhookService(userRepo, txRepo, store)

		store.On("MarkProcessed", ctx, mock.Anything, webhookDedupTTL).Return(false, nil)

		err := service.HandleNotification(ctx, WebhookNotification{TranID: "TX-DUP", Status: "COMPLETED"})

		require.NoError(t, err)
		txRepo.AssertNotCalled(t, "FindByGatewayID", mock.Anything, mock.Anything)
	})

	t.Run("ignores settled transactions even when dedup is unavailable", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		txRepo := new(MockTransactionRepository)
		store := new(MockIdempotencyStore)
		service := newWebhookService(userRepo, txRepo, store)
		user := newTestUser(0, 0)
		tx := newPendingTransaction(user.ID, 500000)
		require.NoError(t, tx.Complete())

		store.On("MarkProcessed", ctx, mock.Anything, webhookDedupTTL).Return(false, assert.AnError)
		txRepo.On("FindByGatewayID", ctx, tx.GatewayID).Return(tx, nil)

		err := service.HandleNotification(ctx, WebhookNotification{TranID: tx.GatewayID, Status: "COMPLETED"})

		require.NoError(t, err)
		userRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("marks a pending transaction failed without crediting", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		txRepo := new(MockTransactionRepository)
		store := new(MockIdempotencyStore)
		service := newWebhookService(userRepo, txRepo, store)
		tx := newPendingTransaction(newTestUser(0, 0).ID, 500000)

		store.On("MarkProcessed", ctx, mock.Anything, webhookDedupTTL).Return(true, nil)
		txRepo.On("FindByGatewayID", ctx, tx.GatewayID).Return(tx, nil)
		txRepo.On("Save", ctx, tx).Return(nil)

		err := service.HandleNotification(ctx, WebhookNotification{TranID: tx.GatewayID, Status: "FAILED"})

		require.NoError(t, err)
		assert.Equal(t, billing.TransactionStatusFailed, tx.Status)
		userRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("records an unknown completed transaction and credits the named user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		txRepo := new(MockTransactionRepository)
		store := new(MockIdempotencyStore)
		service := newWebhookService(userRepo, txRepo, store)
		user := newTestUser(0, 0)

		store.On("MarkProcessed", ctx, mock.Anything, webhookDedupTTL).Return(true, nil)
		txRepo.On("FindByGatewayID", ctx, "TX-EXT").Return(nil, shared.ErrNotFound)
		txRepo.On("Create", ctx, mock.MatchedBy(func(tx *billing.Transaction) bool {
			return tx.GatewayID == "TX-EXT" && tx.Status == billing.TransactionStatusCompleted
		})).Return(nil)
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("SaveWithLock", ctx, user).Return(nil)

		err := service.HandleNotification(ctx, WebhookNotification{
			TranID: "TX-EXT",
			Status: "COMPLETED",
			Amount: "2500",
			Number: "255744123456",
			UserID: user.ID.String(),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(250000), user.Balance)
	})

	t.Run("persists unknown non-completed notifications without crediting", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		txRepo := new(MockTransactionRepository)
		store := new(MockIdempotencyStore)
		service := newWebhookService(userRepo, txRepo, store)
		user := newTestUser(0, 0)

		store.On("MarkProcessed", ctx, mock.Anything, webhookDedupTTL).Return(true, nil)
		txRepo.On("FindByGatewayID", ctx, "TX-EXT2").Return(nil, shared.ErrNotFound)
		txRepo.On("Create", ctx, mock.MatchedBy(func(tx *billing.Transaction) bool {
			return tx.Status == billing.TransactionStatusFailed
		})).Return(nil)

		err := service.HandleNotification(ctx, WebhookNotification{
			TranID: "TX-EXT2",
			Status: "FAILED",
			Amount: "2500",
			Number: "255744123456",
			UserID: user.ID.String(),
		})

		require.NoError(t, err)
		userRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown transactions with an invalid user id", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		txRepo := new(MockTransactionRepository)
		store := new(MockIdempotencyStore)
		service := newWebhookService(userRepo, txRepo, store)

		store.On("MarkProcessed", ctx, mock.Anything, webhookDedupTTL).Return(true, nil)
		store.On("Release", ctx, mock.Anything).Return(nil)
		txRepo.On("FindByGatewayID", ctx, "TX-BAD").Return(nil, shared.ErrNotFound)

		err := service.HandleNotification(ctx, WebhookNotification{
			TranID: "TX-BAD",
			Status: "COMPLETED",
			Amount: "2500",
			UserID: "not-a-uuid",
		})

		assert.Error(t, err)
		txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("credits on redelivery after a transient failure", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		txRepo := new(MockTransactionRepository)
		store := new(MockIdempotencyStore)
		service := newWebhookService(userRepo, txRepo, store)
		user := newTestUser(0, 0)
		key := webhookKey("TX-RETRY", billing.TransactionStatusCompleted)
		notification := WebhookNotification{
			TranID: "TX-RETRY",
			Status: "COMPLETED",
			Amount: "5000",
			Number: "255744123456",
			UserID: user.ID.String(),
		}

		// First delivery: persisting the transaction fails, so the dedup
		// mark must be released for the gateway's redelivery.
		store.On("MarkProcessed", ctx, key, webhookDedupTTL).Return(true, nil).Twice()
		store.On("Release", ctx, key).Return(nil).Once()
		txRepo.On("FindByGatewayID", ctx, "TX-RETRY").Return(nil, shared.ErrNotFound)
		txRepo.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

		err := service.HandleNotification(ctx, notification)
		require.Error(t, err)
		assert.Equal(t, int64(0), user.Balance)

		// Redelivery: storage recovered, the user is credited.
		txRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("SaveWithLock", ctx, user).Return(nil)

		err = service.HandleNotification(ctx, notification)
		require.NoError(t, err)
		assert.Equal(t, int64(500000), user.Balance)
		store.AssertExpectations(t)
		txRepo.AssertNumberOfCalls(t, "Create", 2)
	})
}

func TestParseWebhookStatus(t *testing.T) {
	assert.Equal(t, billing.TransactionStatusCompleted, parseWebhookStatus("completed"))
	assert.Equal(t, billing.TransactionStatusCompleted, parseWebhookStatus(" SUCCESS "))
	assert.Equal(t, billing.TransactionStatusFailed, parseWebhookStatus("Failed"))
	assert.Equal(t, billing.TransactionStatusFailed, parseWebhookStatus("CANCELLED"))
	assert.Equal(t, billing.TransactionStatusPending, parseWebhookStatus("PENDING"))
	assert.Equal(t, billing.TransactionStatusPending, parseWebhookStatus("anything else"))
}
