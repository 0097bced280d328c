package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/billing"
)

// =============================================================================
// Deposit DTOs
// =============================================================================

// InitiateDepositRequest represents a request to start a deposit
type InitiateDepositRequest struct {
	Phone  string `json:"phone" binding:"required,min=9,max=20"`
	Amount string `json:"amount" binding:"required,max=20"`
}

// TransactionResponse represents a deposit transaction in API responses
type TransactionResponse struct {
	ID            uuid.UUID  `json:"id"`
	GatewayID     string     `json:"gateway_id"`
	Phone         string     `json:"phone"`
	Amount        int64      `json:"amount"`
	Status        string     `json:"status"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// ToTransactionResponse converts a transaction to its API representation
func ToTransactionResponse(tx *billing.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            tx.ID,
		GatewayID:     tx.GatewayID,
		Phone:         tx.Phone,
		Amount:        tx.Amount,
		Status:        string(tx.Status),
		FailureReason: tx.FailureReason,
		CreatedAt:     tx.CreatedAt,
		CompletedAt:   tx.CompletedAt,
	}
}

// =============================================================================
// Withdrawal DTOs
// =============================================================================

// RequestWithdrawalRequest represents a request to pay out referral earnings
type RequestWithdrawalRequest struct {
	Phone  string `json:"phone" binding:"required,min=9,max=20"`
	Amount string `json:"amount" binding:"required,max=20"`
}

// WithdrawalResponse represents a withdrawal in API responses
type WithdrawalResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Phone     string     `json:"phone"`
	Amount    int64      `json:"amount"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
}

// ToWithdrawalResponse converts a withdrawal to its API representation
func ToWithdrawalResponse(w *billing.Withdrawal) *WithdrawalResponse {
	return &WithdrawalResponse{
		ID:        w.ID,
		UserID:    w.UserID,
		Phone:     w.Phone,
		Amount:    w.Amount,
		Status:    string(w.Status),
		CreatedAt: w.CreatedAt,
		SettledAt: w.SettledAt,
	}
}

// =============================================================================
// Webhook DTOs
// =============================================================================

// WebhookNotification is the gateway's server-to-server payment notification
type WebhookNotification struct {
	TranID string `json:"tranID" binding:"required"`
	Status string `json:"status" binding:"required"`
	Amount string `json:"amount"`
	Number string `json:"number"`
	UserID string `json:"userId"`
}
