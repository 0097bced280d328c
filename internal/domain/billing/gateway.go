package billing

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrGatewayRequestFailed   = errors.New("gateway: request failed")
	ErrGatewayInvalidResponse = errors.New("gateway: invalid response")
	ErrGatewayRejected        = errors.New("gateway: transaction rejected")
)

// CreateTransactionRequest asks the gateway to push a payment prompt to the
// given phone number
type CreateTransactionRequest struct {
	// Phone is the normalized 255-prefixed payer number
	Phone string
	// Amount is the deposit in major units
	Amount decimal.Decimal
	// Name is the payer's display name shown on the prompt
	Name string
}

// CreateTransactionResponse carries the gateway-assigned transaction id
type CreateTransactionResponse struct {
	TransactionID string
	Message       string
}

// TransactionStatusResponse is the gateway's view of a transaction
type TransactionStatusResponse struct {
	TransactionID string
	Status        TransactionStatus
	Amount        decimal.Decimal
	Message       string
}

// PaymentGateway defines the port interface for the mobile-money gateway.
// The concrete HTTP adapter lives in the infrastructure layer.
type PaymentGateway interface {
	// CreateTransaction initiates a push payment and returns the gateway
	// transaction id used for all later status queries
	CreateTransaction(ctx context.Context, req *CreateTransactionRequest) (*CreateTransactionResponse, error)

	// QueryTransaction fetches the current status of a transaction
	QueryTransaction(ctx context.Context, transactionID string) (*TransactionStatusResponse, error)

	// Balance returns the merchant account balance in major units
	Balance(ctx context.Context) (decimal.Decimal, error)
}
