package ordering

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrProviderRequestFailed   = errors.New("provider: request failed")
	ErrProviderInvalidResponse = errors.New("provider: invalid response")
	ErrProviderRejected        = errors.New("provider: order rejected")
)

// ProviderService is a service as listed by the SMM provider's catalog
type ProviderService struct {
	ServiceID   int
	Name        string
	Category    string
	Type        string
	Rate        decimal.Decimal
	MinQuantity int
	MaxQuantity int
}

// AddOrderRequest places an order with the provider
type AddOrderRequest struct {
	ServiceID int
	Link      string
	Quantity  int
}

// ProviderOrderStatus is the provider's view of a placed order
type ProviderOrderStatus struct {
	Status     OrderStatus
	Charge     string
	StartCount int
	Remains    int
	Currency   string
}

// RefillStatus is the provider's view of a refill request
type RefillStatus struct {
	RefillID string
	Status   string
}

// Provider defines the port interface for the upstream SMM reseller API.
// The concrete HTTP adapter lives in the infrastructure layer.
type Provider interface {
	// Services lists the provider's service catalog
	Services(ctx context.Context) ([]ProviderService, error)

	// Balance returns the reseller account balance at the provider
	Balance(ctx context.Context) (decimal.Decimal, string, error)

	// AddOrder places an order and returns the provider order id
	AddOrder(ctx context.Context, req *AddOrderRequest) (string, error)

	// OrderStatus fetches the current status of an order
	OrderStatus(ctx context.Context, providerOrderID string) (*ProviderOrderStatus, error)

	// CancelOrder asks the provider to cancel a pending order
	CancelOrder(ctx context.Context, providerOrderID string) error

	// Refill requests a refill for a completed order
	Refill(ctx context.Context, providerOrderID string) (string, error)

	// RefillStatus fetches the state of a refill request
	RefillStatus(ctx context.Context, refillID string) (*RefillStatus, error)
}
